package http

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/course-manager/internal/user"
)

// UpdateUserRequest is a partial update; omitted fields stay unchanged.
type UpdateUserRequest struct {
	FirstName   *string `json:"firstname,omitempty" validate:"omitempty,min=1,max=50"`
	Surname     *string `json:"surname,omitempty" validate:"omitempty,min=1,max=50"`
	Age         *int    `json:"age,omitempty" validate:"omitempty,min=1,max=150"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=8"`
	IsOrganizer *bool   `json:"isOrganizer,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

type UserResponse struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"firstname"`
	Surname     string    `json:"surname"`
	Age         int       `json:"age"`
	Email       string    `json:"email"`
	IsOrganizer bool      `json:"isOrganizer"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		Surname:     u.Surname,
		Age:         u.Age,
		Email:       u.Email,
		IsOrganizer: u.IsOrganizer,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type UserHandler struct {
	service  user.Service
	validate *validator.Validate
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: newValidator(),
	}
}

func (h *UserHandler) RegisterRoutes(router chi.Router) {
	router.Get("/api/users", h.handleListUsers)
	router.Get("/api/users/{id}", h.handleGetUserByID)
	router.Get("/api/users/email/{email}", h.handleGetUserByEmail)
	router.Put("/api/users/{id}", h.handleUpdateUser)
	router.Put("/api/users/{id}/password", h.handleChangePassword)
	router.Delete("/api/users/{id}", h.handleDeleteUser)
}

// userErrorMessage turns service errors into client-facing text.
func userErrorMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, user.ErrNotFound):
		return "User not found"
	case errors.Is(err, user.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, user.ErrHasEvents):
		return "User organizes events and cannot be deleted"
	case errors.Is(err, user.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, user.ErrOrganizesEvents):
		return "User organizes events and must stay an organizer"
	case errors.Is(err, user.ErrTooYoungForEvents):
		return "Age is below the minimum age of an event the user is enrolled in"
	default:
		return fallback
	}
}

// mapUserMutationError keeps 400 for every known failure of update and delete.
func mapUserMutationError(err error) int {
	switch {
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, user.ErrEmailExists),
		errors.Is(err, user.ErrHasEvents),
		errors.Is(err, user.ErrOrganizesEvents),
		errors.Is(err, user.ErrTooYoungForEvents):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *UserHandler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	response := make([]UserResponse, 0, len(users))
	for i := range users {
		response = append(response, toUserResponse(&users[i]))
	}
	respondWithJSON(w, http.StatusOK, response)
}

func (h *UserHandler) handleGetUserByID(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "id")
	if err != nil {
		log.Warn().Err(err).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	foundUser, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, userErrorMessage(err, ""))
			return
		}
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to get user by id via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to get user by id")
		return
	}

	respondWithJSON(w, http.StatusOK, toUserResponse(foundUser))
}

func (h *UserHandler) handleGetUserByEmail(w http.ResponseWriter, r *http.Request) {
	// chi matches on the raw path, so an escaped email arrives still encoded
	emailParam, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to unescape email param")
		respondWithError(w, http.StatusBadRequest, "Invalid email parameter")
		return
	}
	if emailParam == "" {
		log.Warn().Msg("Failed to parse email from param")
		respondWithError(w, http.StatusBadRequest, "Email parameter cannot be empty")
		return
	}

	foundUser, err := h.service.GetUserByEmail(r.Context(), emailParam)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, userErrorMessage(err, ""))
			return
		}
		log.Error().Err(err).Str("email", emailParam).Msg("Failed to get user by email via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to get user by email")
		return
	}

	respondWithJSON(w, http.StatusOK, toUserResponse(foundUser))
}

func (h *UserHandler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "id")
	if err != nil {
		log.Warn().Err(err).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	var requestPayload UpdateUserRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	updated, err := h.service.UpdateUser(r.Context(), userID, user.UpdateInput{
		FirstName:   requestPayload.FirstName,
		Surname:     requestPayload.Surname,
		Age:         requestPayload.Age,
		Email:       requestPayload.Email,
		Password:    requestPayload.Password,
		IsOrganizer: requestPayload.IsOrganizer,
	})
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to update user via service")
		respondWithError(w, mapUserMutationError(err), userErrorMessage(err, "Failed to update user"))
		return
	}

	respondWithJSON(w, http.StatusOK, toUserResponse(updated))
}

func (h *UserHandler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	var requestPayload ChangePasswordRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	err = h.service.ChangePassword(r.Context(), userID, requestPayload.CurrentPassword, requestPayload.NewPassword)
	if err != nil {
		status := mapUserMutationError(err)
		if errors.Is(err, user.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
		}
		log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to change password")
		respondWithError(w, status, userErrorMessage(err, "Failed to change password"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "id")
	if err != nil {
		log.Warn().Err(err).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to delete user via service")
		respondWithError(w, mapUserMutationError(err), userErrorMessage(err, "Failed to delete user"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
