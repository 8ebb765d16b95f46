package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/course-manager/internal/user"
)

type RegisterRequest struct {
	FirstName   string `json:"firstname" validate:"required,max=50"`
	Surname     string `json:"surname" validate:"required,max=50"`
	Age         int    `json:"age" validate:"required,min=1,max=150"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	IsOrganizer bool   `json:"isOrganizer"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthHandler struct {
	service  user.Service
	validate *validator.Validate
}

func NewAuthHandler(service user.Service) *AuthHandler {
	return &AuthHandler{service: service, validate: newValidator()}
}

func (h *AuthHandler) RegisterRoutes(router chi.Router) {
	router.Post("/api/auth/register", h.handleRegister)
	router.Post("/api/auth/login", h.handleLogin)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var requestPayload RegisterRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	domainUser := user.User{
		FirstName:   requestPayload.FirstName,
		Surname:     requestPayload.Surname,
		Age:         requestPayload.Age,
		Email:       requestPayload.Email,
		IsOrganizer: requestPayload.IsOrganizer,
	}

	createdUser, err := h.service.CreateUser(r.Context(), &domainUser, requestPayload.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			respondWithError(w, http.StatusConflict, "Email already exists")
			return
		}
		log.Error().Err(err).Msg("Failed to create user via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	log.Info().Int64("user_id", createdUser.ID).Bool("is_organizer", createdUser.IsOrganizer).Msg("User registered")
	respondWithJSON(w, http.StatusCreated, toUserResponse(createdUser))
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var requestPayload LoginRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	authenticated, err := h.service.Authenticate(r.Context(), requestPayload.Email, requestPayload.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Error().Err(err).Msg("Failed to authenticate user")
		respondWithError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	respondWithJSON(w, http.StatusOK, toUserResponse(authenticated))
}
