package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/course-manager/internal/tag"
)

type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type TagHandler struct {
	service  tag.Service
	validate *validator.Validate
}

func NewTagHandler(service tag.Service) *TagHandler {
	return &TagHandler{service: service, validate: newValidator()}
}

func (h *TagHandler) RegisterRoutes(router chi.Router) {
	router.Get("/api/tags", h.handleListTags)
	router.Get("/api/tags/{id}", h.handleGetTagByID)
	router.Post("/api/tags", h.handleCreateTag)
}

func mapTagErrorToStatusCode(err error) (int, string) {
	switch {
	case errors.Is(err, tag.ErrNotFound):
		return http.StatusNotFound, "Tag not found"
	case errors.Is(err, tag.ErrNameExists):
		return http.StatusConflict, "Tag already exists"
	case errors.Is(err, tag.ErrEmptyName):
		return http.StatusBadRequest, "Tag name cannot be empty"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *TagHandler) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list tags via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to list tags")
		return
	}
	respondWithJSON(w, http.StatusOK, tags)
}

func (h *TagHandler) handleGetTagByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	t, err := h.service.GetTagByID(r.Context(), id)
	if err != nil {
		status, message := mapTagErrorToStatusCode(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Int64("tag_id", id).Msg("Failed to get tag")
		}
		respondWithError(w, status, message)
		return
	}
	respondWithJSON(w, http.StatusOK, t)
}

func (h *TagHandler) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateTagRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	created, err := h.service.CreateTag(r.Context(), &tag.Tag{Name: requestPayload.Name})
	if err != nil {
		status, message := mapTagErrorToStatusCode(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Msg("Failed to create tag")
		}
		respondWithError(w, status, message)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}
