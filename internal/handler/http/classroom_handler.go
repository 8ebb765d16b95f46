package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/course-manager/internal/classroom"
)

type CreateClassroomRequest struct {
	ClassroomName string `json:"classroomName" validate:"required,max=50"`
	Capacity      int    `json:"capacity" validate:"required,gt=0"`
	Location      string `json:"location" validate:"max=255"`
	Info          string `json:"info"`
}

type ClassroomHandler struct {
	service  classroom.Service
	validate *validator.Validate
}

func NewClassroomHandler(service classroom.Service) *ClassroomHandler {
	return &ClassroomHandler{service: service, validate: newValidator()}
}

func (h *ClassroomHandler) RegisterRoutes(router chi.Router) {
	router.Get("/api/classrooms", h.handleListClassrooms)
	router.Get("/api/classrooms/{id}", h.handleGetClassroomByID)
	router.Post("/api/classrooms", h.handleCreateClassroom)
	router.Delete("/api/classrooms/{id}", h.handleDeleteClassroom)
}

func mapClassroomErrorToStatusCode(err error) (int, string) {
	switch {
	case errors.Is(err, classroom.ErrNotFound):
		return http.StatusNotFound, "Classroom not found"
	case errors.Is(err, classroom.ErrNameExists):
		return http.StatusConflict, "Classroom name already exists"
	case errors.Is(err, classroom.ErrInUse):
		return http.StatusConflict, "Classroom is used by events"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *ClassroomHandler) handleListClassrooms(w http.ResponseWriter, r *http.Request) {
	classrooms, err := h.service.ListClassrooms(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list classrooms via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to list classrooms")
		return
	}
	respondWithJSON(w, http.StatusOK, classrooms)
}

func (h *ClassroomHandler) handleGetClassroomByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	c, err := h.service.GetClassroomByID(r.Context(), id)
	if err != nil {
		status, message := mapClassroomErrorToStatusCode(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Int64("classroom_id", id).Msg("Failed to get classroom")
		}
		respondWithError(w, status, message)
		return
	}
	respondWithJSON(w, http.StatusOK, c)
}

func (h *ClassroomHandler) handleCreateClassroom(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateClassroomRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	created, err := h.service.CreateClassroom(r.Context(), &classroom.Classroom{
		ClassroomName: requestPayload.ClassroomName,
		Capacity:      requestPayload.Capacity,
		Location:      requestPayload.Location,
		Info:          requestPayload.Info,
	})
	if err != nil {
		status, message := mapClassroomErrorToStatusCode(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Msg("Failed to create classroom")
		}
		respondWithError(w, status, message)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *ClassroomHandler) handleDeleteClassroom(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	if err := h.service.DeleteClassroom(r.Context(), id); err != nil {
		status, message := mapClassroomErrorToStatusCode(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Int64("classroom_id", id).Msg("Failed to delete classroom")
		}
		respondWithError(w, status, message)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
