package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/course-manager/internal/event"
)

type CreateEventRequest struct {
	Name            string    `json:"name" validate:"required,max=255"`
	StartDatetime   time.Time `json:"startDatetime" validate:"required"`
	EndDatetime     time.Time `json:"endDatetime" validate:"required,gtfield=StartDatetime"`
	MaxParticipants int       `json:"maxParticipants" validate:"required,gt=0"`
	MinAge          int       `json:"minAge" validate:"min=0,max=150"`
	Info            string    `json:"info"`
	OrganizerID     int64     `json:"organizerId" validate:"required,gt=0"`
	ClassroomID     int64     `json:"classroomId" validate:"required,gt=0"`
	TagIDs          []int64   `json:"tagIds" validate:"omitempty,dive,gt=0"`
}

type EventHandler struct {
	service  event.Service
	validate *validator.Validate
}

func NewEventHandler(service event.Service) *EventHandler {
	return &EventHandler{service: service, validate: newValidator()}
}

func (h *EventHandler) RegisterRoutes(router chi.Router) {
	router.Get("/api/events", h.handleListEvents)
	router.Get("/api/events/{id}", h.handleGetEventByID)
	router.Post("/api/events", h.handleCreateEvent)
	router.Delete("/api/events/{id}", h.handleDeleteEvent)
	router.Post("/api/events/{id}/participants/{userId}", h.handleEnroll)
	router.Delete("/api/events/{id}/participants/{userId}", h.handleUnenroll)
}

func mapEventErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, event.ErrNotFound),
		errors.Is(err, event.ErrOrganizerNotFound),
		errors.Is(err, event.ErrClassroomNotFound),
		errors.Is(err, event.ErrTagNotFound),
		errors.Is(err, event.ErrUserNotFound),
		errors.Is(err, event.ErrNotEnrolled):
		return http.StatusNotFound
	case errors.Is(err, event.ErrEventFull),
		errors.Is(err, event.ErrAlreadyEnrolled):
		return http.StatusConflict
	case errors.Is(err, event.ErrInvalidTimeRange),
		errors.Is(err, event.ErrInvalidName),
		errors.Is(err, event.ErrInvalidCapacity),
		errors.Is(err, event.ErrInvalidMinAge),
		errors.Is(err, event.ErrNotOrganizer),
		errors.Is(err, event.ErrTooYoung):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondWithEventError(w http.ResponseWriter, err error, fallback string) {
	status := mapEventErrorToStatusCode(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg(fallback)
		respondWithError(w, status, fallback)
		return
	}
	respondWithError(w, status, err.Error())
}

func (h *EventHandler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		respondWithEventError(w, err, "Failed to list events")
		return
	}
	respondWithJSON(w, http.StatusOK, events)
}

func (h *EventHandler) handleGetEventByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	e, err := h.service.GetEventByID(r.Context(), id)
	if err != nil {
		respondWithEventError(w, err, "Failed to get event")
		return
	}
	respondWithJSON(w, http.StatusOK, e)
}

func (h *EventHandler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateEventRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	created, err := h.service.CreateEvent(r.Context(), event.CreateInput{
		Name:            requestPayload.Name,
		StartDatetime:   requestPayload.StartDatetime,
		EndDatetime:     requestPayload.EndDatetime,
		MaxParticipants: requestPayload.MaxParticipants,
		MinAge:          requestPayload.MinAge,
		Info:            requestPayload.Info,
		OrganizerID:     requestPayload.OrganizerID,
		ClassroomID:     requestPayload.ClassroomID,
		TagIDs:          requestPayload.TagIDs,
	})
	if err != nil {
		respondWithEventError(w, err, "Failed to create event")
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *EventHandler) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	if err := h.service.DeleteEvent(r.Context(), id); err != nil {
		respondWithEventError(w, err, "Failed to delete event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) parseParticipantParams(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	eventID, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return 0, 0, false
	}
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid userId parameter")
		return 0, 0, false
	}
	return eventID, userID, true
}

func (h *EventHandler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	eventID, userID, ok := h.parseParticipantParams(w, r)
	if !ok {
		return
	}

	if err := h.service.EnrollParticipant(r.Context(), eventID, userID); err != nil {
		respondWithEventError(w, err, "Failed to enroll participant")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) handleUnenroll(w http.ResponseWriter, r *http.Request) {
	eventID, userID, ok := h.parseParticipantParams(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveParticipant(r.Context(), eventID, userID); err != nil {
		respondWithEventError(w, err, "Failed to remove participant")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
