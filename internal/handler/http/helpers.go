package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

// respondWithError sends {"error": message}.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// decodeAndValidate writes a 400 response and returns false when the body is not a
// valid payload.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, validate *validator.Validate, dst interface{}) bool {
	if err := decodeStrict(r.Body, dst); err != nil {
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload: %v", err))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:   "Validation failed",
				Details: formatValidationErrors(validationErrors),
			})
		} else {
			log.Error().Err(err).Type("validation_error_type", err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return false
	}
	return true
}

var errMalformedBody = errors.New("body must be a single JSON object")

// decodeStrict accepts exactly one JSON object with known fields and nothing after it.
func decodeStrict(body io.Reader, dst interface{}) error {
	decoder := json.NewDecoder(body)

	var raw json.RawMessage
	if err := decoder.Decode(&raw); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errMalformedBody
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return errMalformedBody
	}

	inner := json.NewDecoder(bytes.NewReader(raw))
	inner.DisallowUnknownFields()
	return inner.Decode(dst)
}

func formatValidationErrors(errs validator.ValidationErrors) []string {
	details := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("Field '%s' is required", field))
		case "email":
			details = append(details, fmt.Sprintf("Field '%s' must be a valid email address", field))
		case "min":
			if fe.Kind() == reflect.String {
				details = append(details, fmt.Sprintf("Field '%s' must be at least %s characters long", field, fe.Param()))
			} else {
				details = append(details, fmt.Sprintf("Field '%s' must be at least %s", field, fe.Param()))
			}
		case "max":
			if fe.Kind() == reflect.String {
				details = append(details, fmt.Sprintf("Field '%s' must be at most %s characters long", field, fe.Param()))
			} else {
				details = append(details, fmt.Sprintf("Field '%s' must be at most %s", field, fe.Param()))
			}
		case "gt", "gtfield":
			details = append(details, fmt.Sprintf("Field '%s' must be greater than %s", field, fe.Param()))
		default:
			details = append(details, fmt.Sprintf("Field '%s' failed on '%s'", field, fe.Tag()))
		}
	}
	return details
}

// parseIDParam reads a positive numeric URL parameter.
func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter %q: %w", name, raw, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter %q: must be positive", name, raw)
	}
	return id, nil
}
