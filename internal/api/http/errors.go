package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/logger"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	if code == "" {
		code = http.StatusText(status)
	}
	writeJSON(w, status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: logger.RequestID(r.Context()),
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidDateRange):
		respondError(w, r, http.StatusBadRequest, "invalid_date_range", err.Error())
	case errors.Is(err, domain.ErrValidation):
		respondError(w, r, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		respondError(w, r, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		respondError(w, r, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrCarUnavailable):
		respondError(w, r, http.StatusConflict, "car_unavailable", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		respondError(w, r, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, domain.ErrConflict):
		respondError(w, r, http.StatusConflict, "conflict", err.Error())
	default:
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Validationf("malformed request body: %v", err)
	}
	return nil
}
