package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ChillLP/traewelling/internal/domain"
)

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("handler: encode response", "error", err)
	}
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// writeServiceError maps domain sentinel errors to HTTP responses.
// notFoundMsg lets each handler name the missing resource; everything else
// uses a fixed code and carries the validation detail where available.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	var fields domain.FieldErrors
	switch {
	case errors.As(err, &fields):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorDetail{
			Code:    "validation_failed",
			Message: "validation failed",
			Fields:  fields,
		}})
	case errors.Is(err, domain.ErrStationNotFound):
		writeErrorCode(w, http.StatusBadRequest, "station_not_found", "no train station matched the suggested name")
	case errors.Is(err, domain.ErrValidation):
		writeErrorCode(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeErrorCode(w, http.StatusBadRequest, "already_exists", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeErrorCode(w, http.StatusForbidden, "forbidden", "you are not allowed to perform this action")
	case errors.Is(err, domain.ErrNotFound):
		writeErrorCode(w, http.StatusNotFound, "not_found", notFoundMsg)
	default:
		slog.ErrorContext(r.Context(), "handler: unexpected error", "method", r.Method, "path", r.URL.Path, "error", err)
		writeErrorCode(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeErrorCode(w, http.StatusBadRequest, "bad_request", message)
}
