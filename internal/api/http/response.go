package http

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"equipos-backend/internal/docstore"
	"equipos-backend/internal/logger"
	"equipos-backend/internal/repository"
	"equipos-backend/internal/service"
	"equipos-backend/internal/storage"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(Response{Status: StatusOK, Data: data}); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Response{Status: StatusError, Error: msg})
}

// writeFailure maps service and store errors onto status codes.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		logger.WarnContext(r.Context(), "Request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, code, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, storage.ErrInvalidKey):
		return http.StatusBadRequest
	case repository.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, docstore.ErrQuotaExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, docstore.ErrIndexMissing):
		return http.StatusFailedDependency
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
