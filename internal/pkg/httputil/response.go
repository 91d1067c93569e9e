package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/ignite/outreach/internal/pkg/logger"
)

// ErrorResponse is the error envelope for every JSON error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// JSON writes data as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("[HTTP] response encode failed", "error", err.Error())
	}
}

// OK writes a 200 with data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Error writes a JSON error with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// BadRequest writes a 400.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// NotFound writes a 404.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// InternalError writes a 500 with a generic message; the real error goes to
// the log, never to the client.
func InternalError(w http.ResponseWriter, err error) {
	logger.Error("[HTTP] internal error", "error", err.Error())
	Error(w, http.StatusInternalServerError, "internal server error")
}
