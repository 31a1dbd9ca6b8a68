package http

import (
	"encoding/json"
	"net/http"

	"hallms-backend/internal/logger"
	"hallms-backend/internal/service"
)

// envelope is the uniform response shape. Successful responses carry data,
// failures carry a message; success is always present.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// pagedData wraps list payloads with their total row count.
type pagedData struct {
	Items interface{} `json:"items"`
	Total int32       `json:"total"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writePaged(w http.ResponseWriter, items interface{}, total int32) {
	writeSuccess(w, http.StatusOK, pagedData{Items: items, Total: total})
}

func writeError(w http.ResponseWriter, err error) {
	status := statusOf(service.KindOf(err))
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Internal details stay in the log.
		logger.Error("Request failed", "error", err)
		msg = "internal server error"
	}
	writeJSON(w, status, envelope{Success: false, Message: msg})
}

func statusOf(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindAuth:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
