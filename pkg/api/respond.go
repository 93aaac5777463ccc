package api

import (
	"encoding/json"
	stdliberrors "errors"
	"net/http"
	"time"

	apperrors "github.com/teampulse/teampulse/pkg/errors"
)

// respondJSON sends a JSON response with appropriate headers.
func respondJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

// respondCreated sends a 201 with the created payload.
func respondCreated(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusCreated)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

// respondError sends a structured JSON error response.
func respondError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	response := struct {
		Error     string `json:"error"`
		Status    int    `json:"status"`
		Code      string `json:"code,omitempty"`
		Retryable bool   `json:"retryable,omitempty"`
		Timestamp string `json:"timestamp"`
	}{
		Status:    status,
		Error:     http.StatusText(status),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	var appErr *apperrors.Error
	if stdliberrors.As(err, &appErr) {
		response.Code = string(appErr.Code)
		response.Error = appErr.Message
		response.Retryable = appErr.Retryable
	} else if err != nil {
		response.Error = err.Error()
	}

	_ = json.NewEncoder(w).Encode(response)
}

// statusForError maps structured error codes to HTTP statuses.
func statusForError(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidWindow:
		return http.StatusBadRequest
	case apperrors.ErrCodeStorageRead, apperrors.ErrCodeStorageWrite:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
