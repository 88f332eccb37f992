package handler

// RESPONSE HELPERS:
// Every JSON response goes through writeJSON, every failure through
// writeError, so the page's scripts always see the same shapes:
//
//	writeJSON(w, http.StatusOK, data)
//	writeError(w, err)
//
// Error responses look like:
//
//	{"error": "validation_error", "message": "age must be between 18 and 100"}

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Riddhikharpe/house-helpers/internal/apperror"
)

// ErrorResponse is the error body returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`           // machine-readable kind, e.g. "storage_error"
	Message string `json:"message"`         // shown to the user as-is
	Field   string `json:"field,omitempty"` // form field at fault, when known
}

// MessageResponse is the body of a plain success notice.
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON sends data as JSON with the given status code. Headers must be
// set before WriteHeader, and WriteHeader before the body.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends it.
//
// ERROR MAPPING:
//
//	apperror.ErrValidation → 400 validation_error
//	apperror.ErrAuth       → 401 invalid_credentials
//	apperror.ErrUpload     → 500 upload_error
//	apperror.ErrStorage    → 500 storage_error
//	anything else          → 500 internal_error (message masked)
//
// errors.Is walks the whole chain, so a service error wrapped as
// fmt.Errorf("registering helper: %w", apperror.Upload(...)) still maps to
// upload_error.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrAuth):
			status = http.StatusUnauthorized
			errorType = "invalid_credentials"
		case errors.Is(err, apperror.ErrUpload):
			errorType = "upload_error"
		case errors.Is(err, apperror.ErrStorage):
			errorType = "storage_error"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
			Field:   appErr.Field,
		})
		return
	}

	// Unknown errors may carry paths or driver details; never echo them.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
