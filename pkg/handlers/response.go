package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-profiler/pkg/apperrors"
)

// ApiResponse is the standard envelope for API responses.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse writes a JSON error envelope and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	return WriteJSON(w, statusCode, ApiResponse{
		Success: false,
		Error:   errorCode,
		Message: message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// statusForError maps service errors to an HTTP status and error code.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrInvalidRelation):
		return http.StatusBadRequest, "invalid_relation"
	case errors.Is(err, apperrors.ErrUnsupportedOperation):
		return http.StatusBadRequest, "unsupported_operation"
	case errors.Is(err, apperrors.ErrUnsupportedDatasource):
		return http.StatusBadRequest, "unsupported_datasource"
	case errors.Is(err, apperrors.ErrUnsafeIdentifier):
		return http.StatusBadRequest, "unsafe_identifier"
	case errors.Is(err, apperrors.ErrInvalidConfig):
		return http.StatusBadRequest, "invalid_config"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeServiceError logs err and writes the matching error envelope.
// Client errors are logged at WARN, the rest at ERROR.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, operation string, err error) {
	status, code := statusForError(err)
	if status >= http.StatusInternalServerError {
		logger.Error(operation+" failed", zap.Error(err))
	} else {
		logger.Warn(operation+" rejected", zap.String("code", code), zap.Error(err))
	}
	if err := ErrorResponse(w, status, code, err.Error()); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}
