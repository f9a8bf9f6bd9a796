package tools

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ekaya-inc/ekaya-profiler/pkg/apperrors"
)

// ErrorResponse represents a structured error in tool results.
// It is returned as the text of a tool result so the client sees
// actionable details instead of a transport failure.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use this for errors the caller can fix (bad CSV, unsupported options).
// System failures should still return Go errors.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	return NewErrorResultWithDetails(code, message, nil)
}

// NewErrorResultWithDetails creates an error result with additional context.
func NewErrorResultWithDetails(code, message string, details any) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
		Details: details,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// userErrorCode returns the tool error code for errors caused by the
// caller's input, or "" for system failures.
func userErrorCode(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInvalidRelation):
		return "invalid_relation"
	case errors.Is(err, apperrors.ErrInvalidConfig):
		return "invalid_config"
	case errors.Is(err, apperrors.ErrUnsupportedOperation):
		return "unsupported_operation"
	case errors.Is(err, apperrors.ErrUnsupportedDatasource):
		return "unsupported_datasource"
	case errors.Is(err, apperrors.ErrUnsafeIdentifier):
		return "unsafe_identifier"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	default:
		return ""
	}
}

// resultForError converts a service error into a tool error result when the
// caller can act on it, and returns the error unchanged otherwise.
func resultForError(err error) (*mcp.CallToolResult, error) {
	if code := userErrorCode(err); code != "" {
		return NewErrorResult(code, err.Error()), nil
	}
	return nil, err
}
