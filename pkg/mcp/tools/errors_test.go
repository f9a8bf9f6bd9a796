package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/ekaya-profiler/pkg/apperrors"
)

// decodeErrorResult parses the JSON text of an error result.
func decodeErrorResult(t *testing.T, result *mcp.CallToolResult) ErrorResponse {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(text.Text), &resp))
	return resp
}

func TestNewErrorResult(t *testing.T) {
	result := NewErrorResult("invalid_relation", "row 3 has 2 fields, want 3")

	assert.True(t, result.IsError)
	resp := decodeErrorResult(t, result)
	assert.True(t, resp.Error)
	assert.Equal(t, "invalid_relation", resp.Code)
	assert.Equal(t, "row 3 has 2 fields, want 3", resp.Message)
	assert.Nil(t, resp.Details)
}

func TestNewErrorResultWithDetails(t *testing.T) {
	result := NewErrorResultWithDetails("invalid_parameters", "csvs must not be empty",
		map[string]any{"parameter": "csvs"})

	assert.True(t, result.IsError)
	resp := decodeErrorResult(t, result)
	assert.Equal(t, map[string]any{"parameter": "csvs"}, resp.Details)
}

func TestResultForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"invalid relation", fmt.Errorf("load: %w", apperrors.ErrInvalidRelation), "invalid_relation"},
		{"invalid config", fmt.Errorf("open: %w", apperrors.ErrInvalidConfig), "invalid_config"},
		{"unsupported operation", apperrors.ErrUnsupportedOperation, "unsupported_operation"},
		{"unsupported datasource", apperrors.ErrUnsupportedDatasource, "unsupported_datasource"},
		{"unsafe identifier", apperrors.ErrUnsafeIdentifier, "unsafe_identifier"},
		{"not found", apperrors.ErrNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := resultForError(tt.err)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, decodeErrorResult(t, result).Code)
		})
	}

	t.Run("system failure stays a Go error", func(t *testing.T) {
		boom := errors.New("connection refused")
		result, err := resultForError(boom)
		assert.Nil(t, result)
		assert.Same(t, boom, err)
	})
}
