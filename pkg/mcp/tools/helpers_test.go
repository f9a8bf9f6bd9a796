package tools

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
)

func requestWithArgs(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func TestTrimString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"whitespace only", "   ", ""},
		{"both sides whitespace", "  test  ", "test"},
		{"mixed whitespace", " \t\ntest\n\t ", "test"},
		{"no whitespace", "test", "test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, trimString(tt.input))
		})
	}
}

func TestGetOptionalString(t *testing.T) {
	req := requestWithArgs(map[string]any{"name": "people", "count": 3.0})

	assert.Equal(t, "people", getOptionalString(req, "name"))
	assert.Equal(t, "", getOptionalString(req, "count"))
	assert.Equal(t, "", getOptionalString(req, "missing"))
	assert.Equal(t, "", getOptionalString(mcp.CallToolRequest{}, "name"))
}

func TestGetOptionalBoolWithDefault(t *testing.T) {
	req := requestWithArgs(map[string]any{"nary": true, "text": "true"})

	assert.True(t, getOptionalBoolWithDefault(req, "nary", false))
	assert.False(t, getOptionalBoolWithDefault(req, "text", false))
	assert.True(t, getOptionalBoolWithDefault(req, "missing", true))
}

func TestGetStringSlice(t *testing.T) {
	req := requestWithArgs(map[string]any{
		"csvs":  []any{"a\n1", 7.0, "b\n2"},
		"other": "not-an-array",
	})

	assert.Equal(t, []string{"a\n1", "b\n2"}, getStringSlice(req, "csvs"))
	assert.Nil(t, getStringSlice(req, "other"))
	assert.Nil(t, getStringSlice(req, "missing"))
}
