package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ekaya-inc/ekaya-profiler/pkg/services"
)

type healthResult struct {
	Status      string   `json:"status"`
	Version     string   `json:"version"`
	Datasources []string `json:"datasources"`
}

// RegisterHealthTool adds a health check tool to the MCP server.
// The tool returns the server status, version and registered datasource types.
func RegisterHealthTool(s *server.MCPServer, version string, service services.ProfilingService) {
	tool := mcp.NewTool(
		"health",
		mcp.WithDescription("Returns server health status and version"),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		types := []string{}
		if service != nil {
			for _, info := range service.DatasourceTypes() {
				types = append(types, info.Type)
			}
		}

		result, err := json.Marshal(healthResult{Status: "ok", Version: version, Datasources: types})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal health result: %w", err)
		}
		return mcp.NewToolResultText(string(result)), nil
	})
}
