package handlers

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-profiler/pkg/mcp"
	"github.com/ekaya-inc/ekaya-profiler/pkg/middleware"
)

// MCPHandler serves the profiling MCP tools over streamable HTTP.
type MCPHandler struct {
	httpServer *server.StreamableHTTPServer
	logger     *zap.Logger
}

func NewMCPHandler(mcpServer *mcp.Server, logger *zap.Logger) *MCPHandler {
	return &MCPHandler{httpServer: mcpServer.NewStreamableHTTPServer(), logger: logger}
}

// RegisterRoutes mounts the stateless MCP endpoint. Only POST is served;
// the server never opens a GET event stream.
func (h *MCPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/mcp", postOnly(middleware.MCPRequestLogger(h.logger)(h.httpServer)))
}

func postOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "MCP requests must use POST", http.StatusMethodNotAllowed)
	})
}
