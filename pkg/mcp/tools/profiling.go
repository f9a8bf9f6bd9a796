package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
	"github.com/ekaya-inc/ekaya-profiler/pkg/services"
)

// ToolNames lists every tool this package registers.
var ToolNames = []string{"health", "profile_uccs", "profile_inds", "match_schemas"}

// ProfilingToolDeps contains dependencies for the profiling tools.
type ProfilingToolDeps struct {
	Service services.ProfilingService
	Logger  *zap.Logger
}

// RegisterProfilingTools registers UCC discovery, IND discovery and schema
// matching over CSV text.
func RegisterProfilingTools(s *server.MCPServer, deps *ProfilingToolDeps) {
	registerProfileUCCsTool(s, deps)
	registerProfileINDsTool(s, deps)
	registerMatchSchemasTool(s, deps)
}

// csvSource wraps CSV text as a datasource reference read by the csv adapter.
func csvSource(name, text, delimiter string) models.RelationSource {
	config := map[string]any{"content": text}
	if delimiter != "" {
		config["delimiter"] = delimiter
	}
	return models.RelationSource{Name: name, Type: "csv", Config: config}
}

// runResult renders a run as the tool's JSON text result.
func runResult(run *models.ProfileRun) (*mcp.CallToolResult, error) {
	payload, err := json.Marshal(run)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s run: %w", run.Kind, err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func registerProfileUCCsTool(s *server.MCPServer, deps *ProfilingToolDeps) {
	tool := mcp.NewTool(
		"profile_uccs",
		mcp.WithDescription(
			"Discover the minimal unique column combinations of a relation given as CSV text. "+
				"The first line is the header. Returns every minimal set of columns whose values identify each row.",
		),
		mcp.WithString("csv", mcp.Required(), mcp.Description("CSV text including a header line")),
		mcp.WithString("name", mcp.Description("Relation name (default: csv)")),
		mcp.WithString("delimiter", mcp.Description("Single-character field delimiter (default: server setting)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("csv")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}

		src := csvSource(trimString(getOptionalString(req, "name")), text, getOptionalString(req, "delimiter"))
		run, err := deps.Service.ProfileUCCs(ctx, src)
		if err != nil {
			deps.Logger.Debug("profile_uccs failed", zap.Error(err))
			return resultForError(err)
		}
		return runResult(run)
	})
}

func registerProfileINDsTool(s *server.MCPServer, deps *ProfilingToolDeps) {
	tool := mcp.NewTool(
		"profile_inds",
		mcp.WithDescription(
			"Discover unary inclusion dependencies across relations given as CSV texts: "+
				"pairs of columns where every value of one also occurs in the other. "+
				"Relations are named by position (r1, r2, ...) unless names are given.",
		),
		mcp.WithArray("csvs", mcp.Required(), mcp.WithStringItems(), mcp.Description("CSV texts, each including a header line")),
		mcp.WithArray("names", mcp.WithStringItems(), mcp.Description("Optional relation names, matched to csvs by position")),
		mcp.WithBoolean("nary", mcp.Description("Request n-ary dependencies (not supported; default: false)")),
		mcp.WithString("delimiter", mcp.Description("Single-character field delimiter (default: server setting)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		texts := getStringSlice(req, "csvs")
		if len(texts) == 0 {
			return NewErrorResult("invalid_parameters", "csvs must contain at least one CSV text"), nil
		}
		names := getStringSlice(req, "names")
		if len(names) > len(texts) {
			return NewErrorResultWithDetails("invalid_parameters", "more names than csvs",
				map[string]any{"csvs": len(texts), "names": len(names)}), nil
		}
		delimiter := getOptionalString(req, "delimiter")

		srcs := make([]models.RelationSource, len(texts))
		for i, text := range texts {
			name := fmt.Sprintf("r%d", i+1)
			if i < len(names) && trimString(names[i]) != "" {
				name = trimString(names[i])
			}
			srcs[i] = csvSource(name, text, delimiter)
		}

		run, err := deps.Service.ProfileINDs(ctx, srcs, getOptionalBoolWithDefault(req, "nary", false))
		if err != nil {
			deps.Logger.Debug("profile_inds failed", zap.Error(err))
			return resultForError(err)
		}
		return runResult(run)
	})
}

func registerMatchSchemasTool(s *server.MCPServer, deps *ProfilingToolDeps) {
	tool := mcp.NewTool(
		"match_schemas",
		mcp.WithDescription(
			"Match the attributes of two relations given as CSV texts. "+
				"Returns the similarity matrix and a one-to-one correspondence between source and target columns.",
		),
		mcp.WithString("source_csv", mcp.Required(), mcp.Description("Source relation as CSV text with a header line")),
		mcp.WithString("target_csv", mcp.Required(), mcp.Description("Target relation as CSV text with a header line")),
		mcp.WithString("delimiter", mcp.Description("Single-character field delimiter (default: server setting)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sourceText, err := req.RequireString("source_csv")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		targetText, err := req.RequireString("target_csv")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		delimiter := getOptionalString(req, "delimiter")

		run, err := deps.Service.MatchSchemas(ctx,
			csvSource("source", sourceText, delimiter),
			csvSource("target", targetText, delimiter))
		if err != nil {
			deps.Logger.Debug("match_schemas failed", zap.Error(err))
			return resultForError(err)
		}
		return runResult(run)
	})
}
