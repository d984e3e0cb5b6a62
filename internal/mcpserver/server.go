// Package mcpserver exposes report ingestion and evaluation as Model Context
// Protocol tools.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/specvital/metashift/pkg/history"
	"github.com/specvital/metashift/pkg/metrics"
	"github.com/specvital/metashift/pkg/parser"
)

// Config is shared by every tool call.
type Config struct {
	Criteria metrics.Criteria
	Ingest   []parser.IngestOption
	// History supplies baselines for evaluations. Nil disables deltas.
	History *history.Store
	Version string
}

// NewServer configures the MCP server without starting it.
func NewServer(cfg Config) *server.MCPServer {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	s := server.NewMCPServer(
		"metashift",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{cfg: cfg}

	s.AddTool(mcp.NewTool("list_recipes",
		mcp.WithDescription("Ingest a report root and list its recipes with per-category record counts."),
		mcp.WithString("report_root", mcp.Description("Directory holding one sub-directory per recipe."), mcp.Required()),
	), h.handleListRecipes)

	s.AddTool(mcp.NewTool("evaluate_report",
		mcp.WithDescription("Ingest a report root and qualify every metric in aggregate and per recipe."),
		mcp.WithString("report_root", mcp.Description("Directory holding one sub-directory per recipe."), mcp.Required()),
		mcp.WithString("recipe", mcp.Description("Only return this recipe's evaluation.")),
	), h.handleEvaluateReport)

	s.AddTool(mcp.NewTool("get_criteria",
		mcp.WithDescription("Return the thresholds evaluations are qualified against."),
	), h.handleGetCriteria)

	return s
}

// Serve runs the MCP server on stdio until the client disconnects.
func Serve(_ context.Context, cfg Config) error {
	return server.ServeStdio(NewServer(cfg))
}
