package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/specvital/metashift/internal/outwriter"
	"github.com/specvital/metashift/pkg/metrics"
	"github.com/specvital/metashift/pkg/parser"
)

type toolHandler struct {
	cfg Config
}

// ingest parses report_root and returns it as an absolute path, the form runs
// are recorded under.
func (h *toolHandler) ingest(ctx context.Context, request mcp.CallToolRequest) (string, *parser.Result, *mcp.CallToolResult) {
	root := request.GetString("report_root", "")
	if root == "" {
		return "", nil, mcp.NewToolResultError("report_root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", nil, mcp.NewToolResultError(fmt.Sprintf("invalid report_root: %v", err))
	}
	result, err := parser.Ingest(ctx, abs, h.cfg.Ingest...)
	if err != nil {
		return "", nil, mcp.NewToolResultError(fmt.Sprintf("ingestion failed: %v", err))
	}
	return abs, result, nil
}

func (h *toolHandler) handleListRecipes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, result, failure := h.ingest(ctx, request)
	if failure != nil {
		return failure, nil
	}
	return jsonResult(outwriter.SummarizeIngest(result))
}

func (h *toolHandler) handleEvaluateReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, result, failure := h.ingest(ctx, request)
	if failure != nil {
		return failure, nil
	}

	report := metrics.EvaluateRecipes(result.Recipes, h.cfg.Criteria)
	if h.cfg.History != nil {
		baseline, err := h.cfg.History.Baseline(ctx, root)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
		}
		if baseline != nil {
			report.SetDifference(*baseline)
		}
	}

	if id := request.GetString("recipe", ""); id != "" {
		for _, rs := range report.Recipes {
			if rs.Recipe == id {
				return jsonResult(rs)
			}
		}
		return mcp.NewToolResultError(fmt.Sprintf("recipe %q not found", id)), nil
	}
	return jsonResult(report)
}

func (h *toolHandler) handleGetCriteria(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c := h.cfg.Criteria
	out := struct {
		Thresholds           map[metrics.Metric]float64 `json:"thresholds"`
		ComplexityTolerance  int64                      `json:"complexity_tolerance"`
		DuplicationTolerance int64                      `json:"duplication_tolerance"`
	}{
		Thresholds:           make(map[metrics.Metric]float64),
		ComplexityTolerance:  c.ComplexityTolerance(),
		DuplicationTolerance: c.DuplicationTolerance(),
	}
	for _, m := range metrics.Metrics() {
		out.Thresholds[m] = c.Threshold(m)
	}
	return jsonResult(out)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
