package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/winterarc/internal/config"
	"github.com/hpungsan/winterarc/internal/errors"
	"github.com/hpungsan/winterarc/internal/ops"
	"github.com/hpungsan/winterarc/internal/tracker"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	tracker *tracker.Tracker
	cfg     *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(tr *tracker.Tracker, cfg *config.Config) *Handlers {
	return &Handlers{tracker: tr, cfg: cfg}
}

// AddRequest represents the arguments for food_add.
type AddRequest struct {
	Name     string  `json:"name"`
	Calories rawText `json:"calories"`
}

// DeleteRequest represents the arguments for food_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// ListRequest represents the arguments for food_list.
type ListRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// ExportRequest represents the arguments for food_export.
type ExportRequest struct {
	Path string `json:"path,omitempty"`
}

// HandleAdd handles the food_add tool.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[AddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Add(ctx, h.tracker, ops.AddInput{
		Name:     args.Name,
		Calories: string(args.Calories),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the food_delete tool.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(ctx, h.tracker, ops.DeleteInput{ID: args.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the food_list tool.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	return successResult(ops.List(h.tracker, ops.ListInput{
		Limit:  args.Limit,
		Offset: args.Offset,
	}))
}

// HandleTotals handles the food_totals tool.
func (h *Handlers) HandleTotals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.Summary(h.tracker))
}

// HandleReport handles the food_report tool.
func (h *Handlers) HandleReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.Report(h.tracker, ops.ReportInput{}))
}

// HandleExport handles the food_export tool.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.tracker, h.cfg, ops.ExportInput{Path: args.Path})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var aErr *errors.ArcError
	if stderrors.As(err, &aErr) {
		errorObj := map[string]any{
			"code":    aErr.Code,
			"message": aErr.Message,
			"status":  aErr.Status,
		}
		// Internal and store errors may carry paths or connection strings
		if aErr.Status < 500 && aErr.Details != nil {
			errorObj["details"] = aErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
