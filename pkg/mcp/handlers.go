package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rhobs/yearchart/pkg/tools"
)

// YearCountsHandler handles the year_counts tool.
func YearCountsHandler(opts Options) mcp.ToolHandlerFor[struct{}, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
		return tools.YearCountsHandler(ctx, opts.Loader).ToMCPResult(), nil, nil
	}
}

// SignificantTermsHandler handles the significant_terms tool.
func SignificantTermsHandler(opts Options) mcp.ToolHandlerFor[tools.SignificantTermsInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input tools.SignificantTermsInput) (*mcp.CallToolResult, any, error) {
		return tools.SignificantTermsHandler(ctx, opts.Loader, input).ToMCPResult(), nil, nil
	}
}

// RenderYearChartHandler handles the render_year_chart tool.
func RenderYearChartHandler(opts Options) mcp.ToolHandlerFor[tools.RenderYearChartInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input tools.RenderYearChartInput) (*mcp.CallToolResult, any, error) {
		return tools.RenderYearChartHandler(ctx, opts.Loader, input, opts.Shape).ToMCPResult(), nil, nil
	}
}
