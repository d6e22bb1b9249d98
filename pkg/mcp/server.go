package mcp

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rhobs/yearchart/pkg/chart"
	"github.com/rhobs/yearchart/pkg/elasticsearch"
	"github.com/rhobs/yearchart/pkg/tools"
)

const (
	serverName    = "yearchart"
	serverVersion = "1.0.0"

	// ChartResourceURI addresses the rendered chart app.
	ChartResourceURI = "ui://year-chart"
	chartMIMEType    = "text/html;profile=mcp-app"
)

// Options contains configuration options for the MCP server
type Options struct {
	Loader elasticsearch.Loader
	// Shape sizes the chart resource and the charts rendered without an explicit size.
	Shape chart.Shape
}

// NewMCPServer builds a server exposing the chart tools and the chart resource.
func NewMCPServer(opts Options) *mcp.Server {
	if opts.Shape == (chart.Shape{}) {
		opts.Shape = chart.DefaultShape()
	}
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		Instructions: tools.ServerPrompt,
	})

	SetupTools(server, opts)

	server.AddResource(&mcp.Resource{
		URI:         ChartResourceURI,
		Name:        "Year Chart",
		Description: "Bar chart of indexed articles per year",
		MIMEType:    chartMIMEType,
	}, chartResourceHandler(opts))

	return server
}

func SetupTools(server *mcp.Server, opts Options) {
	mcp.AddTool(server, tools.YearCounts.ToMCPTool(), YearCountsHandler(opts))
	mcp.AddTool(server, tools.SignificantTerms.ToMCPTool(), SignificantTermsHandler(opts))
	mcp.AddTool(server, tools.RenderYearChart.ToMCPTool(), RenderYearChartHandler(opts))
}

// NewHTTPHandler serves the server over the streamable HTTP transport.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{Stateless: true})
}

// ServeStdio runs the server on stdin/stdout until ctx is done or the client disconnects.
func ServeStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
