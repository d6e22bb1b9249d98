// test-chart serves the year chart over built-in sample data for local development.
// It exposes the same routes as yearchart, MCP endpoint included, so the chart
// and the keyword pages can be previewed without an Elasticsearch cluster.
//
// Usage:
//
//	go run ./cmd/test-chart
//
// Then open http://localhost:9199 in your browser.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rhobs/yearchart/pkg/elasticsearch"
	"github.com/rhobs/yearchart/pkg/mcp"
	"github.com/rhobs/yearchart/pkg/server"
)

func main() {
	loader := elasticsearch.SampleFixture()

	handler := server.NewHandler(server.Options{
		Loader:     loader,
		MCPHandler: mcp.NewHTTPHandler(mcp.NewMCPServer(mcp.Options{Loader: loader})),
	})

	addr := "127.0.0.1:9199"
	fmt.Fprintf(os.Stderr, "Chart test harness: http://%s\n", addr)
	if err := server.Serve(context.Background(), handler, addr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
