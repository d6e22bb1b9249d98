package mcp

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rhobs/yearchart/pkg/render"
)

//go:embed ui/chart.html
var chartTemplate string

//go:embed ui/styles.css
var chartStyles string

func buildChartHTML(body string) string {
	r := strings.NewReplacer(
		"{{STYLES}}", chartStyles,
		"{{CHART}}", body,
	)
	return r.Replace(chartTemplate)
}

func chartResourceHandler(opts Options) func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		body, err := chartBody(ctx, opts)
		if err != nil {
			body = fmt.Sprintf(`<p class="error">%s</p>`, html.EscapeString(err.Error()))
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      ChartResourceURI,
					MIMEType: chartMIMEType,
					Text:     buildChartHTML(body),
				},
			},
		}, nil
	}
}

func chartBody(ctx context.Context, opts Options) (string, error) {
	records, err := opts.Loader.FetchYearCounts(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch year counts: %w", err)
	}

	var buf bytes.Buffer
	if err := render.SVG(&buf, records, render.Options{Shape: opts.Shape}); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.String(), nil
}
