package tools

import (
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/rhobs/yearchart/pkg/histogram"
)

// YearCountsOutput defines the output schema for the year_counts tool.
type YearCountsOutput struct {
	Records []histogram.Record `json:"records" jsonschema:"Document count of every year, oldest first"`
	Total   int64              `json:"total" jsonschema:"Sum of all counts"`
}

// SignificantTermsInput holds the arguments of the significant_terms tool.
type SignificantTermsInput struct {
	Year string `json:"year"`
}

// SignificantTermsOutput defines the output schema for the significant_terms tool.
type SignificantTermsOutput struct {
	Year  int              `json:"year" jsonschema:"The calendar year the terms were computed for"`
	Date  time.Time        `json:"date" jsonschema:"Start of the calendar year"`
	Terms []histogram.Term `json:"terms" jsonschema:"Significant keywords ordered by significance"`
}

// RenderYearChartInput holds the arguments of the render_year_chart tool.
type RenderYearChartInput struct {
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Format string `json:"format,omitempty"`
}

// RenderYearChartOutput defines the output schema for the render_year_chart tool.
type RenderYearChartOutput struct {
	Format   string `json:"format" jsonschema:"Output format: svg, png or html"`
	MIMEType string `json:"mimeType" jsonschema:"MIME type of content"`
	Content  string `json:"content" jsonschema:"The rendered chart; base64 encoded for png"`
	Years    int    `json:"years" jsonschema:"Number of bars drawn"`
}

// OutputSchemas returns the schema of the structured output of every tool, keyed by tool name.
func OutputSchemas() (map[string]*jsonschema.Schema, error) {
	builders := map[string]func() (*jsonschema.Schema, error){
		YearCounts.Name:       func() (*jsonschema.Schema, error) { return jsonschema.For[YearCountsOutput](nil) },
		SignificantTerms.Name: func() (*jsonschema.Schema, error) { return jsonschema.For[SignificantTermsOutput](nil) },
		RenderYearChart.Name:  func() (*jsonschema.Schema, error) { return jsonschema.For[RenderYearChartOutput](nil) },
	}

	schemas := make(map[string]*jsonschema.Schema, len(builders))
	for name, build := range builders {
		schema, err := build()
		if err != nil {
			return nil, fmt.Errorf("output schema of %s: %w", name, err)
		}
		schemas[name] = schema
	}
	return schemas, nil
}
