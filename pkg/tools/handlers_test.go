package tools

import (
	"context"
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rhobs/yearchart/pkg/chart"
	"github.com/rhobs/yearchart/pkg/elasticsearch"
	"github.com/rhobs/yearchart/pkg/histogram"
	"github.com/rhobs/yearchart/pkg/resultutil"
)

// MockedLoader is a mock implementation of elasticsearch.Loader for testing
type MockedLoader struct {
	FetchYearCountsFunc       func(ctx context.Context) ([]histogram.Record, error)
	FetchSignificantTermsFunc func(ctx context.Context, date time.Time) ([]histogram.Term, error)
}

func (m *MockedLoader) FetchYearCounts(ctx context.Context) ([]histogram.Record, error) {
	if m.FetchYearCountsFunc != nil {
		return m.FetchYearCountsFunc(ctx)
	}
	return []histogram.Record{}, nil
}

func (m *MockedLoader) FetchSignificantTerms(ctx context.Context, date time.Time) ([]histogram.Term, error) {
	if m.FetchSignificantTermsFunc != nil {
		return m.FetchSignificantTermsFunc(ctx, date)
	}
	return []histogram.Term{}, nil
}

var _ elasticsearch.Loader = (*MockedLoader)(nil)

func sampleRecords() []histogram.Record {
	return []histogram.Record{
		{Date: histogram.YearStart(2020), Count: 3},
		{Date: histogram.YearStart(2021), Count: 5},
	}
}

func TestYearCountsHandler(t *testing.T) {
	loader := &MockedLoader{
		FetchYearCountsFunc: func(ctx context.Context) ([]histogram.Record, error) {
			return sampleRecords(), nil
		},
	}

	result := YearCountsHandler(context.Background(), loader)
	if result.IsError() {
		t.Fatalf("unexpected error: %v", result.Error)
	}

	output, ok := result.Data.(YearCountsOutput)
	if !ok {
		t.Fatalf("unexpected data type %T", result.Data)
	}
	if len(output.Records) != 2 || output.Total != 8 {
		t.Errorf("unexpected output %+v", output)
	}
	if !strings.Contains(result.JSONText, `"date":"2020-01-01T00:00:00Z"`) {
		t.Errorf("expected RFC3339 dates in JSON, got %s", result.JSONText)
	}
}

func TestYearCountsHandler_BackendError(t *testing.T) {
	loader := &MockedLoader{
		FetchYearCountsFunc: func(ctx context.Context) ([]histogram.Record, error) {
			return nil, &elasticsearch.StatusError{StatusCode: 503, Body: "unavailable"}
		},
	}

	result := YearCountsHandler(context.Background(), loader)
	if !result.IsError() {
		t.Fatal("expected an error result")
	}
	var statusErr *elasticsearch.StatusError
	if !errors.As(result.Error, &statusErr) {
		t.Errorf("expected the status error to be wrapped, got %v", result.Error)
	}
	if result.StatusCode() != 502 {
		t.Errorf("expected 502, got %d", result.StatusCode())
	}
}

func TestSignificantTermsHandler(t *testing.T) {
	var calls int
	var gotDate time.Time
	loader := &MockedLoader{
		FetchSignificantTermsFunc: func(ctx context.Context, date time.Time) ([]histogram.Term, error) {
			calls++
			gotDate = date
			return []histogram.Term{{Key: "genomics", Count: 4}}, nil
		},
	}

	result := SignificantTermsHandler(context.Background(), loader, SignificantTermsInput{Year: "2020"})
	if result.IsError() {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	if calls != 1 {
		t.Errorf("expected exactly one query, got %d", calls)
	}
	if !gotDate.Equal(histogram.YearStart(2020)) {
		t.Errorf("expected the 2020 year start, got %v", gotDate)
	}

	output := result.Data.(SignificantTermsOutput)
	if output.Year != 2020 || len(output.Terms) != 1 {
		t.Errorf("unexpected output %+v", output)
	}
}

func TestSignificantTermsHandler_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input SignificantTermsInput
	}{
		{name: "missing year", input: SignificantTermsInput{}},
		{name: "not a year", input: SignificantTermsInput{Year: "last year"}},
		{name: "zero year", input: SignificantTermsInput{Year: "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &MockedLoader{
				FetchSignificantTermsFunc: func(ctx context.Context, date time.Time) ([]histogram.Term, error) {
					t.Error("loader must not be called for invalid input")
					return nil, nil
				},
			}

			result := SignificantTermsHandler(context.Background(), loader, tt.input)
			if !errors.Is(result.Error, resultutil.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", result.Error)
			}
		})
	}
}

func TestRenderYearChartHandler(t *testing.T) {
	loader := &MockedLoader{
		FetchYearCountsFunc: func(ctx context.Context) ([]histogram.Record, error) {
			return sampleRecords(), nil
		},
	}

	t.Run("svg by default", func(t *testing.T) {
		result := RenderYearChartHandler(context.Background(), loader, RenderYearChartInput{Width: 400, Height: 200}, chart.DefaultShape())
		if result.IsError() {
			t.Fatalf("unexpected error: %v", result.Error)
		}
		output := result.Data.(RenderYearChartOutput)
		if output.Format != "svg" || output.MIMEType != "image/svg+xml" || output.Years != 2 {
			t.Errorf("unexpected output metadata %+v", output)
		}
		if !strings.Contains(output.Content, `width="400"`) || !strings.Contains(output.Content, ">2021<") {
			t.Errorf("unexpected svg %s", output.Content)
		}
	})

	t.Run("png is base64 encoded", func(t *testing.T) {
		result := RenderYearChartHandler(context.Background(), loader, RenderYearChartInput{Format: "png"}, chart.DefaultShape())
		if result.IsError() {
			t.Fatalf("unexpected error: %v", result.Error)
		}
		raw, err := base64.StdEncoding.DecodeString(result.Data.(RenderYearChartOutput).Content)
		if err != nil {
			t.Fatalf("invalid base64: %v", err)
		}
		if !strings.HasPrefix(string(raw), "\x89PNG") {
			t.Error("expected a PNG image")
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		for _, input := range []RenderYearChartInput{
			{Format: "gif"},
			{Width: 20},
			{Height: -1},
			{Width: 20000},
		} {
			result := RenderYearChartHandler(context.Background(), loader, input, chart.DefaultShape())
			if !errors.Is(result.Error, resultutil.ErrInvalidInput) {
				t.Errorf("%+v: expected ErrInvalidInput, got %v", input, result.Error)
			}
		}
	})
}

func TestShapeForUsesDefaultShape(t *testing.T) {
	def := chart.ShapeForOuterSize(600, 200, chart.Margin{Top: 5, Right: 5, Bottom: 25, Left: 35})

	tests := []struct {
		name          string
		def           chart.Shape
		width, height int
		wantW, wantH  float64
		wantMargin    chart.Margin
	}{
		{name: "unset sizes", def: def, wantW: 600, wantH: 200, wantMargin: def.Margin},
		{name: "width only", def: def, width: 800, wantW: 800, wantH: 200, wantMargin: def.Margin},
		{name: "height only", def: def, height: 400, wantW: 600, wantH: 400, wantMargin: def.Margin},
		{name: "zero default", wantW: 960, wantH: 300, wantMargin: chart.DefaultMargin()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ShapeFor(tt.def, tt.width, tt.height)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.OuterWidth() != tt.wantW || got.OuterHeight() != tt.wantH {
				t.Errorf("expected %vx%v, got %vx%v", tt.wantW, tt.wantH, got.OuterWidth(), got.OuterHeight())
			}
			if got.Margin != tt.wantMargin {
				t.Errorf("expected margin %+v, got %+v", tt.wantMargin, got.Margin)
			}
		})
	}
}

func TestRenderYearChartHandlerConfiguredShape(t *testing.T) {
	loader := &MockedLoader{
		FetchYearCountsFunc: func(ctx context.Context) ([]histogram.Record, error) {
			return sampleRecords(), nil
		},
	}
	def := chart.ShapeForOuterSize(600, 200, chart.DefaultMargin())

	result := RenderYearChartHandler(context.Background(), loader, RenderYearChartInput{}, def)
	if result.IsError() {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	content := result.Data.(RenderYearChartOutput).Content
	if !strings.Contains(content, `width="600"`) || !strings.Contains(content, `height="200"`) {
		t.Errorf("expected a 600x200 chart, got %s", content)
	}
}

func TestBuildRenderYearChartInput(t *testing.T) {
	input, err := BuildRenderYearChartInput(url.Values{"width": {"640"}, "format": {"html"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.Width != 640 || input.Height != 0 || input.Format != "html" {
		t.Errorf("unexpected input %+v", input)
	}

	if _, err := BuildRenderYearChartInput(url.Values{"height": {"tall"}}); err == nil {
		t.Error("expected an error for a non-numeric height")
	}
}

func TestToolDefinitions(t *testing.T) {
	names := map[string]bool{}
	for _, def := range AllTools() {
		if names[def.Name] {
			t.Errorf("duplicate tool %s", def.Name)
		}
		names[def.Name] = true

		schema := def.InputSchema()
		if schema.Type != "object" {
			t.Errorf("%s: expected an object schema", def.Name)
		}
		for _, p := range def.Params {
			if _, ok := schema.Properties[p.Name]; !ok {
				t.Errorf("%s: missing property %s", def.Name, p.Name)
			}
		}

		tool := def.ToMCPTool()
		if tool.Name != def.Name || tool.Description == "" {
			t.Errorf("%s: incomplete MCP tool %+v", def.Name, tool)
		}
	}

	if got := SignificantTerms.InputSchema().Required; len(got) != 1 || got[0] != "year" {
		t.Errorf("expected year to be required, got %v", got)
	}
}

func TestOutputSchemas(t *testing.T) {
	schemas, err := OutputSchemas()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, def := range AllTools() {
		schema, ok := schemas[def.Name]
		if !ok {
			t.Errorf("missing output schema for %s", def.Name)
			continue
		}
		if schema.Type != "object" || len(schema.Properties) == 0 {
			t.Errorf("expected an object schema with properties for %s, got %+v", def.Name, schema)
		}
	}

	if _, ok := schemas[RenderYearChart.Name].Properties["mimeType"]; !ok {
		t.Error("expected the mimeType field in the render_year_chart output")
	}
}
