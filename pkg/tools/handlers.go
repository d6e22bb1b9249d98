package tools

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/rhobs/yearchart/pkg/chart"
	"github.com/rhobs/yearchart/pkg/elasticsearch"
	"github.com/rhobs/yearchart/pkg/histogram"
	"github.com/rhobs/yearchart/pkg/render"
	"github.com/rhobs/yearchart/pkg/resultutil"
)

const maxChartSide = 10000

// GetInt is a helper to extract an optional integer query parameter.
// A missing parameter yields 0.
func GetInt(values url.Values, key string) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

func BuildSignificantTermsInput(values url.Values) SignificantTermsInput {
	return SignificantTermsInput{
		Year: values.Get("year"),
	}
}

func BuildRenderYearChartInput(values url.Values) (RenderYearChartInput, error) {
	width, err := GetInt(values, "width")
	if err != nil {
		return RenderYearChartInput{}, err
	}
	height, err := GetInt(values, "height")
	if err != nil {
		return RenderYearChartInput{}, err
	}
	return RenderYearChartInput{
		Width:  width,
		Height: height,
		Format: values.Get("format"),
	}, nil
}

// ShapeFor returns the chart shape for the requested outer size. Unset
// dimensions and the margins come from def, or from chart.DefaultShape when
// def is the zero Shape.
func ShapeFor(def chart.Shape, width, height int) (chart.Shape, error) {
	if def == (chart.Shape{}) {
		def = chart.DefaultShape()
	}
	outerWidth, outerHeight := def.OuterWidth(), def.OuterHeight()
	if width != 0 {
		outerWidth = float64(width)
	}
	if height != 0 {
		outerHeight = float64(height)
	}
	if outerWidth > maxChartSide || outerHeight > maxChartSide {
		return chart.Shape{}, fmt.Errorf("chart sides must not exceed %d pixels", maxChartSide)
	}

	shape := chart.ShapeForOuterSize(outerWidth, outerHeight, def.Margin)
	if err := shape.Validate(); err != nil {
		return chart.Shape{}, err
	}
	return shape, nil
}

// YearCountsHandler handles fetching the per-year document counts.
func YearCountsHandler(ctx context.Context, loader elasticsearch.Loader) *resultutil.Result {
	slog.Info("YearCountsHandler called")

	records, err := loader.FetchYearCounts(ctx)
	if err != nil {
		slog.Error("failed to fetch year counts", "error", err)
		return resultutil.NewErrorResult(fmt.Errorf("failed to fetch year counts: %w", err))
	}

	output := YearCountsOutput{Records: records}
	for _, r := range records {
		output.Total += r.Count
	}

	slog.Info("YearCountsHandler executed successfully", "resultLength", len(records))
	slog.Debug("YearCountsHandler results", "results", records)

	return resultutil.NewSuccessResult(output)
}

// SignificantTermsHandler handles fetching the significant keywords of one year.
func SignificantTermsHandler(ctx context.Context, loader elasticsearch.Loader, input SignificantTermsInput) *resultutil.Result {
	slog.Info("SignificantTermsHandler called")
	slog.Debug("SignificantTermsHandler params", "input", input)

	if input.Year == "" {
		return resultutil.NewInvalidInputResult("year parameter is required and must be a string")
	}

	date, err := histogram.ParseYear(input.Year)
	if err != nil {
		return resultutil.NewInvalidInputResult("invalid year: %v", err)
	}

	terms, err := loader.FetchSignificantTerms(ctx, date)
	if err != nil {
		slog.Error("failed to fetch significant terms", "year", date.Year(), "error", err)
		return resultutil.NewErrorResult(fmt.Errorf("failed to fetch significant terms: %w", err))
	}

	slog.Info("SignificantTermsHandler executed successfully", "year", date.Year(), "resultLength", len(terms))
	slog.Debug("SignificantTermsHandler results", "results", terms)

	return resultutil.NewSuccessResult(SignificantTermsOutput{
		Year:  date.Year(),
		Date:  date,
		Terms: terms,
	})
}

// RenderYearChartHandler fetches the year counts and renders them in the requested format.
// Sizes the input leaves unset are taken from def.
func RenderYearChartHandler(ctx context.Context, loader elasticsearch.Loader, input RenderYearChartInput, def chart.Shape) *resultutil.Result {
	slog.Info("RenderYearChartHandler called")
	slog.Debug("RenderYearChartHandler params", "input", input)

	format, err := render.ParseFormat(input.Format)
	if err != nil {
		return resultutil.NewInvalidInputResult("%v", err)
	}
	shape, err := ShapeFor(def, input.Width, input.Height)
	if err != nil {
		return resultutil.NewInvalidInputResult("invalid chart size: %v", err)
	}

	records, err := loader.FetchYearCounts(ctx)
	if err != nil {
		slog.Error("failed to fetch year counts", "error", err)
		return resultutil.NewErrorResult(fmt.Errorf("failed to fetch year counts: %w", err))
	}

	var buf bytes.Buffer
	switch format {
	case render.FormatPNG:
		err = render.PNG(&buf, records, shape)
	case render.FormatHTML:
		err = render.ECharts(&buf, records, shape)
	default:
		err = render.SVG(&buf, records, render.Options{Shape: shape})
	}
	if errors.Is(err, render.ErrTooManyBars) {
		return resultutil.NewInvalidInputResult("%v, request a wider chart", err)
	}
	if err != nil {
		return resultutil.NewErrorResult(fmt.Errorf("failed to render chart: %w", err))
	}

	content := buf.String()
	if format == render.FormatPNG {
		content = base64.StdEncoding.EncodeToString(buf.Bytes())
	}

	slog.Info("RenderYearChartHandler executed successfully", "format", format, "years", len(records))

	return resultutil.NewSuccessResult(RenderYearChartOutput{
		Format:   string(format),
		MIMEType: format.ContentType(),
		Content:  content,
		Years:    len(records),
	})
}
