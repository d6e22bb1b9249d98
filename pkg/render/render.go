package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/rhobs/yearchart/pkg/chart"
	"github.com/rhobs/yearchart/pkg/histogram"
)

// SurfaceID is the id of the svg element the chart is drawn into.
const SurfaceID = "yearHisto"

// ErrNoData is returned by the raster renderer, which cannot draw an empty bar chart.
var ErrNoData = errors.New("no records to render")

// ErrTooManyBars is returned by the raster renderer when the plot is too narrow
// to give every bar and its gap a whole pixel.
var ErrTooManyBars = errors.New("too many bars for the plot width")

// minBarStep is the narrowest band the raster renderer draws: one pixel of bar
// and one of spacing.
const minBarStep = 2

// Format names an output format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatHTML Format = "html"
)

// ParseFormat accepts an empty string as FormatSVG.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatSVG:
		return FormatSVG, nil
	case FormatPNG, FormatHTML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q, expected svg, png or html", s)
	}
}

// ContentType returns the MIME type of the rendered output.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "image/svg+xml"
	}
}

// Options configure a single render.
type Options struct {
	Shape chart.Shape
	// Link, when set, wraps every bar in a hyperlink to the returned URL.
	Link func(histogram.Record) string
}

// SVGDocument draws records into a fresh svg document.
func SVGDocument(records []histogram.Record, o Options) (*chart.Document, *chart.Rendered, error) {
	c, err := chart.NewYearBarChart(o.Shape)
	if err != nil {
		return nil, nil, err
	}

	doc := chart.NewSVGDocument(SurfaceID)
	rendered, err := c.Draw(doc, "#"+SurfaceID, records)
	if err != nil {
		return nil, nil, err
	}
	if o.Link != nil {
		rendered.Bars().Link(o.Link)
	}
	return doc, rendered, nil
}

// SVG writes the chart as a standalone svg document.
func SVG(w io.Writer, records []histogram.Record, o Options) error {
	doc, _, err := SVGDocument(records, o)
	if err != nil {
		return err
	}
	return doc.Render(w)
}

// PNG rasterizes the chart. The Y axis uses the same [0, max+1] domain as the svg chart.
func PNG(w io.Writer, records []histogram.Record, shape chart.Shape) error {
	if err := shape.Validate(); err != nil {
		return err
	}
	if err := histogram.ValidateRecords(records); err != nil {
		return err
	}
	if len(records) == 0 {
		return ErrNoData
	}

	step := shape.Width / float64(len(records))
	if step < minBarStep {
		return fmt.Errorf("%w: %d bars need a plot at least %d pixels wide, got %v",
			ErrTooManyBars, len(records), minBarStep*len(records), shape.Width)
	}
	bars := make([]gochart.Value, 0, len(records))
	for _, r := range records {
		bars = append(bars, gochart.Value{
			Value: float64(r.Count),
			Label: strconv.Itoa(r.Year()),
		})
	}

	bc := gochart.BarChart{
		Width:  int(shape.OuterWidth()),
		Height: int(shape.OuterHeight()),
		Background: gochart.Style{
			Padding: gochart.Box{
				Top:    int(shape.Margin.Top),
				Right:  int(shape.Margin.Right),
				Bottom: int(shape.Margin.Bottom),
				Left:   int(shape.Margin.Left),
			},
		},
		BarWidth:   max(1, int(step*(1-chart.BandPadding))),
		BarSpacing: max(1, int(step*chart.BandPadding)),
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{
				Min: 0,
				Max: float64(histogram.MaxCount(records) + 1),
			},
		},
		Bars: bars,
	}
	if err := bc.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("failed to render png: %w", err)
	}
	return nil
}

// ECharts writes an interactive HTML page drawing the chart with ECharts.
func ECharts(w io.Writer, records []histogram.Record, shape chart.Shape) error {
	if err := shape.Validate(); err != nil {
		return err
	}
	if err := histogram.ValidateRecords(records); err != nil {
		return err
	}

	years := make([]string, 0, len(records))
	data := make([]opts.BarData, 0, len(records))
	for _, r := range records {
		years = append(years, strconv.Itoa(r.Year()))
		data = append(data, opts.BarData{Name: strconv.Itoa(r.Year()), Value: r.Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Documents per year",
			ChartID:   SurfaceID,
			Width:     fmt.Sprintf("%dpx", int(shape.OuterWidth())),
			Height:    fmt.Sprintf("%dpx", int(shape.OuterHeight())),
		}),
		charts.WithTitleOpts(opts.Title{Title: "Documents per year"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: histogram.MaxCount(records) + 1}),
	)
	bar.SetXAxis(years).AddSeries("documents", data)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render echarts page: %w", err)
	}
	return nil
}
