package server

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rhobs/yearchart/pkg/chart"
	"github.com/rhobs/yearchart/pkg/elasticsearch"
	"github.com/rhobs/yearchart/pkg/histogram"
	"github.com/rhobs/yearchart/pkg/render"
	"github.com/rhobs/yearchart/pkg/resultutil"
	"github.com/rhobs/yearchart/pkg/tools"
)

//go:embed ui/*.html
var pages embed.FS

//go:embed ui/styles.css
var styles string

var templates = template.Must(template.ParseFS(pages, "ui/*.html"))

type handlers struct {
	loader elasticsearch.Loader
	shape  chart.Shape
}

type pageData struct {
	Styles template.CSS
	Chart  template.HTML
	Error  string
}

type termsData struct {
	Styles template.CSS
	Year   int
	Terms  []histogram.Term
	Error  string
}

// TermsURL is the click-through target of the bar of r.
func TermsURL(r histogram.Record) string {
	return "/terms?" + url.Values{"year": {strconv.Itoa(r.Year())}}.Encode()
}

func (h *handlers) page(w http.ResponseWriter, r *http.Request) {
	data := pageData{Styles: template.CSS(styles)}
	status := http.StatusOK

	svg, err := h.svg(r, h.shape)
	if err != nil {
		slog.Error("failed to render page", "error", err)
		data.Error = err.Error()
		status = http.StatusBadGateway
	} else {
		data.Chart = template.HTML(svg)
	}

	writeTemplate(w, status, "index.html", data)
}

func (h *handlers) terms(w http.ResponseWriter, r *http.Request) {
	data := termsData{Styles: template.CSS(styles)}

	result := tools.SignificantTermsHandler(r.Context(), h.loader, tools.BuildSignificantTermsInput(r.URL.Query()))
	if result.IsError() {
		data.Error = result.Error.Error()
	} else {
		output := result.Data.(tools.SignificantTermsOutput)
		data.Year = output.Year
		data.Terms = output.Terms
	}

	writeTemplate(w, result.StatusCode(), "terms.html", data)
}

func (h *handlers) chartSVG(w http.ResponseWriter, r *http.Request) {
	shape, ok := h.requestShape(w, r)
	if !ok {
		return
	}
	svg, err := h.svg(r, shape)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeBody(w, render.FormatSVG.ContentType(), []byte(svg))
}

func (h *handlers) chartPNG(w http.ResponseWriter, r *http.Request) {
	shape, ok := h.requestShape(w, r)
	if !ok {
		return
	}
	records, err := h.loader.FetchYearCounts(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Errorf("failed to fetch year counts: %w", err))
		return
	}

	var buf bytes.Buffer
	if err := render.PNG(&buf, records, shape); err != nil {
		switch {
		case errors.Is(err, render.ErrNoData):
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, render.ErrTooManyBars):
			writeError(w, http.StatusUnprocessableEntity, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeBody(w, render.FormatPNG.ContentType(), buf.Bytes())
}

func (h *handlers) chartHTML(w http.ResponseWriter, r *http.Request) {
	shape, ok := h.requestShape(w, r)
	if !ok {
		return
	}
	records, err := h.loader.FetchYearCounts(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Errorf("failed to fetch year counts: %w", err))
		return
	}

	var buf bytes.Buffer
	if err := render.ECharts(&buf, records, shape); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeBody(w, render.FormatHTML.ContentType(), buf.Bytes())
}

func (h *handlers) apiYearCounts(w http.ResponseWriter, r *http.Request) {
	tools.YearCountsHandler(r.Context(), h.loader).WriteHTTP(w)
}

func (h *handlers) apiSignificantTerms(w http.ResponseWriter, r *http.Request) {
	tools.SignificantTermsHandler(r.Context(), h.loader, tools.BuildSignificantTermsInput(r.URL.Query())).WriteHTTP(w)
}

// svg fetches the year counts and draws them with clickable bars.
func (h *handlers) svg(r *http.Request, shape chart.Shape) (string, error) {
	records, err := h.loader.FetchYearCounts(r.Context())
	if err != nil {
		return "", fmt.Errorf("failed to fetch year counts: %w", err)
	}

	var buf bytes.Buffer
	if err := render.SVG(&buf, records, render.Options{Shape: shape, Link: TermsURL}); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.String(), nil
}

// requestShape resolves the width and height query parameters, writing a 400 response when they are invalid.
func (h *handlers) requestShape(w http.ResponseWriter, r *http.Request) (chart.Shape, bool) {
	input, err := tools.BuildRenderYearChartInput(r.URL.Query())
	if err != nil {
		resultutil.NewInvalidInputResult("%v", err).WriteHTTP(w)
		return chart.Shape{}, false
	}
	if input.Width == 0 && input.Height == 0 {
		return h.shape, true
	}

	shape, err := tools.ShapeFor(h.shape, input.Width, input.Height)
	if err != nil {
		resultutil.NewInvalidInputResult("invalid chart size: %v", err).WriteHTTP(w)
		return chart.Shape{}, false
	}
	return shape, true
}

func writeTemplate(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("failed to execute template", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeBody(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	slog.Error("request failed", "status", status, "error", err)
	http.Error(w, err.Error(), status)
}
