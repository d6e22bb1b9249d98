package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhobs/yearchart/pkg/chart"
	"github.com/rhobs/yearchart/pkg/elasticsearch"
)

const (
	mcpEndpoint            = "/mcp"
	healthEndpoint         = "/health"
	metricsEndpoint        = "/metrics"
	defaultShutdownTimeout = 10 * time.Second
)

var httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "yearchart_http_requests_total",
	Help: "HTTP requests served, by handler and status code.",
}, []string{"handler", "code"})

// Options contains configuration options for the HTTP service
type Options struct {
	Loader elasticsearch.Loader
	// Shape is the chart shape used when a request does not set width or height.
	Shape chart.Shape
	// MCPHandler is mounted on /mcp when set.
	MCPHandler http.Handler
}

// NewHandler builds the routes of the service.
func NewHandler(opts Options) http.Handler {
	if opts.Shape == (chart.Shape{}) {
		opts.Shape = chart.DefaultShape()
	}
	h := &handlers{loader: opts.Loader, shape: opts.Shape}

	mux := http.NewServeMux()
	route := func(pattern, name string, handler http.HandlerFunc) {
		mux.Handle(pattern, promhttp.InstrumentHandlerCounter(
			httpRequestsTotal.MustCurryWith(prometheus.Labels{"handler": name}),
			handler,
		))
	}

	route("GET /{$}", "page", h.page)
	route("GET /terms", "terms", h.terms)
	route("GET /chart.svg", "chart_svg", h.chartSVG)
	route("GET /chart.png", "chart_png", h.chartPNG)
	route("GET /chart.html", "chart_html", h.chartHTML)
	route("GET /api/year-counts", "api_year_counts", h.apiYearCounts)
	route("GET /api/significant-terms", "api_significant_terms", h.apiSignificantTerms)

	mux.Handle("GET "+metricsEndpoint, promhttp.Handler())
	mux.HandleFunc("GET "+healthEndpoint, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if opts.MCPHandler != nil {
		mux.Handle(mcpEndpoint, opts.MCPHandler)
	}

	return loggingMiddleware(mux)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Incoming request", "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr)
		slog.Debug("Request headers", "headers", r.Header)
		if r.ContentLength > 0 {
			slog.Info("Request content length", "content_length", r.ContentLength)
		}
		next.ServeHTTP(w, r)
	})
}

// Serve runs handler on listenAddr until ctx is done or a termination signal
// arrives, then shuts down gracefully.
func Serve(ctx context.Context, handler http.Handler, listenAddr string) error {
	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGHUP, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "listen_addr", listenAddr, "mcp_endpoint", mcpEndpoint)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-sigChan:
		slog.Warn("Received signal, initiating graceful shutdown", "signal", sig)
		cancel()
	case <-ctx.Done():
		slog.Warn("Context cancelled, initiating graceful shutdown")
	case err := <-serverErr:
		slog.Error("HTTP server error", "error", err)
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer shutdownCancel()

	slog.Info("Shutting down HTTP server gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
		return err
	}

	slog.Info("HTTP server shutdown complete")
	return nil
}
