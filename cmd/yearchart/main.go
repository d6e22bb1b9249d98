package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/prometheus/common/promslog"

	"github.com/rhobs/yearchart/pkg/config"
	"github.com/rhobs/yearchart/pkg/elasticsearch"
	"github.com/rhobs/yearchart/pkg/mcp"
	"github.com/rhobs/yearchart/pkg/server"
	"github.com/rhobs/yearchart/pkg/telemetry"
)

var version = "dev"

func main() {
	// Parse command line flags
	var configFile = flag.String("config", "", "Path to a TOML configuration file")
	var listen = flag.String("listen", "", "Listen address for HTTP mode (e.g., :9100, 127.0.0.1:8080). Empty runs MCP over stdio")
	var esURL = flag.String("es-url", "", "Elasticsearch _search endpoint, index and type included")
	var insecure = flag.Bool("insecure", false, "Skip TLS certificate verification")
	var logLevel = flag.String("log-level", "", "Log level: debug, info, warn, error")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags win over the file and the environment, but only when given.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen":
			cfg.ListenAddress = *listen
		case "es-url":
			cfg.Elasticsearch.URL = *esURL
		case "insecure":
			cfg.Elasticsearch.Insecure = *insecure
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Configure slog with specified log level
	configureLogging(cfg.LogLevel)

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName:    "yearchart",
		ServiceVersion: version,
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		Stdout:         cfg.Telemetry.Stdout,
	})
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Error("Failed to flush traces", "error", err)
		}
	}()

	httpClient, err := elasticsearch.NewHTTPClient(cfg.Elasticsearch.ClientConfig())
	if err != nil {
		log.Fatalf("Failed to create HTTP client: %v", err)
	}
	client := elasticsearch.NewClient(httpClient, cfg.Elasticsearch.URL)

	queryOptions := cfg.Elasticsearch.QueryOptions()
	if queryOptions.IntervalParam == elasticsearch.IntervalAuto {
		detectCtx, cancel := context.WithTimeout(ctx, cfg.Elasticsearch.QueryTimeout)
		param, err := elasticsearch.DetectIntervalParam(detectCtx, client)
		cancel()
		if err != nil {
			slog.Warn("Falling back to the legacy interval parameter", "error", err)
			param = elasticsearch.IntervalLegacy
		}
		slog.Info("Selected date histogram interval parameter", "param", param)
		queryOptions.IntervalParam = param
	}

	loader := elasticsearch.NewLoader(client, queryOptions).
		WithTimeout(cfg.Elasticsearch.QueryTimeout)

	mcpServer := mcp.NewMCPServer(mcp.Options{
		Loader: loader,
		Shape:  cfg.Chart.Shape(),
	})

	slog.Info("Starting server", "ElasticsearchURL", client.Endpoint(), "Version", version)

	// Choose server mode based on flags
	if cfg.ListenAddress != "" {
		// HTTP mode
		handler := server.NewHandler(server.Options{
			Loader:     loader,
			Shape:      cfg.Chart.Shape(),
			MCPHandler: mcp.NewHTTPHandler(mcpServer),
		})
		if err := server.Serve(ctx, handler, cfg.ListenAddress); err != nil {
			slog.Error("HTTP server failed", "error", err)
		}
		return
	}

	// Start server on stdio (default mode)
	if err := mcp.ServeStdio(ctx, mcpServer); err != nil {
		slog.Error("Server failed", "error", err)
	}
}

// configureLogging sets up the slog logger with the specified log level
func configureLogging(levelStr string) {
	level := promslog.NewLevel()
	err := level.Set(levelStr)
	if err != nil {
		log.Fatal(err.Error())
	}

	format := promslog.NewFormat()
	err = format.Set("logfmt")
	if err != nil {
		log.Fatal(err.Error())
	}

	logger := promslog.New(&promslog.Config{
		Level:  level,
		Format: format,
		Style:  promslog.GoKitStyle,
	})
	slog.SetDefault(logger)
}
