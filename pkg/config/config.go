package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/prometheus/common/promslog"

	"github.com/rhobs/yearchart/pkg/chart"
	"github.com/rhobs/yearchart/pkg/elasticsearch"
)

// Config holds yearchart configuration.
// Values are read from a TOML file, then overridden by environment variables,
// then by command line flags.
type Config struct {
	// ListenAddress is the HTTP listen address. Empty selects MCP over stdio.
	ListenAddress string `toml:"listen_address,omitempty" env:"YEARCHART_LISTEN"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log_level,omitempty" env:"YEARCHART_LOG_LEVEL"`

	Elasticsearch ElasticsearchConfig `toml:"elasticsearch" envPrefix:"ELASTICSEARCH_"`
	Chart         ChartConfig         `toml:"chart"`
	Telemetry     TelemetryConfig     `toml:"telemetry"`
}

// ElasticsearchConfig configures the search endpoint and the queries sent to it.
type ElasticsearchConfig struct {
	// URL is the full _search endpoint, index and type included.
	// Example: "http://localhost:9200/pubmed/article/_search"
	URL string `toml:"url,omitempty" env:"URL"`

	Username    string `toml:"username,omitempty" env:"USERNAME"`
	Password    string `toml:"password,omitempty" env:"PASSWORD"`
	BearerToken string `toml:"bearer_token,omitempty" env:"BEARER_TOKEN"`
	CAFile      string `toml:"ca_file,omitempty" env:"CA_FILE"`

	// Insecure controls whether to skip TLS certificate verification.
	Insecure bool `toml:"insecure,omitempty" env:"INSECURE"`

	DateField     string `toml:"date_field,omitempty" env:"DATE_FIELD"`
	KeywordsField string `toml:"keywords_field,omitempty" env:"KEYWORDS_FIELD"`

	// IntervalParam is "interval" before Elasticsearch 7.2 and "calendar_interval" after.
	// "auto" asks the cluster for its version at startup.
	IntervalParam string `toml:"interval_param,omitempty" env:"INTERVAL_PARAM"`

	// QueryTimeout bounds every search. Default: 30s
	QueryTimeout time.Duration `toml:"query_timeout,omitempty" env:"QUERY_TIMEOUT"`
}

// ChartConfig holds the outer size of the rendered chart in pixels.
type ChartConfig struct {
	Width  int `toml:"width,omitempty"`
	Height int `toml:"height,omitempty"`
}

// TelemetryConfig configures trace export.
type TelemetryConfig struct {
	// OTLPEndpoint is an OTLP/HTTP collector URL such as "http://localhost:4318".
	OTLPEndpoint string `toml:"otlp_endpoint,omitempty" env:"YEARCHART_OTEL_ENDPOINT"`
	// Stdout prints spans to standard error when no endpoint is set.
	Stdout bool `toml:"stdout,omitempty"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	def := chart.DefaultShape()
	opts := elasticsearch.DefaultQueryOptions()
	return Config{
		LogLevel: "info",
		Elasticsearch: ElasticsearchConfig{
			URL:           elasticsearch.DefaultEndpoint,
			DateField:     opts.DateField,
			KeywordsField: opts.KeywordsField,
			IntervalParam: opts.IntervalParam,
			QueryTimeout:  elasticsearch.DefaultQueryTimeout,
		},
		Chart: ChartConfig{
			Width:  int(def.OuterWidth()),
			Height: int(def.OuterHeight()),
		},
	}
}

// Load reads path (when not empty) over the defaults and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return Config{}, fmt.Errorf("unknown configuration keys: %s", strings.Join(keys, ", "))
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	var errs []error

	if err := promslog.NewLevel().Set(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level: %w", err))
	}
	if err := c.Elasticsearch.validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Chart.Shape().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("invalid chart size %dx%d: %w", c.Chart.Width, c.Chart.Height, err))
	}

	return errors.Join(errs...)
}

func (c ElasticsearchConfig) validate() error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid elasticsearch url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("invalid elasticsearch url %q: expected an absolute http or https URL", c.URL)
	}
	if !slices.Contains([]string{elasticsearch.IntervalLegacy, elasticsearch.IntervalCalendar, elasticsearch.IntervalAuto}, c.IntervalParam) {
		return fmt.Errorf("invalid interval_param %q: expected %q, %q or %q", c.IntervalParam,
			elasticsearch.IntervalLegacy, elasticsearch.IntervalCalendar, elasticsearch.IntervalAuto)
	}
	if c.Username != "" && c.BearerToken != "" {
		return errors.New("elasticsearch username and bearer token are mutually exclusive")
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("invalid query_timeout %s: must be positive", c.QueryTimeout)
	}
	return nil
}

// ClientConfig returns the HTTP client settings.
func (c ElasticsearchConfig) ClientConfig() elasticsearch.ClientConfig {
	return elasticsearch.ClientConfig{
		Username:    c.Username,
		Password:    c.Password,
		BearerToken: c.BearerToken,
		CAFile:      c.CAFile,
		Insecure:    c.Insecure,
	}
}

// QueryOptions returns the fields and interval parameter the queries use.
func (c ElasticsearchConfig) QueryOptions() elasticsearch.QueryOptions {
	return elasticsearch.QueryOptions{
		DateField:     c.DateField,
		KeywordsField: c.KeywordsField,
		IntervalParam: c.IntervalParam,
	}
}

// Shape converts the outer size to a chart shape with the default margins.
func (c ChartConfig) Shape() chart.Shape {
	return chart.ShapeForOuterSize(float64(c.Width), float64(c.Height), chart.DefaultMargin())
}
