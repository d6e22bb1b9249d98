package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	promcfg "github.com/prometheus/common/config"
)

// DefaultEndpoint is the search endpoint of the local pubmed article index.
const DefaultEndpoint = "http://localhost:9200/pubmed/article/_search"

var (
	// ErrMalformedResponse is returned when a search response does not have the expected shape.
	ErrMalformedResponse = errors.New("malformed elasticsearch response")

	// ErrUnexpectedHTML is returned when the endpoint answers with an HTML page,
	// typically a login redirect of an authenticating proxy.
	ErrUnexpectedHTML = errors.New("unexpected HTML response, check credentials")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

// ClientConfig holds authentication and TLS settings of the search client.
type ClientConfig struct {
	Username    string
	Password    string
	BearerToken string
	CAFile      string
	Insecure    bool
}

// NewHTTPClient builds an HTTP client carrying the configured credentials.
func NewHTTPClient(cfg ClientConfig) (*http.Client, error) {
	httpCfg := promcfg.DefaultHTTPClientConfig
	httpCfg.TLSConfig = promcfg.TLSConfig{
		CAFile:             cfg.CAFile,
		InsecureSkipVerify: cfg.Insecure,
	}
	if cfg.Username != "" {
		httpCfg.BasicAuth = &promcfg.BasicAuth{
			Username: cfg.Username,
			Password: promcfg.Secret(cfg.Password),
		}
	}
	if cfg.BearerToken != "" {
		httpCfg.Authorization = &promcfg.Authorization{
			Type:        "Bearer",
			Credentials: promcfg.Secret(cfg.BearerToken),
		}
	}
	if err := httpCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}

	client, err := promcfg.NewClientFromConfig(httpCfg, "yearchart")
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return client, nil
}

// Client posts search requests to a single Elasticsearch search endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient returns a client for endpoint. A nil httpClient uses
// http.DefaultClient and an empty endpoint uses DefaultEndpoint.
func NewClient(httpClient *http.Client, endpoint string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
	}
}

// Endpoint returns the search URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Search serializes query as JSON, posts it and returns the raw response body.
// Cancellation and deadlines come from ctx only.
func (c *Client) Search(ctx context.Context, query any) ([]byte, error) {
	payload, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.doRequest(req)
}

func (c *Client) doRequest(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return nil, ErrUnexpectedHTML
	}

	return bodyBytes, nil
}
