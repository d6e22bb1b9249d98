//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultBaseURL = "http://localhost:9100"
	defaultTimeout = 30 * time.Second
)

// TestConfig holds configuration and runtime state for e2e tests
type TestConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewTestConfig creates a new TestConfig with defaults or env overrides.
// YEARCHART_URL points the suite at a running yearchart or test-chart.
func NewTestConfig() *TestConfig {
	baseURL := os.Getenv("YEARCHART_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	config := &TestConfig{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Timeout: defaultTimeout,
	}
	fmt.Printf("Test config: url=%s, timeout=%v\n", config.BaseURL, config.Timeout)
	return config
}

// Setup waits for the service to report healthy.
func (c *TestConfig) Setup(ctx context.Context) error {
	return c.waitForReady(ctx, c.BaseURL+"/health")
}

// waitForReady polls the target URL until it returns HTTP 200, timeout occurs, or context is cancelled
func (c *TestConfig) waitForReady(ctx context.Context, targetURL string) error {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	fmt.Printf("Waiting for %s to be ready (timeout: %v)\n", targetURL, c.Timeout)
	attempt := 0
	var lastErr error
	for {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.Canceled {
				return fmt.Errorf("cancelled waiting for %s", targetURL)
			}
			return fmt.Errorf("timeout waiting for %s to be ready (last error: %v)", targetURL, lastErr)
		case <-ticker.C:
			attempt++
			resp, err := http.Get(targetURL)
			if err != nil {
				lastErr = err
				continue
			}
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				fmt.Printf("Health check succeeded after %d attempts\n", attempt)
				return nil
			}
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
	}
}
