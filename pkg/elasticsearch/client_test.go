package elasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSearch(t *testing.T) {
	var gotMethod, gotContentType string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"took":1}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL)
	body, err := client.Search(context.Background(), YearHistogramQuery(DefaultQueryOptions()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(body) != `{"took":1}` {
		t.Errorf("unexpected body %q", body)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("expected POST, got %s", gotMethod)
	}
	if gotContentType != "application/json" {
		t.Errorf("expected JSON content type, got %q", gotContentType)
	}
	if _, ok := gotBody["aggregations"]; !ok {
		t.Errorf("expected aggregations in request body, got %v", gotBody)
	}
}

func TestClientSearchErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		check       func(t *testing.T, err error)
	}{
		{
			name:        "server error",
			status:      http.StatusInternalServerError,
			contentType: "application/json",
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				if !errors.As(err, &statusErr) {
					t.Fatalf("expected StatusError, got %v", err)
				}
				if statusErr.StatusCode != http.StatusInternalServerError {
					t.Errorf("expected status 500, got %d", statusErr.StatusCode)
				}
				if statusErr.Body != "boom" {
					t.Errorf("expected body to be kept, got %q", statusErr.Body)
				}
			},
		},
		{
			name:        "not found",
			status:      http.StatusNotFound,
			contentType: "application/json",
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
					t.Errorf("expected 404 StatusError, got %v", err)
				}
			},
		},
		{
			name:        "login page",
			status:      http.StatusOK,
			contentType: "text/html; charset=utf-8",
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrUnexpectedHTML) {
					t.Errorf("expected ErrUnexpectedHTML, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("boom"))
			}))
			defer srv.Close()

			_, err := NewClient(srv.Client(), srv.URL).Search(context.Background(), SearchRequest{})
			if err == nil {
				t.Fatal("expected an error")
			}
			tt.check(t, err)
		})
	}
}

func TestClientSearchCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.Client(), srv.URL).Search(ctx, SearchRequest{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(nil, "")
	if c.Endpoint() != DefaultEndpoint {
		t.Errorf("expected default endpoint, got %s", c.Endpoint())
	}
	if c.httpClient != http.DefaultClient {
		t.Error("expected http.DefaultClient")
	}
}

func TestNewHTTPClient(t *testing.T) {
	t.Run("basic auth", func(t *testing.T) {
		var user, pass string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, _ = r.BasicAuth()
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		httpClient, err := NewHTTPClient(ClientConfig{Username: "elastic", Password: "changeme"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := NewClient(httpClient, srv.URL).Search(context.Background(), SearchRequest{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user != "elastic" || pass != "changeme" {
			t.Errorf("expected basic auth credentials, got %q/%q", user, pass)
		}
	})

	t.Run("bearer token", func(t *testing.T) {
		var auth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		httpClient, err := NewHTTPClient(ClientConfig{BearerToken: "secret"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := NewClient(httpClient, srv.URL).Search(context.Background(), SearchRequest{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if auth != "Bearer secret" {
			t.Errorf("expected bearer authorization, got %q", auth)
		}
	})

	t.Run("conflicting credentials", func(t *testing.T) {
		_, err := NewHTTPClient(ClientConfig{Username: "elastic", Password: "x", BearerToken: "secret"})
		if err == nil {
			t.Error("expected basic auth and bearer token to be rejected together")
		}
	})
}
