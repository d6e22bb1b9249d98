package elasticsearch

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yearchart_elasticsearch_requests_total",
		Help: "Search requests sent to Elasticsearch, by query and outcome.",
	}, []string{"query", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yearchart_elasticsearch_request_duration_seconds",
		Help:    "Duration of Elasticsearch search requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})
)

func outcome(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &statusErr):
		return "status_error"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	default:
		return "transport_error"
	}
}

func observe(query string, start time.Time, err error) {
	requestDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(query, outcome(err)).Inc()
}
