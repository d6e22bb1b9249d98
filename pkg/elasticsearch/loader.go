package elasticsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rhobs/yearchart/pkg/histogram"
)

const (
	// DefaultQueryTimeout bounds a single search when the caller sets no deadline.
	DefaultQueryTimeout = 30 * time.Second

	queryYearCounts       = "year_counts"
	querySignificantTerms = "significant_terms"
)

var tracer = otel.Tracer("github.com/rhobs/yearchart/pkg/elasticsearch")

// Loader fetches the chart data.
type Loader interface {
	FetchYearCounts(ctx context.Context) ([]histogram.Record, error)
	FetchSignificantTerms(ctx context.Context, date time.Time) ([]histogram.Term, error)
}

// RealLoader queries a live Elasticsearch endpoint.
type RealLoader struct {
	client  *Client
	options QueryOptions
	timeout time.Duration
}

var _ Loader = (*RealLoader)(nil)

// NewLoader returns a loader sending queries built from opts through client.
func NewLoader(client *Client, opts QueryOptions) *RealLoader {
	return &RealLoader{
		client:  client,
		options: opts.withDefaults(),
		timeout: DefaultQueryTimeout,
	}
}

// WithTimeout sets the deadline applied to searches whose context has none.
// Non-positive values are ignored.
func (l *RealLoader) WithTimeout(d time.Duration) *RealLoader {
	if d > 0 {
		l.timeout = d
	}
	return l
}

type yearCountsResponse struct {
	Aggregations struct {
		ByYear struct {
			Buckets []struct {
				Key      int64 `json:"key"`
				DocCount int64 `json:"doc_count"`
			} `json:"buckets"`
		} `json:"by_year"`
	} `json:"aggregations"`
}

type significantTermsResponse struct {
	Aggregations struct {
		SignificantKeywords struct {
			Buckets []struct {
				Key      string `json:"key"`
				DocCount int64  `json:"doc_count"`
			} `json:"buckets"`
		} `json:"significantKeywords"`
	} `json:"aggregations"`
}

// FetchYearCounts returns one record per yearly bucket, in bucket order.
func (l *RealLoader) FetchYearCounts(ctx context.Context) ([]histogram.Record, error) {
	var resp yearCountsResponse
	err := l.fetch(ctx, queryYearCounts, YearHistogramQuery(l.options), yearCountsSchema, &resp, func() error {
		for i, b := range resp.Aggregations.ByYear.Buckets {
			if !histogram.IsYearBoundary(time.UnixMilli(b.Key).UTC()) {
				return fmt.Errorf("%w: bucket %d key %d is not a year start", ErrMalformedResponse, i, b.Key)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	records := make([]histogram.Record, 0, len(resp.Aggregations.ByYear.Buckets))
	for _, b := range resp.Aggregations.ByYear.Buckets {
		records = append(records, histogram.Record{
			Date:  time.UnixMilli(b.Key).UTC(),
			Count: b.DocCount,
		})
	}
	return records, nil
}

// FetchSignificantTerms returns the significant keywords of the calendar year containing date.
func (l *RealLoader) FetchSignificantTerms(ctx context.Context, date time.Time) ([]histogram.Term, error) {
	year := date.UTC().Year()

	var resp significantTermsResponse
	if err := l.fetch(ctx, querySignificantTerms, SignificantTermsQuery(l.options, year), significantTermsSchema, &resp, nil); err != nil {
		return nil, err
	}

	terms := make([]histogram.Term, 0, len(resp.Aggregations.SignificantKeywords.Buckets))
	for _, b := range resp.Aggregations.SignificantKeywords.Buckets {
		terms = append(terms, histogram.Term{Key: b.Key, Count: b.DocCount})
	}
	return terms, nil
}

func (l *RealLoader) fetch(ctx context.Context, name string, query SearchRequest, schema func() (*jsonschema.Resolved, error), out any, check func() error) (err error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	ctx, span := tracer.Start(ctx, "elasticsearch.search",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("elasticsearch.query", name),
			attribute.String("url.full", l.client.Endpoint()),
		),
	)
	start := time.Now()
	defer func() {
		observe(name, start, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body, err := l.client.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("%s query failed: %w", name, err)
	}
	if err := decodeValidated(body, schema, out); err != nil {
		return fmt.Errorf("%s query failed: %w", name, err)
	}
	if check != nil {
		if err := check(); err != nil {
			return fmt.Errorf("%s query failed: %w", name, err)
		}
	}
	return nil
}
