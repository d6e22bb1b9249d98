package elasticsearch

import "strconv"

const (
	// YearAggregation is the name of the date histogram aggregation.
	YearAggregation = "by_year"
	// KeywordsAggregation is the name of the significant terms aggregation.
	KeywordsAggregation = "significantKeywords"

	// IntervalLegacy is the pre-7.x date_histogram parameter.
	IntervalLegacy = "interval"
	// IntervalCalendar replaces IntervalLegacy on Elasticsearch 7 and later.
	IntervalCalendar = "calendar_interval"
)

// QueryOptions names the index fields the queries aggregate on.
type QueryOptions struct {
	DateField     string
	KeywordsField string
	// IntervalParam is either IntervalLegacy or IntervalCalendar.
	IntervalParam string
}

// DefaultQueryOptions matches the pubmed article mapping.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		DateField:     "date",
		KeywordsField: "keywords",
		IntervalParam: IntervalLegacy,
	}
}

func (o QueryOptions) withDefaults() QueryOptions {
	d := DefaultQueryOptions()
	if o.DateField == "" {
		o.DateField = d.DateField
	}
	if o.KeywordsField == "" {
		o.KeywordsField = d.KeywordsField
	}
	if o.IntervalParam == "" {
		o.IntervalParam = d.IntervalParam
	}
	return o
}

// SearchRequest is the body of a _search call.
type SearchRequest struct {
	Size         *int                   `json:"size,omitempty"`
	Query        *Query                 `json:"query,omitempty"`
	Aggregations map[string]Aggregation `json:"aggregations"`
}

// Query is the subset of the query DSL used here.
type Query struct {
	Range map[string]RangeBounds `json:"range,omitempty"`
}

// RangeBounds is an inclusive range on a single field.
type RangeBounds struct {
	GTE    string `json:"gte"`
	LTE    string `json:"lte"`
	Format string `json:"format,omitempty"`
}

// Aggregation holds exactly one aggregation kind.
type Aggregation struct {
	DateHistogram    *DateHistogram    `json:"date_histogram,omitempty"`
	SignificantTerms *SignificantTerms `json:"significant_terms,omitempty"`
}

// DateHistogram buckets documents by a calendar interval.
type DateHistogram struct {
	Field            string `json:"field"`
	Interval         string `json:"interval,omitempty"`
	CalendarInterval string `json:"calendar_interval,omitempty"`
}

// SignificantTerms surfaces terms over-represented in the query's result set.
type SignificantTerms struct {
	Field string `json:"field"`
}

// YearHistogramQuery counts documents per year without returning any hits.
func YearHistogramQuery(opts QueryOptions) SearchRequest {
	opts = opts.withDefaults()
	size := 0

	histogram := &DateHistogram{Field: opts.DateField}
	if opts.IntervalParam == IntervalCalendar {
		histogram.CalendarInterval = "year"
	} else {
		histogram.Interval = "year"
	}

	return SearchRequest{
		Size: &size,
		Aggregations: map[string]Aggregation{
			YearAggregation: {DateHistogram: histogram},
		},
	}
}

// SignificantTermsQuery restricts the search to one calendar year and asks for
// its significant keywords.
func SignificantTermsQuery(opts QueryOptions, year int) SearchRequest {
	opts = opts.withDefaults()
	return SearchRequest{
		Query: &Query{
			Range: map[string]RangeBounds{
				opts.DateField: {
					GTE:    strconv.Itoa(year),
					LTE:    strconv.Itoa(year + 1),
					Format: "yyyy",
				},
			},
		},
		Aggregations: map[string]Aggregation{
			KeywordsAggregation: {SignificantTerms: &SignificantTerms{Field: opts.KeywordsField}},
		},
	}
}
