package elasticsearch

import (
	"context"
	"time"

	"github.com/rhobs/yearchart/pkg/histogram"
)

// FixtureLoader serves fixed data without an Elasticsearch server.
type FixtureLoader struct {
	Records []histogram.Record
	// Terms is keyed by calendar year.
	Terms map[int][]histogram.Term
}

var _ Loader = (*FixtureLoader)(nil)

func (f *FixtureLoader) FetchYearCounts(ctx context.Context) ([]histogram.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]histogram.Record(nil), f.Records...), nil
}

func (f *FixtureLoader) FetchSignificantTerms(ctx context.Context, date time.Time) ([]histogram.Term, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]histogram.Term{}, f.Terms[date.UTC().Year()]...), nil
}

// SampleFixture returns a small, stable data set covering 2010-2020.
func SampleFixture() *FixtureLoader {
	counts := []int64{12, 18, 25, 31, 29, 44, 52, 61, 58, 73, 90}
	records := make([]histogram.Record, 0, len(counts))
	for i, c := range counts {
		records = append(records, histogram.Record{Date: histogram.YearStart(2010 + i), Count: c})
	}

	return &FixtureLoader{
		Records: records,
		Terms: map[int][]histogram.Term{
			2019: {{Key: "crispr", Count: 21}, {Key: "microbiome", Count: 17}},
			2020: {{Key: "sars-cov-2", Count: 48}, {Key: "covid-19", Count: 45}, {Key: "pandemic", Count: 22}},
		},
	}
}
