package elasticsearch

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

func minimum(v float64) *float64 {
	return &v
}

func bucketsSchema(aggregation string, bucket *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:     "object",
		Required: []string{"aggregations"},
		Properties: map[string]*jsonschema.Schema{
			"aggregations": {
				Type:     "object",
				Required: []string{aggregation},
				Properties: map[string]*jsonschema.Schema{
					aggregation: {
						Type:     "object",
						Required: []string{"buckets"},
						Properties: map[string]*jsonschema.Schema{
							"buckets": {
								Type:  "array",
								Items: bucket,
							},
						},
					},
				},
			},
		},
	}
}

var (
	yearCountsSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
		return bucketsSchema(YearAggregation, &jsonschema.Schema{
			Type:     "object",
			Required: []string{"key", "doc_count"},
			Properties: map[string]*jsonschema.Schema{
				"key":       {Type: "integer"},
				"doc_count": {Type: "integer", Minimum: minimum(0)},
			},
		}).Resolve(&jsonschema.ResolveOptions{})
	})

	significantTermsSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
		return bucketsSchema(KeywordsAggregation, &jsonschema.Schema{
			Type:     "object",
			Required: []string{"key", "doc_count"},
			Properties: map[string]*jsonschema.Schema{
				"key":       {Type: "string"},
				"doc_count": {Type: "integer", Minimum: minimum(0)},
			},
		}).Resolve(&jsonschema.ResolveOptions{})
	})
)

// decodeValidated checks body against the resolved schema before decoding it into out.
func decodeValidated(body []byte, schema func() (*jsonschema.Resolved, error), out any) error {
	resolved, err := schema()
	if err != nil {
		return fmt.Errorf("failed to resolve response schema: %w", err)
	}

	var instance any
	if err := json.Unmarshal(body, &instance); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
