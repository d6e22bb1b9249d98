package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/blang/semver/v4"
)

// IntervalAuto asks for the interval parameter to be picked from the cluster version.
const IntervalAuto = "auto"

// calendarIntervalSince is the first release accepting calendar_interval.
var calendarIntervalSince = semver.MustParse("7.2.0")

// Version asks the cluster root for its version number.
func (c *Client) Version(ctx context.Context) (semver.Version, error) {
	root, err := url.Parse(c.endpoint)
	if err != nil {
		return semver.Version{}, fmt.Errorf("invalid endpoint: %w", err)
	}
	root.Path, root.RawQuery = "/", ""

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, root.String(), nil)
	if err != nil {
		return semver.Version{}, err
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.doRequest(req)
	if err != nil {
		return semver.Version{}, err
	}

	var info struct {
		Version struct {
			Number string `json:"number"`
		} `json:"version"`
	}
	if err := json.Unmarshal(body, &info); err != nil || info.Version.Number == "" {
		return semver.Version{}, fmt.Errorf("%w: no version number in cluster info", ErrMalformedResponse)
	}

	v, err := semver.ParseTolerant(info.Version.Number)
	if err != nil {
		return semver.Version{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return v, nil
}

// IntervalParamFor returns the date_histogram interval parameter accepted by version v.
func IntervalParamFor(v semver.Version) string {
	if v.GTE(calendarIntervalSince) {
		return IntervalCalendar
	}
	return IntervalLegacy
}

// DetectIntervalParam resolves IntervalAuto against the cluster.
func DetectIntervalParam(ctx context.Context, c *Client) (string, error) {
	v, err := c.Version(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to detect elasticsearch version: %w", err)
	}
	return IntervalParamFor(v), nil
}
