package histogram

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseYear resolves a year parameter to the start of that UTC calendar year.
// It accepts a bare year ("2020"), an RFC3339 timestamp, a date ("2020-05-01"),
// Unix milliseconds as returned by date histogram keys, or NOW.
func ParseYear(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	if strings.EqualFold(value, "NOW") {
		return YearStart(time.Now().UTC().Year()), nil
	}

	if len(value) <= 4 {
		if year, err := strconv.Atoi(value); err == nil {
			if year <= 0 {
				return time.Time{}, fmt.Errorf("year %d is out of range", year)
			}
			return YearStart(year), nil
		}
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return YearStart(t.UTC().Year()), nil
	}

	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return YearStart(t.Year()), nil
	}

	if millis, err := strconv.ParseInt(value, 10, 64); err == nil {
		return YearStart(time.UnixMilli(millis).UTC().Year()), nil
	}

	return time.Time{}, fmt.Errorf("year must be a four-digit year, RFC3339 timestamp, date, Unix milliseconds, or NOW")
}
