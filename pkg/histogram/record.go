package histogram

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRecord is returned when a record cannot be placed on a year chart.
var ErrInvalidRecord = errors.New("invalid record")

// Record is the document count of a single calendar year.
type Record struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
}

// Term is a significant-terms bucket.
type Term struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Year returns the calendar year the record counts.
func (r Record) Year() int {
	return r.Date.UTC().Year()
}

// YearStart returns midnight UTC of January 1st of the given year.
func YearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// IsYearBoundary reports whether t falls exactly on the start of a UTC calendar year.
func IsYearBoundary(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return t.Equal(YearStart(t.UTC().Year()))
}

// Validate checks a single record.
func (r Record) Validate() error {
	if !IsYearBoundary(r.Date) {
		return fmt.Errorf("%w: date %s is not a calendar-year boundary", ErrInvalidRecord, r.Date.Format(time.RFC3339Nano))
	}
	if r.Count < 0 {
		return fmt.Errorf("%w: negative count %d", ErrInvalidRecord, r.Count)
	}
	return nil
}

// ValidateRecords checks every record and reports the first offender by index.
func ValidateRecords(records []Record) error {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// MaxCount returns the largest count, or 0 for no records.
func MaxCount(records []Record) int64 {
	var m int64
	for _, r := range records {
		if r.Count > m {
			m = r.Count
		}
	}
	return m
}
