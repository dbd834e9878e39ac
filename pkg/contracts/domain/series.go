package domain

import (
	"fmt"
	"time"
)

// DatedValue is a single daily observation in a series
type DatedValue struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is an ordered, date-indexed sequence of observations tagged
// by its source (e.g. "sp500", "cat_names")
type Series struct {
	Source string       `json:"source" validate:"required"`
	Points []DatedValue `json:"points"`
}

// NewSeries creates a tagged series from pre-sorted points
func NewSeries(source string, points []DatedValue) Series {
	return Series{Source: source, Points: points}
}

// Len returns the number of observations in the series
func (s Series) Len() int {
	return len(s.Points)
}

// IsEmpty reports whether the series has no observations
func (s Series) IsEmpty() bool {
	return len(s.Points) == 0
}

// Validate checks the series invariant: dates strictly increasing,
// normalized to UTC midnight, no duplicates
func (s Series) Validate() error {
	for i, p := range s.Points {
		if !p.Date.Equal(Day(p.Date)) {
			return fmt.Errorf("series %s: point %d date %s not normalized to UTC midnight",
				s.Source, i, p.Date.Format(time.RFC3339))
		}
		if i > 0 && !s.Points[i-1].Date.Before(p.Date) {
			return fmt.Errorf("series %s: dates not strictly increasing at index %d (%s >= %s)",
				s.Source, i,
				s.Points[i-1].Date.Format("2006-01-02"),
				p.Date.Format("2006-01-02"))
		}
	}
	return nil
}

// ValueOn returns the value recorded for the given day, if any
func (s Series) ValueOn(date time.Time) (float64, bool) {
	d := Day(date)
	for _, p := range s.Points {
		if p.Date.Equal(d) {
			return p.Value, true
		}
	}
	return 0, false
}

// Day normalizes a timestamp to UTC midnight. All series dates are
// stored in this form so that calendar days compare with time.Equal.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
