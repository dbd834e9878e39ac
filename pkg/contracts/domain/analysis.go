package domain

import (
	"time"
)

// AlignedRow is one merged observation: a date on which both the index
// series and the cat-name series have a value
type AlignedRow struct {
	Date       time.Time `json:"date"`
	IndexValue float64   `json:"index_value"`
	CatCount   float64   `json:"cat_count"`
}

// CorrelationResult holds the outcome of a correlation run.
// Computed once per run and immutable thereafter.
type CorrelationResult struct {
	Coefficient float64 `json:"coefficient" validate:"min=-1,max=1"`
	PValue      float64 `json:"p_value" validate:"min=0,max=1"`
	SampleSize  int     `json:"sample_size" validate:"min=2"`
}

// SignificanceLevel is the two-tailed threshold below which the
// correlation is reported as statistically significant
const SignificanceLevel = 0.05

// Significant reports whether the p-value clears the threshold
func (r CorrelationResult) Significant() bool {
	return r.PValue < SignificanceLevel
}

// Conclusion returns the human-readable summary line for reports
func (r CorrelationResult) Conclusion() string {
	if r.Significant() {
		return "There appears to be a statistically significant correlation between finance-inspired cat names and stock index performance."
	}
	return "No statistically significant correlation was found. The cats are innocent... for now."
}
