// Package align reconciles the index and cat-name series onto a common
// date axis. Market data skips weekends and holidays while cat names
// exist for every calendar day, so the two calendars never match
// exactly; the merge policy decides what happens on the gaps.
package align

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"catstock/internal/infrastructure"
	"catstock/pkg/contracts/domain"
)

// Policy selects how dates missing from one series are handled
type Policy int

const (
	// PolicyDropMissing keeps only dates present in both series
	PolicyDropMissing Policy = iota
	// PolicyFillZero keeps every index date and fills missing cat
	// counts with zero
	PolicyFillZero
)

// String returns the configuration name of the policy
func (p Policy) String() string {
	switch p {
	case PolicyDropMissing:
		return "drop"
	case PolicyFillZero:
		return "fill_zero"
	default:
		return "unknown"
	}
}

// ParsePolicy converts a configuration value to a Policy
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "drop":
		return PolicyDropMissing, nil
	case "fill_zero":
		return PolicyFillZero, nil
	default:
		return PolicyDropMissing, fmt.Errorf("unknown alignment policy %q", s)
	}
}

// Align merges the two series into one row per date, sorted ascending.
// With PolicyDropMissing the output covers exactly the intersection of
// the two date sets; with PolicyFillZero it covers every index date.
// Either input empty yields an empty output.
func Align(ctx context.Context, indexSeries, catSeries domain.Series, policy Policy) []domain.AlignedRow {
	if indexSeries.IsEmpty() || catSeries.IsEmpty() {
		return nil
	}

	rows := make([]domain.AlignedRow, 0, indexSeries.Len())
	for _, p := range indexSeries.Points {
		catCount, ok := catSeries.ValueOn(p.Date)
		if !ok {
			if policy == PolicyDropMissing {
				continue
			}
			catCount = 0
		}
		rows = append(rows, domain.AlignedRow{
			Date:       p.Date,
			IndexValue: p.Value,
			CatCount:   catCount,
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

	logger := infrastructure.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "aligned series",
		slog.String("policy", policy.String()),
		slog.Int("index_points", indexSeries.Len()),
		slog.Int("cat_points", catSeries.Len()),
		slog.Int("aligned_rows", len(rows)))

	return rows
}
