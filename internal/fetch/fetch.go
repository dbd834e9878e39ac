// Package fetch obtains the two daily series the pipeline correlates:
// stock-index closing prices from a market-data API and finance-themed
// cat-name counts from either a deterministic simulator or a scraped
// registry page.
package fetch

import (
	"context"
	"time"

	"catstock/pkg/contracts/domain"
)

// SeriesFetcher retrieves a daily series covering [from, to] inclusive
type SeriesFetcher interface {
	Fetch(ctx context.Context, from, to time.Time) (domain.Series, error)
}
