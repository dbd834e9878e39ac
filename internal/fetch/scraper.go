package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"

	"catstock/internal/config"
	"catstock/internal/infrastructure"
	"catstock/pkg/contracts/domain"
)

// ScrapedCatFetcher obtains cat names from a live registry page and
// buckets them into daily finance-themed counts. The page lists names
// newest-first without registration dates, so names are spread evenly
// across the requested range in listing order.
type ScrapedCatFetcher struct {
	cfg config.CatsConfig
}

// NewScrapedCatFetcher creates a scraper against the configured
// registry URL
func NewScrapedCatFetcher(cfg config.CatsConfig) *ScrapedCatFetcher {
	return &ScrapedCatFetcher{cfg: cfg}
}

// Fetch scrapes the registry page and returns one count per calendar
// day in [from, to] inclusive. Returns ErrDataUnavailable when the page
// yields no names.
func (f *ScrapedCatFetcher) Fetch(ctx context.Context, from, to time.Time) (domain.Series, error) {
	logger := infrastructure.LoggerFromContext(ctx)
	from, to = domain.Day(from), domain.Day(to)

	names, err := f.scrapeNames(ctx)
	if err != nil {
		return domain.Series{}, fmt.Errorf("scrape cat names: %w", err)
	}
	if len(names) == 0 {
		return domain.Series{}, fmt.Errorf("cat-name page %s: %w", f.cfg.ScrapeURL, ErrDataUnavailable)
	}

	logger.Info("scraped cat names",
		slog.Int("names", len(names)),
		slog.String("url", f.cfg.ScrapeURL))

	return domain.NewSeries("cat_names", bucketByDay(names, from, to)), nil
}

func (f *ScrapedCatFetcher) scrapeNames(ctx context.Context) ([]string, error) {
	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts, chromedp.Flag("headless", f.cfg.Headless))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	extractJS := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%q)).map(el => el.textContent.trim()).filter(s => s.length > 0)`,
		f.cfg.NameSelector)

	var names []string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(f.cfg.ScrapeURL),
		chromedp.WaitVisible(f.cfg.NameSelector, chromedp.ByQuery),
		chromedp.Evaluate(extractJS, &names),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp run against %s: %w", f.cfg.ScrapeURL, err)
	}
	return names, nil
}

// bucketByDay distributes names across the range in order and counts
// the finance-themed ones per day
func bucketByDay(names []string, from, to time.Time) []domain.DatedValue {
	days := int(to.Sub(from).Hours()/24) + 1
	if days < 1 {
		days = 1
	}

	counts := make([]int, days)
	for i, name := range names {
		if IsFinanceInspired(name) {
			counts[i*days/len(names)]++
		}
	}

	points := make([]domain.DatedValue, days)
	for i := range counts {
		points[i] = domain.DatedValue{
			Date:  from.AddDate(0, 0, i),
			Value: float64(counts[i]),
		}
	}
	return points
}
