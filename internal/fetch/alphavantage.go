package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"catstock/internal/config"
	"catstock/internal/infrastructure"
	"catstock/pkg/contracts/domain"
)

const (
	avFunction = "TIME_SERIES_DAILY"
	// compact returns the latest 100 data points, full returns the
	// complete history
	outputSizeCompact      = "compact"
	outputSizeFull         = "full"
	compactOutputSizeLimit = 100
)

// avResponse represents the daily time-series payload from the API
type avResponse struct {
	TimeSeries map[string]avDailyPrice `json:"Time Series (Daily)"`
	Note       string                  `json:"Note"`
	ErrorMsg   string                  `json:"Error Message"`
}

// avDailyPrice is one day's OHLCV entry; all fields arrive as strings
type avDailyPrice struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// IndexFetcher retrieves daily index closing prices from an Alpha
// Vantage compatible market-data API
type IndexFetcher struct {
	cfg        config.FetchConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewIndexFetcher creates a market-data fetcher with a client-side
// rate limit matching the API quota
func NewIndexFetcher(cfg config.FetchConfig) *IndexFetcher {
	return &IndexFetcher{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMin)), 1),
	}
}

// Fetch returns the daily closing series for the configured symbol over
// [from, to] inclusive, sorted chronologically. Returns
// ErrDataUnavailable when the source has no rows in the range.
func (f *IndexFetcher) Fetch(ctx context.Context, from, to time.Time) (domain.Series, error) {
	logger := infrastructure.LoggerFromContext(ctx)
	from, to = domain.Day(from), domain.Day(to)
	if to.Before(from) {
		return domain.Series{}, fmt.Errorf("index fetch: range %s..%s is inverted: %w",
			from.Format("2006-01-02"), to.Format("2006-01-02"), ErrDataUnavailable)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return domain.Series{}, fmt.Errorf("rate limit wait: %w", err)
	}

	days := int(to.Sub(from).Hours()/24) + 1
	resp, err := f.query(ctx, days)
	if err != nil {
		return domain.Series{}, err
	}

	points := make([]domain.DatedValue, 0, days)
	for dateStr, entry := range resp.TimeSeries {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			logger.Warn("skipping unparseable date in API response",
				slog.String("date", dateStr),
				slog.String("error", err.Error()))
			continue
		}
		date = domain.Day(date)
		if date.Before(from) || date.After(to) {
			continue
		}
		closeVal, err := strconv.ParseFloat(entry.Close, 64)
		if err != nil {
			logger.Warn("skipping unparseable close value",
				slog.String("date", dateStr),
				slog.String("close", entry.Close))
			continue
		}
		points = append(points, domain.DatedValue{Date: date, Value: closeVal})
	}

	if len(points) == 0 {
		return domain.Series{}, fmt.Errorf("index fetch for %s %s..%s: %w",
			f.cfg.Symbol, from.Format("2006-01-02"), to.Format("2006-01-02"), ErrDataUnavailable)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	logger.Info("fetched index series",
		slog.String("symbol", f.cfg.Symbol),
		slog.Int("points", len(points)),
		slog.String("from", from.Format("2006-01-02")),
		slog.String("to", to.Format("2006-01-02")))

	return domain.NewSeries(f.cfg.Symbol, points), nil
}

func (f *IndexFetcher) query(ctx context.Context, days int) (*avResponse, error) {
	params := url.Values{}
	params.Add("apikey", f.cfg.APIKey)
	params.Add("function", avFunction)
	params.Add("symbol", f.cfg.Symbol)
	if days > compactOutputSizeLimit {
		params.Add("outputsize", outputSizeFull)
	} else {
		params.Add("outputsize", outputSizeCompact)
	}

	reqURL := fmt.Sprintf("%s?%s", f.cfg.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build market-data request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market-data request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("market-data API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result avResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode market-data response: %w", err)
	}

	if result.ErrorMsg != "" {
		return nil, fmt.Errorf("market-data API rejected request: %s", result.ErrorMsg)
	}
	if len(result.TimeSeries) == 0 {
		// A throttling Note with no series also counts as no data
		return nil, fmt.Errorf("market-data API returned no series (note: %q): %w", result.Note, ErrDataUnavailable)
	}

	return &result, nil
}
