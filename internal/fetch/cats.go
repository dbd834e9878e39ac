package fetch

import (
	"context"
	"hash/fnv"
	"log/slog"
	"strings"
	"time"

	"catstock/internal/infrastructure"
	"catstock/pkg/contracts/domain"
)

// FinanceKeywords is the fixed matching rule for what counts as a
// finance-themed cat name: a name matches when its lowercase form
// contains any of these substrings
var FinanceKeywords = []string{"musk", "stonks", "buffet", "tesla", "coin", "cash", "bitcoin"}

// catNamePool is the registry sample the simulator draws from
var catNamePool = []string{
	"Musk", "Buffet", "Stonks", "Meowth", "Coin",
	"Tesla", "Cash", "Whiskers", "Bitcoin", "Luna",
}

// IsFinanceInspired reports whether a cat name matches the
// finance-keyword rule
func IsFinanceInspired(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range FinanceKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// CountFinanceNames applies the keyword rule to a list of names
func CountFinanceNames(names []string) int {
	count := 0
	for _, n := range names {
		if IsFinanceInspired(n) {
			count++
		}
	}
	return count
}

// SimulatedCatFetcher produces a synthetic daily count of
// finance-themed cat names. Counts are derived from a hash of the date,
// so a given date always yields the same count: reruns over the same
// range reproduce identical results.
type SimulatedCatFetcher struct{}

// NewSimulatedCatFetcher creates the synthetic cat-name source
func NewSimulatedCatFetcher() *SimulatedCatFetcher {
	return &SimulatedCatFetcher{}
}

// Fetch returns one count per calendar day in [from, to] inclusive.
// Cat-name data exists for every day, weekends included.
func (f *SimulatedCatFetcher) Fetch(ctx context.Context, from, to time.Time) (domain.Series, error) {
	logger := infrastructure.LoggerFromContext(ctx)
	from, to = domain.Day(from), domain.Day(to)

	var points []domain.DatedValue
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return domain.Series{}, err
		}
		points = append(points, domain.DatedValue{
			Date:  d,
			Value: float64(CountFinanceNames(namesForDay(d))),
		})
	}

	if len(points) == 0 {
		return domain.Series{}, ErrDataUnavailable
	}

	logger.Info("generated simulated cat-name series",
		slog.Int("days", len(points)),
		slog.String("from", from.Format("2006-01-02")),
		slog.String("to", to.Format("2006-01-02")))

	return domain.NewSeries("cat_names", points), nil
}

// namesForDay draws a deterministic sample of registered names for a
// calendar day from the pool
func namesForDay(date time.Time) []string {
	h := fnv.New64a()
	h.Write([]byte(date.Format("2006-01-02")))
	seed := h.Sum64()

	// 3 to 10 registrations per day, rotating through the pool
	count := 3 + int(seed%8)
	names := make([]string, 0, count)
	for i := 0; i < count; i++ {
		names = append(names, catNamePool[(int(seed>>8)+i*3)%len(catNamePool)])
	}
	return names
}
