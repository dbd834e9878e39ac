package align

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catstock/internal/infrastructure"
	"catstock/pkg/contracts/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func series(source string, points ...domain.DatedValue) domain.Series {
	return domain.NewSeries(source, points)
}

func dv(d time.Time, v float64) domain.DatedValue {
	return domain.DatedValue{Date: d, Value: v}
}

func TestAlignIntersection(t *testing.T) {
	// market closed on the 7th/8th (weekend), cats recorded every day
	index := series("sp500",
		dv(day(2025, 6, 5), 5900),
		dv(day(2025, 6, 6), 5910),
		dv(day(2025, 6, 9), 5920),
	)
	cats := series("cat_names",
		dv(day(2025, 6, 5), 2),
		dv(day(2025, 6, 6), 4),
		dv(day(2025, 6, 7), 1),
		dv(day(2025, 6, 8), 3),
		dv(day(2025, 6, 9), 5),
	)

	rows := Align(context.Background(), index, cats, PolicyDropMissing)
	require.Len(t, rows, 3, "output length equals the date intersection")

	assert.Equal(t, domain.AlignedRow{Date: day(2025, 6, 5), IndexValue: 5900, CatCount: 2}, rows[0])
	assert.Equal(t, domain.AlignedRow{Date: day(2025, 6, 6), IndexValue: 5910, CatCount: 4}, rows[1])
	assert.Equal(t, domain.AlignedRow{Date: day(2025, 6, 9), IndexValue: 5920, CatCount: 5}, rows[2])
}

func TestAlignDropsIndexDatesWithoutCats(t *testing.T) {
	index := series("sp500",
		dv(day(2025, 6, 5), 5900),
		dv(day(2025, 6, 6), 5910),
	)
	cats := series("cat_names", dv(day(2025, 6, 6), 4))

	rows := Align(context.Background(), index, cats, PolicyDropMissing)
	require.Len(t, rows, 1)
	assert.Equal(t, day(2025, 6, 6), rows[0].Date)
}

func TestAlignFillZeroKeepsAllIndexDates(t *testing.T) {
	index := series("sp500",
		dv(day(2025, 6, 5), 5900),
		dv(day(2025, 6, 6), 5910),
		dv(day(2025, 6, 9), 5920),
	)
	cats := series("cat_names", dv(day(2025, 6, 6), 4))

	rows := Align(context.Background(), index, cats, PolicyFillZero)
	require.Len(t, rows, 3)
	assert.Equal(t, 0.0, rows[0].CatCount)
	assert.Equal(t, 4.0, rows[1].CatCount)
	assert.Equal(t, 0.0, rows[2].CatCount)
}

func TestAlignSortedNoDuplicates(t *testing.T) {
	index := series("sp500",
		dv(day(2025, 6, 2), 1),
		dv(day(2025, 6, 3), 2),
		dv(day(2025, 6, 4), 3),
		dv(day(2025, 6, 5), 4),
	)
	cats := series("cat_names",
		dv(day(2025, 6, 2), 1),
		dv(day(2025, 6, 3), 1),
		dv(day(2025, 6, 4), 1),
		dv(day(2025, 6, 5), 1),
	)

	rows := Align(context.Background(), index, cats, PolicyDropMissing)
	seen := make(map[time.Time]bool)
	for i, row := range rows {
		assert.False(t, seen[row.Date], "duplicate date %s", row.Date)
		seen[row.Date] = true
		if i > 0 {
			assert.True(t, rows[i-1].Date.Before(row.Date), "rows not ascending at %d", i)
		}
	}
}

func TestAlignEmptyInputs(t *testing.T) {
	populated := series("sp500", dv(day(2025, 6, 5), 5900))
	empty := series("cat_names")

	assert.Empty(t, Align(context.Background(), populated, empty, PolicyDropMissing))
	assert.Empty(t, Align(context.Background(), empty, populated, PolicyDropMissing))
	assert.Empty(t, Align(context.Background(), populated, empty, PolicyFillZero))
	assert.Empty(t, Align(context.Background(), empty, empty, PolicyDropMissing))
}

func TestAlignDisjointSinglePoints(t *testing.T) {
	index := series("sp500", dv(day(2025, 6, 5), 5900))
	cats := series("cat_names", dv(day(2025, 6, 6), 3))

	assert.Empty(t, Align(context.Background(), index, cats, PolicyDropMissing))
}

func TestAlignLogsCarryTraceID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	index := series("sp500", dv(day(2025, 6, 5), 5900))
	cats := series("cat_names", dv(day(2025, 6, 5), 2))
	ctx := infrastructure.WithTraceID(context.Background(), "trace-align-test")
	Align(ctx, index, cats, PolicyDropMissing)

	out := buf.String()
	assert.Contains(t, out, "aligned series")
	assert.Contains(t, out, "trace-align-test")
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("drop")
	require.NoError(t, err)
	assert.Equal(t, PolicyDropMissing, p)

	p, err = ParsePolicy("fill_zero")
	require.NoError(t, err)
	assert.Equal(t, PolicyFillZero, p)

	_, err = ParsePolicy("interpolate")
	assert.Error(t, err)
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "drop", PolicyDropMissing.String())
	assert.Equal(t, "fill_zero", PolicyFillZero.String())
	assert.Equal(t, "unknown", Policy(99).String())
}
