package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catstock/internal/config"
)

func TestApplyFlagOverridesKeepsConfigWhenFlagsUnset(t *testing.T) {
	cfg := config.Default()
	cfg.Cats.Simulate = false
	cfg.Cats.ScrapeURL = "https://example.com/cat-names"
	cfg.Fetch.Symbol = "SPX"

	require.NoError(t, applyFlagOverrides(cfg, "", map[string]bool{}, true))
	assert.False(t, cfg.Cats.Simulate)
	assert.Equal(t, "SPX", cfg.Fetch.Symbol)
}

func TestApplyFlagOverridesAppliesExplicitFlags(t *testing.T) {
	cfg := config.Default()
	cfg.Cats.Simulate = false
	cfg.Cats.ScrapeURL = "https://example.com/cat-names"

	setFlags := map[string]bool{"simulate-cats": true}
	require.NoError(t, applyFlagOverrides(cfg, "MSFT", setFlags, true))
	assert.True(t, cfg.Cats.Simulate)
	assert.Equal(t, "MSFT", cfg.Fetch.Symbol)
}

func TestApplyFlagOverridesRevalidates(t *testing.T) {
	cfg := config.Default()

	setFlags := map[string]bool{"simulate-cats": true}
	err := applyFlagOverrides(cfg, "", setFlags, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scrape_url")
}

func TestResolveRangeExplicit(t *testing.T) {
	from, to, err := resolveRange("2025-06-01", "2025-06-30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), to)
}

func TestResolveRangeDefaultsToTrailing30Days(t *testing.T) {
	from, to, err := resolveRange("", "")
	require.NoError(t, err)
	assert.Equal(t, to.AddDate(0, 0, -30), from)
	assert.WithinDuration(t, time.Now().UTC(), to, time.Minute)
}

func TestResolveRangeInverted(t *testing.T) {
	_, _, err := resolveRange("2025-06-30", "2025-06-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after")
}

func TestResolveRangeBadFormat(t *testing.T) {
	_, _, err := resolveRange("06/01/2025", "")
	assert.Error(t, err)

	_, _, err = resolveRange("", "yesterday")
	assert.Error(t, err)
}
