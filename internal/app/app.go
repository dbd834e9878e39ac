// Package app wires the pipeline stages together and runs them in
// order: fetch both series, align them, compute the correlation, then
// export the chart report and tabular data.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"catstock/internal/align"
	"catstock/internal/config"
	"catstock/internal/exporter"
	"catstock/internal/fetch"
	"catstock/internal/infrastructure"
	"catstock/internal/stats"
	"catstock/pkg/contracts/domain"
)

// App holds the wired pipeline stages
type App struct {
	cfg          *config.Config
	paths        *config.Paths
	indexFetcher fetch.SeriesFetcher
	catFetcher   fetch.SeriesFetcher
	policy       align.Policy
	csvWriter    *exporter.CSVWriter
	reportWriter *exporter.ReportWriter
}

// Result summarizes one completed pipeline run
type Result struct {
	Rows        []domain.AlignedRow
	Correlation domain.CorrelationResult
	CSVPath     string
	ReportPath  string
}

// New builds the pipeline from configuration
func New(cfg *config.Config, paths *config.Paths) (*App, error) {
	policy, err := align.ParsePolicy(cfg.Align.Policy)
	if err != nil {
		return nil, fmt.Errorf("configure aligner: %w", err)
	}

	var catFetcher fetch.SeriesFetcher
	if cfg.Cats.Simulate {
		catFetcher = fetch.NewSimulatedCatFetcher()
	} else {
		catFetcher = fetch.NewScrapedCatFetcher(cfg.Cats)
	}

	return &App{
		cfg:          cfg,
		paths:        paths,
		indexFetcher: fetch.NewIndexFetcher(cfg.Fetch),
		catFetcher:   catFetcher,
		policy:       policy,
		csvWriter:    exporter.NewCSVWriter(paths),
		reportWriter: exporter.NewReportWriter(paths),
	}, nil
}

// NewWithFetchers builds the pipeline with explicit fetchers.
// Used by tests to substitute canned series sources.
func NewWithFetchers(cfg *config.Config, paths *config.Paths, indexFetcher, catFetcher fetch.SeriesFetcher) (*App, error) {
	a, err := New(cfg, paths)
	if err != nil {
		return nil, err
	}
	a.indexFetcher = indexFetcher
	a.catFetcher = catFetcher
	return a, nil
}

// Run executes the pipeline for the inclusive date range. The first
// failing stage aborts the run; earlier artifacts are left in place and
// a rerun regenerates them.
func (a *App) Run(ctx context.Context, from, to time.Time) (*Result, error) {
	logger := infrastructure.LoggerFromContext(ctx)
	start := time.Now()

	logger.Info("pipeline starting",
		slog.String("from", from.Format("2006-01-02")),
		slog.String("to", to.Format("2006-01-02")),
		slog.String("symbol", a.cfg.Fetch.Symbol),
		slog.Bool("simulate_cats", a.cfg.Cats.Simulate),
		slog.String("align_policy", a.policy.String()))

	indexSeries, err := a.indexFetcher.Fetch(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch stage (index): %w", err)
	}
	if err := indexSeries.Validate(); err != nil {
		return nil, fmt.Errorf("fetch stage (index): %w", err)
	}

	catSeries, err := a.catFetcher.Fetch(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch stage (cats): %w", err)
	}
	if err := catSeries.Validate(); err != nil {
		return nil, fmt.Errorf("fetch stage (cats): %w", err)
	}

	rows := align.Align(ctx, indexSeries, catSeries, a.policy)
	logger.Info("align stage complete", slog.Int("aligned_rows", len(rows)))

	result, err := stats.Pearson(rows)
	if err != nil {
		return nil, fmt.Errorf("correlation stage: %w", err)
	}
	logger.Info("correlation stage complete",
		slog.Float64("coefficient", result.Coefficient),
		slog.Float64("p_value", result.PValue),
		slog.Int("sample_size", result.SampleSize),
		slog.Bool("significant", result.Significant()))

	if err := a.csvWriter.WriteAligned(a.cfg.Export.DataCSV, rows); err != nil {
		return nil, fmt.Errorf("export stage (csv): %w", err)
	}
	if err := a.reportWriter.Write(a.cfg.Export.ReportXLSX, rows, result); err != nil {
		return nil, fmt.Errorf("export stage (report): %w", err)
	}

	logger.Info("pipeline complete", slog.Duration("elapsed", time.Since(start)))

	return &Result{
		Rows:        rows,
		Correlation: result,
		CSVPath:     a.paths.GetReportPath(a.cfg.Export.DataCSV),
		ReportPath:  a.paths.GetReportPath(a.cfg.Export.ReportXLSX),
	}, nil
}
