package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"catstock/internal/app"
	"catstock/internal/config"
	"catstock/internal/infrastructure"
)

const dateLayout = "2006-01-02"

func main() {
	var (
		fromStr      = flag.String("from", "", "start date YYYY-MM-DD (default 30 days ago)")
		toStr        = flag.String("to", "", "end date YYYY-MM-DD inclusive (default today)")
		symbol       = flag.String("symbol", "", "index symbol to fetch (overrides config)")
		simulateCats = flag.Bool("simulate-cats", true, "use synthetic cat-name data instead of scraping")
		outDir       = flag.String("out", "", "output root directory (defaults to the executable directory)")
		configFile   = flag.String("config", "", "path to config.yaml")
	)
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	if err := applyFlagOverrides(cfg, *symbol, setFlags, *simulateCats); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	var paths *config.Paths
	if *outDir != "" {
		paths = config.PathsIn(*outDir)
	} else {
		paths, err = config.GetPaths()
		if err != nil {
			slog.Error("Failed to initialize paths", "error", err)
			os.Exit(1)
		}
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg.Logging.FilePath = paths.GetLogPath("catstock.log")
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	from, to, err := resolveRange(*fromStr, *toStr)
	if err != nil {
		logger.Error("Invalid date range", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// tag every log line of this run
	ctx := infrastructure.WithTraceID(context.Background(), uuid.NewString())

	pipeline, err := app.New(cfg, paths)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}

	result, err := pipeline.Run(ctx, from, to)
	if err != nil {
		logger.ErrorContext(ctx, "Pipeline run failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "catstock: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Correlation: %.3f (p-value: %.4f, n=%d)\n",
		result.Correlation.Coefficient, result.Correlation.PValue, result.Correlation.SampleSize)
	fmt.Println(result.Correlation.Conclusion())
	fmt.Printf("Excel report saved as %s\n", result.ReportPath)
	fmt.Printf("CSV data saved as %s\n", result.CSVPath)
}

// applyFlagOverrides layers explicitly-set flags over the loaded config
// and re-validates the result. Flag defaults never clobber config-file
// or environment settings.
func applyFlagOverrides(cfg *config.Config, symbol string, setFlags map[string]bool, simulateCats bool) error {
	if symbol != "" {
		cfg.Fetch.Symbol = symbol
	}
	if setFlags["simulate-cats"] {
		cfg.Cats.Simulate = simulateCats
	}
	return cfg.Validate()
}

// resolveRange parses the flags, defaulting to the trailing 30 days
func resolveRange(fromStr, toStr string) (time.Time, time.Time, error) {
	to := time.Now().UTC()
	if toStr != "" {
		parsed, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse -to: %w", err)
		}
		to = parsed
	}

	from := to.AddDate(0, 0, -30)
	if fromStr != "" {
		parsed, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse -from: %w", err)
		}
		from = parsed
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("-from %s is after -to %s",
			from.Format(dateLayout), to.Format(dateLayout))
	}
	return from, to, nil
}
