package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"catstock/internal/config"
	"catstock/pkg/contracts/domain"
)

// csvHeader is the column order of the tabular export
var csvHeader = []string{"Date", "IndexValue", "CatCount"}

// CSVWriter exports aligned rows as CSV
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteAligned writes one CSV row per aligned date. The file gets a
// UTF-8 BOM so Excel opens it cleanly.
func (w *CSVWriter) WriteAligned(filePath string, rows []domain.AlignedRow) error {
	fullPath := w.paths.GetReportPath(filePath)

	slog.Info("writing aligned data CSV",
		slog.String("path", fullPath),
		slog.Int("rows", len(rows)))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create directory %s: %v", ErrWriteFailed, dir, err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("%w: write BOM: %v", ErrWriteFailed, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("%w: write header: %v", ErrWriteFailed, err)
	}
	for i, row := range rows {
		record := []string{
			formatDate(row.Date),
			formatValue(row.IndexValue),
			formatValue(row.CatCount),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("%w: write record %d: %v", ErrWriteFailed, i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: flush: %v", ErrWriteFailed, err)
	}
	return nil
}

// ReadAlignedCSV parses a file written by WriteAligned back into rows.
// Exists for downstream consumers of the export and to keep the format
// honest: write-then-read must reproduce the same tuples.
func ReadAlignedCSV(path string) ([]domain.AlignedRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aligned CSV: %w", err)
	}

	// strip the BOM if present
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}

	reader := csv.NewReader(bytes.NewReader(data))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse aligned CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("aligned CSV %s has no header", path)
	}

	rows := make([]domain.AlignedRow, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(csvHeader) {
			return nil, fmt.Errorf("aligned CSV row %d: want %d fields, got %d", i+1, len(csvHeader), len(record))
		}
		date, err := time.Parse(dateLayout, record[0])
		if err != nil {
			return nil, fmt.Errorf("aligned CSV row %d: bad date %q: %w", i+1, record[0], err)
		}
		indexValue, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("aligned CSV row %d: bad index value %q: %w", i+1, record[1], err)
		}
		catCount, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("aligned CSV row %d: bad cat count %q: %w", i+1, record[2], err)
		}
		rows = append(rows, domain.AlignedRow{
			Date:       domain.Day(date),
			IndexValue: indexValue,
			CatCount:   catCount,
		})
	}
	return rows, nil
}
