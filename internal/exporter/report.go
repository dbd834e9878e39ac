package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"catstock/internal/config"
	"catstock/pkg/contracts/domain"
)

const (
	dataSheet    = "Cat vs Stock Data"
	summarySheet = "Summary"
)

// ReportWriter renders the Excel report workbook: the aligned data with
// an embedded line chart plus a summary sheet with the correlation
// result
type ReportWriter struct {
	paths *config.Paths
}

// NewReportWriter creates a new Excel report writer
func NewReportWriter(paths *config.Paths) *ReportWriter {
	return &ReportWriter{paths: paths}
}

// Write produces the report workbook at the given path
func (w *ReportWriter) Write(filePath string, rows []domain.AlignedRow, result domain.CorrelationResult) error {
	fullPath := w.paths.GetReportPath(filePath)

	slog.Info("writing Excel report",
		slog.String("path", fullPath),
		slog.Int("rows", len(rows)),
		slog.Float64("coefficient", result.Coefficient))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return fmt.Errorf("rename data sheet: %w", err)
	}

	if err := w.writeData(f, rows); err != nil {
		return err
	}
	if err := w.addChart(f, len(rows)); err != nil {
		return err
	}
	if err := w.writeSummary(f, result); err != nil {
		return err
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create directory %s: %v", ErrWriteFailed, dir, err)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrWriteFailed, fullPath, err)
	}
	return nil
}

func (w *ReportWriter) writeData(f *excelize.File, rows []domain.AlignedRow) error {
	header := []interface{}{"Date", "IndexValue", "CatCount"}
	if err := f.SetSheetRow(dataSheet, "A1", &header); err != nil {
		return fmt.Errorf("write data header: %w", err)
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		values := []interface{}{formatDate(row.Date), row.IndexValue, row.CatCount}
		if err := f.SetSheetRow(dataSheet, cell, &values); err != nil {
			return fmt.Errorf("write data row %d: %w", i+1, err)
		}
	}
	// widen the date column for readability
	if err := f.SetColWidth(dataSheet, "A", "C", 14); err != nil {
		return fmt.Errorf("set column widths: %w", err)
	}
	return nil
}

func (w *ReportWriter) addChart(f *excelize.File, rowCount int) error {
	if rowCount == 0 {
		return nil
	}
	lastRow := rowCount + 1

	chart := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("'%s'!$B$1", dataSheet),
				Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", dataSheet, lastRow),
				Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", dataSheet, lastRow),
			},
			{
				Name:       fmt.Sprintf("'%s'!$C$1", dataSheet),
				Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", dataSheet, lastRow),
				Values:     fmt.Sprintf("'%s'!$C$2:$C$%d", dataSheet, lastRow),
			},
		},
		Title: []excelize.RichTextRun{
			{Text: "Finance Cat Names vs Stock Index"},
		},
		XAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: "Date"}},
		},
		YAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: "Count / Close Price"}},
		},
		Legend: excelize.ChartLegend{
			Position: "bottom",
		},
		Dimension: excelize.ChartDimension{
			Width:  720,
			Height: 360,
		},
	}

	if err := f.AddChart(dataSheet, "E5", chart); err != nil {
		return fmt.Errorf("add line chart: %w", err)
	}
	return nil
}

func (w *ReportWriter) writeSummary(f *excelize.File, result domain.CorrelationResult) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	cells := map[string]interface{}{
		"A1": "Cat Names vs Stock Market Report Summary",
		"A3": fmt.Sprintf("Pearson Correlation Coefficient: %.3f", result.Coefficient),
		"A4": fmt.Sprintf("P-value: %.4f", result.PValue),
		"A5": fmt.Sprintf("Sample Size: %d", result.SampleSize),
		"A7": result.Conclusion(),
	}
	for cell, value := range cells {
		if err := f.SetCellValue(summarySheet, cell, value); err != nil {
			return fmt.Errorf("write summary cell %s: %w", cell, err)
		}
	}
	return nil
}
