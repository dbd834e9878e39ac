package exporter

import (
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"catstock/internal/config"
	"catstock/pkg/contracts/domain"
)

func testResult() domain.CorrelationResult {
	return domain.CorrelationResult{Coefficient: 0.873, PValue: 0.0123, SampleSize: 3}
}

func TestReportWriterWrite(t *testing.T) {
	paths := config.PathsIn(t.TempDir())
	w := NewReportWriter(paths)

	require.NoError(t, w.Write("report.xlsx", testRows(), testResult()))

	f, err := excelize.OpenFile(paths.GetReportPath("report.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Cat vs Stock Data")
	assert.Contains(t, sheets, "Summary")

	rows, err := f.GetRows("Cat vs Stock Data")
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 3 data rows
	assert.Equal(t, []string{"Date", "IndexValue", "CatCount"}, rows[0])
	assert.Equal(t, "2025-06-02", rows[1][0])
	assert.Equal(t, "5910.5", rows[1][1])

	summary, err := f.GetCellValue("Summary", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Pearson Correlation Coefficient: 0.873", summary)

	pval, err := f.GetCellValue("Summary", "A4")
	require.NoError(t, err)
	assert.Equal(t, "P-value: 0.0123", pval)

	conclusion, err := f.GetCellValue("Summary", "A7")
	require.NoError(t, err)
	assert.Contains(t, conclusion, "statistically significant")
}

func TestReportWriterInsignificantConclusion(t *testing.T) {
	paths := config.PathsIn(t.TempDir())
	w := NewReportWriter(paths)

	result := domain.CorrelationResult{Coefficient: 0.1, PValue: 0.72, SampleSize: 3}
	require.NoError(t, w.Write("report.xlsx", testRows(), result))

	f, err := excelize.OpenFile(paths.GetReportPath("report.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	conclusion, err := f.GetCellValue("Summary", "A7")
	require.NoError(t, err)
	assert.Contains(t, conclusion, "innocent")
}

func TestReportWriterEmptyRowsStillProducesSummary(t *testing.T) {
	paths := config.PathsIn(t.TempDir())
	w := NewReportWriter(paths)

	require.NoError(t, w.Write("report.xlsx", nil, testResult()))

	f, err := excelize.OpenFile(paths.GetReportPath("report.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, f.GetSheetList(), "Summary")
}

func TestReportWriterUnwritableDestination(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced the same way on windows")
	}
	paths := config.PathsIn(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())
	require.NoError(t, os.Chmod(paths.ReportsDir, 0500))
	t.Cleanup(func() { os.Chmod(paths.ReportsDir, 0755) })

	w := NewReportWriter(paths)
	err := w.Write("report.xlsx", testRows(), testResult())
	assert.ErrorIs(t, err, ErrWriteFailed)
}
