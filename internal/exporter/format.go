package exporter

import (
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// formatDate renders a date the way every export writes it
func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// formatValue renders a numeric column with the shortest exact
// representation, so re-parsing the export reproduces the stored float
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
