// Package exporter renders the pipeline output: a CSV of the aligned
// rows and an Excel report with an embedded chart and a correlation
// summary sheet.
package exporter
