package exporter

import "errors"

// Exporter errors
var (
	// ErrWriteFailed indicates the output destination was unwritable.
	// Propagated without retry; rerunning the pipeline is the recovery
	// mechanism.
	ErrWriteFailed = errors.New("failed to write output artifact")
)
