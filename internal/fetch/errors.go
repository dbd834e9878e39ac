package fetch

import "errors"

// Fetcher errors
var (
	// ErrDataUnavailable indicates a source returned no usable rows for
	// the requested date range
	ErrDataUnavailable = errors.New("no data available for requested range")
)
