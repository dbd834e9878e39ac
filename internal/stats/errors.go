package stats

import "errors"

// Correlation engine errors
var (
	// ErrInsufficientSamples indicates fewer than two aligned rows;
	// correlation is undefined below two points
	ErrInsufficientSamples = errors.New("insufficient samples for correlation")

	// ErrDegenerateSeries indicates a zero-variance column, for which
	// the correlation coefficient is undefined
	ErrDegenerateSeries = errors.New("zero variance series, correlation undefined")
)
