package search

import "errors"

var (
	// ErrInvalidRange reports a duration that does not fit the timespan.
	// Enumeration fails loudly instead of returning an empty sweep.
	ErrInvalidRange = errors.New("duration does not fit inside the timespan")

	// ErrNoWindows reports that enumeration produced nothing despite the
	// input passing validation.
	ErrNoWindows = errors.New("no searchable date windows in timespan")
)
