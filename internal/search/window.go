package search

import (
	"fmt"

	"github.com/sbergsmann/lookingcom-backend/internal/models"
)

// EnumerateWindows produces every (arrival, departure) window of the given
// duration that fits inside the timespan, one per arrival day, ascending.
//
// For a timespan of width W days and duration D ≤ W the result has exactly
// W-D+1 windows; duration equal to the width yields the single window
// covering the whole timespan. A duration below one day or wider than the
// timespan fails with ErrInvalidRange.
func EnumerateWindows(span models.Timespan, durationDays int) ([]Window, error) {
	if durationDays < 1 {
		return nil, fmt.Errorf("%w: duration %d is below one day", ErrInvalidRange, durationDays)
	}
	width := span.WidthDays()
	if durationDays > width {
		return nil, fmt.Errorf("%w: duration %d exceeds timespan of %d days", ErrInvalidRange, durationDays, width)
	}

	windows := make([]Window, 0, width-durationDays+1)
	maxArrival := span.To.AddDays(-durationDays)
	for arrival := span.From; !arrival.After(maxArrival.Time); arrival = arrival.AddDays(1) {
		windows = append(windows, Window{
			Arrival:   arrival,
			Departure: arrival.AddDays(durationDays),
		})
	}
	return windows, nil
}
