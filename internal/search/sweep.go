package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sbergsmann/lookingcom-backend/internal/capcorn"
	"github.com/sbergsmann/lookingcom-backend/internal/obs"
)

// Orchestrator drives a sweep search: it enumerates every sliding date
// window, queries the backend once per window concurrently, and flattens
// the successful results into one date-tagged option list.
type Orchestrator struct {
	gateway Gateway
	hotelID string
	metrics *obs.Metrics
	logger  *slog.Logger
}

func NewOrchestrator(gateway Gateway, hotelID string, m *obs.Metrics, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{gateway: gateway, hotelID: hotelID, metrics: m, logger: logger}
}

// Search fans out one availability query per window and joins all of them
// before aggregating. Concurrency is unbounded: every window is dispatched
// at once and the backend is relied on to absorb the fan-out.
//
// Per-window failures are swallowed: a failed window contributes zero
// options and the sweep still succeeds as long as enumeration produced at
// least one window. Only a pre-dispatch failure is fatal.
func (o *Orchestrator) Search(ctx context.Context, req SweepRequest) (SweepResult, error) {
	windows, err := EnumerateWindows(req.Timespan, req.DurationDays)
	if err != nil {
		return SweepResult{}, err
	}
	if len(windows) == 0 {
		return SweepResult{}, ErrNoWindows
	}

	o.metrics.AddWindowQueries(len(windows))

	rooms := []capcorn.RoomRequest{partyRoom(req.Adults, req.ChildAges)}
	language := languageCode(req.Language)

	// Tagged outcome per window, each goroutine owns its slot. Slot order
	// is enumeration order, so recombination is deterministic regardless
	// of completion order.
	outcomes := make([]windowOutcome, len(windows))
	var wg sync.WaitGroup
	for i, w := range windows {
		wg.Add(1)
		go func(i int, w Window) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = windowOutcome{err: fmt.Errorf("window query panic: %v", r)}
					o.metrics.IncWindowFailures()
				}
			}()

			start := time.Now()
			resp, err := o.gateway.SearchRoomAvailability(ctx, capcorn.AvailabilityRequest{
				Language:  language,
				HotelID:   o.hotelID,
				Arrival:   w.Arrival,
				Departure: w.Departure,
				Rooms:     rooms,
			})
			o.metrics.ObserveBackendLatency("room_availability", time.Since(start).Seconds())

			if err != nil {
				o.metrics.IncWindowFailures()
				o.metrics.IncBackendError("room_availability")
				o.logger.Warn("window query failed",
					"arrival", w.Arrival.String(),
					"departure", w.Departure.String(),
					"error", err,
				)
				outcomes[i] = windowOutcome{err: err}
				return
			}
			outcomes[i] = windowOutcome{options: flattenOptions(resp)}
		}(i, w)
	}
	// Full barrier: no partial results are returned early.
	wg.Wait()

	result := SweepResult{
		TotalQueries: len(windows),
		DurationDays: req.DurationDays,
		Options:      make([]DatedOption, 0),
	}
	failed := 0
	for i, outcome := range outcomes {
		if outcome.err != nil {
			failed++
			continue
		}
		for _, opt := range outcome.options {
			result.Options = append(result.Options, DatedOption{
				Arrival:    windows[i].Arrival,
				Departure:  windows[i].Departure,
				RoomOption: opt,
			})
		}
	}
	result.TotalOptions = len(result.Options)

	if failed == len(windows) {
		// Indistinguishable from "no rooms available" for the caller
		// except through total_options; keep it visible in the logs.
		o.logger.Warn("all window queries failed", "windows", len(windows))
	}
	o.logger.Info("sweep search completed",
		"windows", len(windows),
		"failed", failed,
		"options", result.TotalOptions,
		"duration_days", req.DurationDays,
	)

	return result, nil
}

// flattenOptions collapses the member → room → option tree of one window
// response into a flat option list, preserving discovery order.
func flattenOptions(resp capcorn.AvailabilityResponse) []capcorn.RoomOption {
	var options []capcorn.RoomOption
	for _, member := range resp.Members {
		for _, room := range member.Rooms {
			options = append(options, room.Options...)
		}
	}
	return options
}

func partyRoom(adults int, childAges []int) capcorn.RoomRequest {
	room := capcorn.RoomRequest{Adults: adults}
	for _, age := range childAges {
		room.Children = append(room.Children, capcorn.Child{Age: age})
	}
	return room
}

func languageCode(language string) int {
	if language == "en" {
		return capcorn.LanguageEnglish
	}
	return capcorn.LanguageGerman
}
