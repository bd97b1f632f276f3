package search

import (
	"context"

	"github.com/sbergsmann/lookingcom-backend/internal/capcorn"
	"github.com/sbergsmann/lookingcom-backend/internal/models"
)

// Window is one concrete (arrival, departure) pair of fixed duration,
// produced by sliding the stay across the requested timespan.
type Window struct {
	Arrival   models.Date
	Departure models.Date
}

// SweepRequest carries one validated flexible-duration search.
type SweepRequest struct {
	Language     string
	Timespan     models.Timespan
	DurationDays int
	Adults       int
	ChildAges    []int
}

// DatedOption is a room option tagged with the window that produced it.
// Duplicates across windows are expected and preserved.
type DatedOption struct {
	Arrival   models.Date `json:"arrival"`
	Departure models.Date `json:"departure"`
	capcorn.RoomOption
}

// SweepResult is the flattened outcome of one sweep search.
type SweepResult struct {
	TotalQueries int           `json:"total_queries"`
	TotalOptions int           `json:"total_options"`
	DurationDays int           `json:"duration_days"`
	Options      []DatedOption `json:"options"`
}

// windowOutcome is the tagged per-window result: either the flattened
// options of a successful query or the error that produced nothing.
type windowOutcome struct {
	options []capcorn.RoomOption
	err     error
}

// Gateway is the single-window availability query the orchestrator fans
// out over.
type Gateway interface {
	SearchRoomAvailability(ctx context.Context, req capcorn.AvailabilityRequest) (capcorn.AvailabilityResponse, error)
}

type SweepService interface {
	Search(ctx context.Context, req SweepRequest) (SweepResult, error)
}

type CacheService interface {
	GetOrCompute(ctx context.Context, key string, fn func(ctx context.Context) (SweepResult, error)) (SweepResult, error)
}

type RateLimiter interface {
	Allow(ip string) bool
}
