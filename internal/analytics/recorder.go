package analytics

import (
	"math"
	"sort"
	"sync"
	"time"
)

const (
	EventRoomSearch  = "room_search"
	EventReservation = "reservation"

	// DefaultMaxEvents bounds the in-memory log per event type.
	DefaultMaxEvents = 10000
)

// Event is one recorded search or reservation. Data holds the request
// payload as submitted by the caller.
type Event struct {
	Timestamp    time.Time      `json:"timestamp"`
	EventType    string         `json:"event_type"`
	Data         map[string]any `json:"data"`
	ResultsCount *int           `json:"results_count,omitempty"`
}

// Recorder keeps a bounded in-memory log of searches and reservations.
// It is an explicitly constructed dependency, safe for concurrent callers;
// events are lost on restart by design.
type Recorder struct {
	mu           sync.Mutex
	maxEvents    int
	searches     []Event
	reservations []Event
	now          func() time.Time
}

func NewRecorder(maxEvents int) *Recorder {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	return &Recorder{maxEvents: maxEvents, now: time.Now}
}

// LogRoomSearch records one sweep search together with the number of room
// options it found. Fire and forget: the caller ignores the outcome.
func (r *Recorder) LogRoomSearch(data map[string]any, resultsCount int) {
	count := resultsCount
	event := Event{
		Timestamp:    r.now().UTC(),
		EventType:    EventRoomSearch,
		Data:         data,
		ResultsCount: &count,
	}
	r.mu.Lock()
	r.searches = appendBounded(r.searches, event, r.maxEvents)
	r.mu.Unlock()
}

// LogReservation records one booking attempt.
func (r *Recorder) LogReservation(data map[string]any) {
	event := Event{
		Timestamp: r.now().UTC(),
		EventType: EventReservation,
		Data:      data,
	}
	r.mu.Lock()
	r.reservations = appendBounded(r.reservations, event, r.maxEvents)
	r.mu.Unlock()
}

func appendBounded(events []Event, e Event, max int) []Event {
	if len(events) >= max {
		events = events[1:]
	}
	return append(events, e)
}

// RoomSearches returns the searches recorded in the last N hours.
func (r *Recorder) RoomSearches(hours int) []Event {
	return r.eventsSince(hours, true)
}

// Reservations returns the reservations recorded in the last N hours.
func (r *Recorder) Reservations(hours int) []Event {
	return r.eventsSince(hours, false)
}

func (r *Recorder) eventsSince(hours int, searches bool) []Event {
	cutoff := r.now().UTC().Add(-time.Duration(hours) * time.Hour)
	r.mu.Lock()
	defer r.mu.Unlock()

	src := r.reservations
	if searches {
		src = r.searches
	}
	out := make([]Event, 0, len(src))
	for _, e := range src {
		if !e.Timestamp.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// DurationCount reports how often one stay duration was searched for.
type DurationCount struct {
	DurationDays int `json:"duration_days"`
	Count        int `json:"count"`
}

// Summary aggregates searches and reservations over a lookback window.
type Summary struct {
	TimespanHours           int             `json:"timespan_hours"`
	TotalSearches           int             `json:"total_searches"`
	TotalReservations       int             `json:"total_reservations"`
	ConversionRate          float64         `json:"conversion_rate"`
	TotalRevenue            float64         `json:"total_revenue"`
	AverageBookingValue     float64         `json:"average_booking_value"`
	TotalRoomsFound         int             `json:"total_rooms_found"`
	AverageResultsPerSearch float64         `json:"average_results_per_search"`
	PopularDurations        []DurationCount `json:"popular_durations"`
	Searches                []Event         `json:"searches"`
	Reservations            []Event         `json:"reservations"`
}

// Summarize computes the analytics summary for the last N hours.
func (r *Recorder) Summarize(hours int) Summary {
	searches := r.RoomSearches(hours)
	reservations := r.Reservations(hours)

	s := Summary{
		TimespanHours:     hours,
		TotalSearches:     len(searches),
		TotalReservations: len(reservations),
		Searches:          searches,
		Reservations:      reservations,
		PopularDurations:  []DurationCount{},
	}

	if s.TotalSearches > 0 {
		s.ConversionRate = round2(float64(s.TotalReservations) / float64(s.TotalSearches) * 100)
	}

	for _, res := range reservations {
		if amount, ok := res.Data["total_amount"].(float64); ok {
			s.TotalRevenue += amount
		}
	}
	s.TotalRevenue = round2(s.TotalRevenue)
	if s.TotalReservations > 0 {
		s.AverageBookingValue = round2(s.TotalRevenue / float64(s.TotalReservations))
	}

	durations := map[int]int{}
	for _, search := range searches {
		if search.ResultsCount != nil {
			s.TotalRoomsFound += *search.ResultsCount
		}
		switch d := search.Data["duration"].(type) {
		case int:
			if d > 0 {
				durations[d]++
			}
		case float64:
			if d > 0 {
				durations[int(d)]++
			}
		}
	}
	if s.TotalSearches > 0 {
		s.AverageResultsPerSearch = round2(float64(s.TotalRoomsFound) / float64(s.TotalSearches))
	}

	for d, c := range durations {
		s.PopularDurations = append(s.PopularDurations, DurationCount{DurationDays: d, Count: c})
	}
	sort.Slice(s.PopularDurations, func(i, j int) bool {
		if s.PopularDurations[i].Count != s.PopularDurations[j].Count {
			return s.PopularDurations[i].Count > s.PopularDurations[j].Count
		}
		return s.PopularDurations[i].DurationDays < s.PopularDurations[j].DurationDays
	})
	if len(s.PopularDurations) > 5 {
		s.PopularDurations = s.PopularDurations[:5]
	}

	return s
}

// Stats describes the in-memory storage itself.
type Stats struct {
	SearchesInMemory     int        `json:"total_searches_in_memory"`
	ReservationsInMemory int        `json:"total_reservations_in_memory"`
	OldestSearch         *time.Time `json:"oldest_search"`
	NewestSearch         *time.Time `json:"newest_search"`
	OldestReservation    *time.Time `json:"oldest_reservation"`
	NewestReservation    *time.Time `json:"newest_reservation"`
}

func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := Stats{
		SearchesInMemory:     len(r.searches),
		ReservationsInMemory: len(r.reservations),
	}
	if len(r.searches) > 0 {
		oldest, newest := r.searches[0].Timestamp, r.searches[len(r.searches)-1].Timestamp
		stats.OldestSearch, stats.NewestSearch = &oldest, &newest
	}
	if len(r.reservations) > 0 {
		oldest, newest := r.reservations[0].Timestamp, r.reservations[len(r.reservations)-1].Timestamp
		stats.OldestReservation, stats.NewestReservation = &oldest, &newest
	}
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
