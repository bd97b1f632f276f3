package analytics

import (
	"sync"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRecorderSummary(t *testing.T) {
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	r := NewRecorder(100)
	r.now = fixedClock(base)

	r.LogRoomSearch(map[string]any{"duration": 4}, 10)
	r.LogRoomSearch(map[string]any{"duration": 4}, 6)
	r.LogRoomSearch(map[string]any{"duration": 7}, 0)
	r.LogRoomSearch(map[string]any{"duration": float64(3)}, 4)
	r.LogReservation(map[string]any{"total_amount": 480.50})
	r.LogReservation(map[string]any{"total_amount": 319.50})
	r.LogReservation(map[string]any{}) // no amount recorded

	s := r.Summarize(24)
	if s.TotalSearches != 4 || s.TotalReservations != 3 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if s.ConversionRate != 75.0 {
		t.Errorf("conversion rate: got %v, want 75", s.ConversionRate)
	}
	if s.TotalRevenue != 800.0 {
		t.Errorf("revenue: got %v, want 800", s.TotalRevenue)
	}
	if s.AverageBookingValue != 266.67 {
		t.Errorf("average booking value: got %v, want 266.67", s.AverageBookingValue)
	}
	if s.TotalRoomsFound != 20 {
		t.Errorf("rooms found: got %d, want 20", s.TotalRoomsFound)
	}
	if s.AverageResultsPerSearch != 5.0 {
		t.Errorf("average results per search: got %v, want 5", s.AverageResultsPerSearch)
	}

	want := []DurationCount{
		{DurationDays: 4, Count: 2},
		{DurationDays: 3, Count: 1},
		{DurationDays: 7, Count: 1},
	}
	if len(s.PopularDurations) != len(want) {
		t.Fatalf("popular durations: %+v", s.PopularDurations)
	}
	for i, dc := range s.PopularDurations {
		if dc != want[i] {
			t.Errorf("popular durations[%d]: got %+v, want %+v", i, dc, want[i])
		}
	}
}

func TestRecorderLookbackWindow(t *testing.T) {
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	r := NewRecorder(100)

	r.now = fixedClock(base.Add(-3 * time.Hour))
	r.LogRoomSearch(map[string]any{"duration": 2}, 1)
	r.now = fixedClock(base.Add(-30 * time.Minute))
	r.LogRoomSearch(map[string]any{"duration": 5}, 2)
	r.now = fixedClock(base)

	if got := len(r.RoomSearches(1)); got != 1 {
		t.Fatalf("expected only the recent search in a 1h window, got %d", got)
	}
	if got := len(r.RoomSearches(24)); got != 2 {
		t.Fatalf("expected both searches in a 24h window, got %d", got)
	}
}

func TestRecorderEvictsOldestWhenFull(t *testing.T) {
	r := NewRecorder(3)
	for i := 0; i < 5; i++ {
		r.LogRoomSearch(map[string]any{"duration": i + 1}, 0)
	}

	events := r.RoomSearches(24)
	if len(events) != 3 {
		t.Fatalf("expected bounded log of 3, got %d", len(events))
	}
	// Oldest two were dropped.
	if events[0].Data["duration"] != 3 {
		t.Errorf("expected oldest surviving duration 3, got %v", events[0].Data["duration"])
	}
}

func TestRecorderStats(t *testing.T) {
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	r := NewRecorder(100)

	empty := r.Stats()
	if empty.SearchesInMemory != 0 || empty.OldestSearch != nil {
		t.Fatalf("unexpected empty stats: %+v", empty)
	}

	r.now = fixedClock(base)
	r.LogRoomSearch(map[string]any{}, 0)
	r.now = fixedClock(base.Add(time.Hour))
	r.LogRoomSearch(map[string]any{}, 0)
	r.LogReservation(map[string]any{})

	stats := r.Stats()
	if stats.SearchesInMemory != 2 || stats.ReservationsInMemory != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if !stats.OldestSearch.Equal(base) || !stats.NewestSearch.Equal(base.Add(time.Hour)) {
		t.Errorf("search timestamps wrong: oldest=%v newest=%v", stats.OldestSearch, stats.NewestSearch)
	}
}

func TestRecorderConcurrentWrites(t *testing.T) {
	r := NewRecorder(1000)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				r.LogRoomSearch(map[string]any{"duration": 4}, 1)
				r.LogReservation(map[string]any{"total_amount": 1.0})
			}
		}()
	}
	wg.Wait()

	stats := r.Stats()
	if stats.SearchesInMemory != 200 || stats.ReservationsInMemory != 200 {
		t.Fatalf("lost events under concurrency: %+v", stats)
	}
}
