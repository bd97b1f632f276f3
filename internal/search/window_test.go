package search

import (
	"errors"
	"testing"
	"time"

	"github.com/sbergsmann/lookingcom-backend/internal/models"
)

func span(fromY int, fromM time.Month, fromD, toY int, toM time.Month, toD int) models.Timespan {
	return models.Timespan{
		From: models.NewDate(fromY, fromM, fromD),
		To:   models.NewDate(toY, toM, toD),
	}
}

func TestEnumerateWindows(t *testing.T) {
	s := span(2024, time.January, 1, 2024, time.January, 8)

	windows, err := EnumerateWindows(s, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(windows) != 4 {
		t.Fatalf("expected 4 windows, got %d", len(windows))
	}

	want := [][2]string{
		{"2024-01-01", "2024-01-05"},
		{"2024-01-02", "2024-01-06"},
		{"2024-01-03", "2024-01-07"},
		{"2024-01-04", "2024-01-08"},
	}
	for i, w := range windows {
		if w.Arrival.String() != want[i][0] || w.Departure.String() != want[i][1] {
			t.Errorf("window %d: got (%s, %s), want (%s, %s)",
				i, w.Arrival, w.Departure, want[i][0], want[i][1])
		}
	}
}

func TestEnumerateWindows_Properties(t *testing.T) {
	s := span(2024, time.March, 1, 2024, time.March, 15) // width 14 days

	for duration := 1; duration <= 14; duration++ {
		windows, err := EnumerateWindows(s, duration)
		if err != nil {
			t.Fatalf("duration %d: %v", duration, err)
		}
		if want := 14 - duration + 1; len(windows) != want {
			t.Fatalf("duration %d: expected %d windows, got %d", duration, want, len(windows))
		}
		for i, w := range windows {
			if got := w.Arrival.DaysUntil(w.Departure); got != duration {
				t.Fatalf("duration %d window %d: width %d", duration, i, got)
			}
			if i > 0 && !windows[i-1].Arrival.Before(w.Arrival.Time) {
				t.Fatalf("duration %d: windows not strictly ascending at %d", duration, i)
			}
		}
	}
}

func TestEnumerateWindows_DurationEqualsWidth(t *testing.T) {
	s := span(2024, time.May, 10, 2024, time.May, 17)

	windows, err := EnumerateWindows(s, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(windows) != 1 {
		t.Fatalf("expected exactly 1 window, got %d", len(windows))
	}
	if windows[0].Arrival.String() != "2024-05-10" || windows[0].Departure.String() != "2024-05-17" {
		t.Fatalf("window does not cover the whole timespan: %+v", windows[0])
	}
}

func TestEnumerateWindows_InvalidRange(t *testing.T) {
	s := span(2024, time.January, 1, 2024, time.January, 5)

	tests := []struct {
		name     string
		duration int
	}{
		{"ZeroDuration", 0},
		{"NegativeDuration", -3},
		{"DurationExceedsWidth", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EnumerateWindows(s, tt.duration)
			if !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("expected ErrInvalidRange, got %v", err)
			}
		})
	}
}
