package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	MaxChildren = 8
	MinChildAge = 1
	MaxChildAge = 17
	MaxRooms    = 10
)

func ValidateLanguage(s string) (string, error) {
	l := strings.ToLower(strings.TrimSpace(s))
	switch l {
	case "de", "en":
		return l, nil
	case "":
		// German is the backend default.
		return "de", nil
	default:
		return "", fmt.Errorf("unsupported language %q, must be \"de\" or \"en\"", s)
	}
}

func ValidateDate(dateStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, errors.New("invalid date, expected YYYY-MM-DD")
	}
	return t, nil
}

// ValidateTimespan checks that to is strictly after from.
func ValidateTimespan(from, to time.Time) error {
	if !to.After(from) {
		return errors.New("'to' date must be after 'from' date")
	}
	return nil
}

// ValidateDuration checks the stay length against the timespan width in days.
func ValidateDuration(durationDays, widthDays int) error {
	if durationDays < 1 {
		return errors.New("duration must be at least 1 day")
	}
	if durationDays > widthDays {
		return fmt.Errorf("duration (%d days) cannot exceed timespan (%d days)", durationDays, widthDays)
	}
	return nil
}

func ValidateAdults(adults int) error {
	if adults < 1 {
		return errors.New("at least 1 adult is required")
	}
	return nil
}

func ValidateChildAges(ages []int) error {
	if len(ages) > MaxChildren {
		return fmt.Errorf("maximum %d children per room", MaxChildren)
	}
	for _, age := range ages {
		if age < MinChildAge || age > MaxChildAge {
			return fmt.Errorf("child age must be between %d and %d", MinChildAge, MaxChildAge)
		}
	}
	return nil
}
