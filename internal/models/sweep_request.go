package models

import (
	"errors"
	"strings"

	"github.com/sbergsmann/lookingcom-backend/internal/validator"
)

// Timespan is the inclusive date range a sweep search slides over.
type Timespan struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// WidthDays returns the timespan width in whole days.
func (t Timespan) WidthDays() int {
	return t.From.DaysUntil(t.To)
}

type ChildAge struct {
	Age int `json:"age"`
}

// SweepSearchRequest is the inbound body of the flexible-duration room search.
type SweepSearchRequest struct {
	Language string     `json:"language"`
	Timespan Timespan   `json:"timespan"`
	Duration int        `json:"duration"`
	Adults   int        `json:"adults"`
	Children []ChildAge `json:"children"`
}

// Validate normalizes the language and checks every bound the downstream
// orchestrator assumes to hold on entry.
func (r *SweepSearchRequest) Validate() error {
	var errs []string

	lang, err := validator.ValidateLanguage(r.Language)
	if err != nil {
		errs = append(errs, err.Error())
	} else {
		r.Language = lang
	}

	if r.Timespan.From.IsZero() || r.Timespan.To.IsZero() {
		errs = append(errs, "timespan 'from' and 'to' dates are required")
	} else {
		if err := validator.ValidateTimespan(r.Timespan.From.Time, r.Timespan.To.Time); err != nil {
			errs = append(errs, err.Error())
		} else if err := validator.ValidateDuration(r.Duration, r.Timespan.WidthDays()); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if err := validator.ValidateAdults(r.Adults); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validator.ValidateChildAges(r.ChildAges()); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, ", "))
	}
	return nil
}

// ChildAges flattens the children list into plain ages.
func (r *SweepSearchRequest) ChildAges() []int {
	ages := make([]int, len(r.Children))
	for i, c := range r.Children {
		ages[i] = c.Age
	}
	return ages
}
