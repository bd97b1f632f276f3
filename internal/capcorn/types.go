package capcorn

import (
	"errors"
	"strings"

	"github.com/sbergsmann/lookingcom-backend/internal/models"
	"github.com/sbergsmann/lookingcom-backend/internal/validator"
)

// Wire language codes understood by the backend.
const (
	LanguageGerman  = 0
	LanguageEnglish = 1
)

// Board codes returned with every room option.
const (
	BoardBreakfast    = 1
	BoardHalfBoard    = 2
	BoardFullBoard    = 3
	BoardNoMeals      = 4
	BoardAllInclusive = 5
)

// Room type codes returned with every room option.
const (
	RoomTypeHotelRoom = 1
	RoomTypeApartment = 2
)

type Child struct {
	Age int `json:"age"`
}

type RoomRequest struct {
	Adults   int     `json:"adults"`
	Children []Child `json:"children"`
}

// AvailabilityRequest is one single-window availability query in the
// backend's original shape. It doubles as the body of the passthrough
// endpoint.
type AvailabilityRequest struct {
	Language  int           `json:"language"`
	HotelID   string        `json:"hotel_id"`
	Arrival   models.Date   `json:"arrival"`
	Departure models.Date   `json:"departure"`
	Rooms     []RoomRequest `json:"rooms"`
}

func (r *AvailabilityRequest) Validate() error {
	var errs []string

	if r.Language != LanguageGerman && r.Language != LanguageEnglish {
		errs = append(errs, "language must be 0 (German) or 1 (English)")
	}
	if strings.TrimSpace(r.HotelID) == "" {
		errs = append(errs, "hotel_id is required")
	}
	if r.Arrival.IsZero() || r.Departure.IsZero() {
		errs = append(errs, "arrival and departure dates are required")
	} else if err := validator.ValidateTimespan(r.Arrival.Time, r.Departure.Time); err != nil {
		errs = append(errs, "departure date must be after arrival date")
	}
	if len(r.Rooms) == 0 {
		errs = append(errs, "at least one room is required")
	}
	if len(r.Rooms) > validator.MaxRooms {
		errs = append(errs, "maximum 10 rooms per search")
	}
	for _, room := range r.Rooms {
		if err := validator.ValidateAdults(room.Adults); err != nil {
			errs = append(errs, err.Error())
			break
		}
	}
	for _, room := range r.Rooms {
		ages := make([]int, len(room.Children))
		for i, c := range room.Children {
			ages[i] = c.Age
		}
		if err := validator.ValidateChildAges(ages); err != nil {
			errs = append(errs, err.Error())
			break
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, ", "))
	}
	return nil
}

// RoomOption is one bookable offer as decoded from the backend response.
// Immutable once returned by the client.
type RoomOption struct {
	Catc           string  `json:"catc"`
	Type           string  `json:"type"`
	Description    string  `json:"description"`
	Size           int     `json:"size"`
	Price          float64 `json:"price"`
	PricePerPerson float64 `json:"price_per_person"`
	PricePerAdult  float64 `json:"price_per_adult"`
	PricePerNight  float64 `json:"price_per_night"`
	Board          int     `json:"board"`
	RoomType       int     `json:"room_type"`
}

type RoomAvailability struct {
	Arrival   string       `json:"arrival"`
	Departure string       `json:"departure"`
	Adults    int          `json:"adults"`
	Children  []Child      `json:"children"`
	Options   []RoomOption `json:"options"`
}

type MemberAvailability struct {
	HotelID string             `json:"hotel_id"`
	Rooms   []RoomAvailability `json:"rooms"`
}

// AvailabilityResponse is the typed member/room/option tree the sweep
// orchestrator flattens.
type AvailabilityResponse struct {
	Members []MemberAvailability `json:"members"`
}
