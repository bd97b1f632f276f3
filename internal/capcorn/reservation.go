package capcorn

import (
	"encoding/xml"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/sbergsmann/lookingcom-backend/internal/models"
)

// Meal plan codes accepted by the reservation endpoint.
const (
	MealPlanBreakfast    = 1
	MealPlanHalfBoard    = 2
	MealPlanFullBoard    = 3
	MealPlanNoMeals      = 4
	MealPlanAllInclusive = 5
)

const defaultSource = "Hackathon"

type GuestCount struct {
	AgeQualifyingCode int  `json:"age_qualifying_code"` // 10=adults, 8=children
	Count             int  `json:"count"`
	Age               *int `json:"age,omitempty"` // required for children
}

type ServiceRequest struct {
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	AmountAfterTax float64 `json:"amount_after_tax"`
}

type Address struct {
	AddressLine string `json:"address_line"`
	CityName    string `json:"city_name"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
}

type Guest struct {
	NamePrefix  string  `json:"name_prefix"`
	GivenName   string  `json:"given_name"`
	Surname     string  `json:"surname"`
	PhoneNumber string  `json:"phone_number"`
	Email       string  `json:"email"`
	Address     Address `json:"address"`
}

// ReservationRequest is a complete booking request translated to the OTA
// HotelResNotif wire format before submission.
type ReservationRequest struct {
	HotelID        string           `json:"hotel_id"`
	RoomTypeCode   string           `json:"room_type_code"`
	NumberOfUnits  int              `json:"number_of_units"`
	MealPlan       int              `json:"meal_plan"`
	GuestCounts    []GuestCount     `json:"guest_counts"`
	Arrival        models.Date      `json:"arrival"`
	Departure      models.Date      `json:"departure"`
	TotalAmount    float64          `json:"total_amount"`
	Guest          Guest            `json:"guest"`
	Services       []ServiceRequest `json:"services"`
	BookingComment string           `json:"booking_comment,omitempty"`
	ReservationID  string           `json:"reservation_id"`
	Source         string           `json:"source"`
}

// Validate checks the booking payload and fills defaults for optional fields.
func (r *ReservationRequest) Validate() error {
	if r.NumberOfUnits == 0 {
		r.NumberOfUnits = 1
	}
	if strings.TrimSpace(r.Source) == "" {
		r.Source = defaultSource
	}

	var errs []string
	if strings.TrimSpace(r.HotelID) == "" {
		errs = append(errs, "hotel_id is required")
	}
	if code := strings.TrimSpace(r.RoomTypeCode); code == "" || len(code) > 8 {
		errs = append(errs, "room_type_code is required and must be at most 8 characters")
	}
	if r.NumberOfUnits < 1 {
		errs = append(errs, "number_of_units must be at least 1")
	}
	if r.MealPlan < MealPlanBreakfast || r.MealPlan > MealPlanAllInclusive {
		errs = append(errs, "meal_plan must be between 1 and 5")
	}
	if len(r.GuestCounts) == 0 {
		errs = append(errs, "at least one guest count entry is required")
	}
	for _, gc := range r.GuestCounts {
		if gc.Count < 1 {
			errs = append(errs, "guest count must be at least 1")
			break
		}
	}
	if r.Arrival.IsZero() || r.Departure.IsZero() {
		errs = append(errs, "arrival and departure dates are required")
	} else if !r.Departure.After(r.Arrival.Time) {
		errs = append(errs, "departure date must be after arrival date")
	}
	if r.TotalAmount < 0 {
		errs = append(errs, "total_amount must not be negative")
	}
	if _, err := mail.ParseAddress(r.Guest.Email); err != nil {
		errs = append(errs, "guest email is invalid")
	}
	if r.Guest.GivenName == "" || r.Guest.Surname == "" {
		errs = append(errs, "guest given_name and surname are required")
	}
	if len(r.Guest.Address.CountryCode) != 2 {
		errs = append(errs, "country_code must be a 2-letter code")
	}
	if len(r.BookingComment) > 200 {
		errs = append(errs, "booking_comment must be at most 200 characters")
	}
	if strings.TrimSpace(r.ReservationID) == "" {
		errs = append(errs, "reservation_id is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, ", "))
	}
	return nil
}

// ReservationResponse reports the outcome of a booking attempt.
type ReservationResponse struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	ReservationID string   `json:"reservation_id,omitempty"`
	Errors        []string `json:"errors,omitempty"`
}

// OTA_HotelResNotifRQ wire format.

type otaReservationXML struct {
	XMLName      xml.Name                `xml:"OTA_HotelResNotifRQ"`
	Namespace    string                  `xml:"xmlns,attr"`
	XSD          string                  `xml:"xmlns:xsd,attr"`
	XSI          string                  `xml:"xmlns:xsi,attr"`
	Version      string                  `xml:"Version,attr"`
	POS          otaPOSXML               `xml:"POS"`
	Reservations otaHotelReservationsXML `xml:"HotelReservations"`
}

type otaPOSXML struct {
	Source otaSourceXML `xml:"Source"`
}

type otaSourceXML struct {
	AgentDutyCode string `xml:"AgentDutyCode,attr"`
}

type otaHotelReservationsXML struct {
	Reservation otaHotelReservationXML `xml:"HotelReservation"`
}

type otaHotelReservationXML struct {
	CreateDateTime string          `xml:"CreateDateTime,attr"`
	ResStatus      string          `xml:"ResStatus,attr"`
	RoomStays      otaRoomStaysXML `xml:"RoomStays"`
	Services       *otaServicesXML `xml:"Services,omitempty"`
	ResGuests      otaResGuestsXML `xml:"ResGuests"`
	GlobalInfo     otaResGlobalXML `xml:"ResGlobalInfo"`
}

type otaRoomStaysXML struct {
	RoomStay otaRoomStayXML `xml:"RoomStay"`
}

type otaRoomStayXML struct {
	RoomTypes    otaRoomTypesXML   `xml:"RoomTypes"`
	RatePlans    otaRatePlansXML   `xml:"RatePlans"`
	GuestCounts  otaGuestCountsXML `xml:"GuestCounts"`
	TimeSpan     otaTimeSpanXML    `xml:"TimeSpan"`
	Total        otaTotalXML       `xml:"Total"`
	PropertyInfo otaPropertyXML    `xml:"BasicPropertyInfo"`
}

type otaRoomTypesXML struct {
	RoomType otaRoomTypeXML `xml:"RoomType"`
}

type otaRoomTypeXML struct {
	NumberOfUnits string `xml:"NumberOfUnits,attr"`
	RoomTypeCode  string `xml:"RoomTypeCode,attr"`
}

type otaRatePlansXML struct {
	RatePlan otaRatePlanXML `xml:"RatePlan"`
}

type otaRatePlanXML struct {
	MealsIncluded otaMealsXML `xml:"MealsIncluded"`
}

type otaMealsXML struct {
	MealPlanCodes string `xml:"MealPlanCodes,attr"`
}

type otaGuestCountsXML struct {
	IsPerRoom string             `xml:"IsPerRoom,attr"`
	Counts    []otaGuestCountXML `xml:"GuestCount"`
}

type otaGuestCountXML struct {
	AgeQualifyingCode string `xml:"AgeQualifyingCode,attr"`
	Count             string `xml:"Count,attr"`
	Age               string `xml:"Age,attr,omitempty"`
}

type otaTimeSpanXML struct {
	Start string `xml:"Start,attr"`
	End   string `xml:"End,attr"`
}

type otaTotalXML struct {
	AmountAfterTax string `xml:"AmountAfterTax,attr"`
	CurrencyCode   string `xml:"CurrencyCode,attr"`
}

type otaPropertyXML struct {
	HotelCode string `xml:"HotelCode,attr"`
}

type otaServicesXML struct {
	Services []otaServiceXML `xml:"Service"`
}

type otaServiceXML struct {
	Quantity string               `xml:"Quantity,attr"`
	Details  otaServiceDetailsXML `xml:"ServiceDetails"`
	Price    otaServicePriceXML   `xml:"Price"`
}

type otaServiceDetailsXML struct {
	Description otaServiceDescXML `xml:"ServiceDescription"`
}

type otaServiceDescXML struct {
	Name string `xml:"Name,attr"`
}

type otaServicePriceXML struct {
	Base otaServiceBaseXML `xml:"Base"`
}

type otaServiceBaseXML struct {
	AmountAfterTax string `xml:"AmountAfterTax,attr"`
}

type otaResGuestsXML struct {
	ResGuest otaResGuestXML `xml:"ResGuest"`
}

type otaResGuestXML struct {
	Profiles otaProfilesXML  `xml:"Profiles"`
	Comments *otaCommentsXML `xml:"Comments,omitempty"`
}

type otaProfilesXML struct {
	ProfileInfo otaProfileInfoXML `xml:"ProfileInfo"`
}

type otaProfileInfoXML struct {
	Profile otaProfileXML `xml:"Profile"`
}

type otaProfileXML struct {
	Customer otaCustomerXML `xml:"Customer"`
}

type otaCustomerXML struct {
	Language   string           `xml:"Language,attr"`
	PersonName otaPersonNameXML `xml:"PersonName"`
	Telephone  otaTelephoneXML  `xml:"Telephone"`
	Email      string           `xml:"Email"`
	Address    otaAddressXML    `xml:"Address"`
}

type otaPersonNameXML struct {
	NamePrefix string `xml:"NamePrefix"`
	GivenName  string `xml:"GivenName"`
	Surname    string `xml:"Surname"`
}

type otaTelephoneXML struct {
	PhoneNumber string `xml:"PhoneNumber,attr"`
}

type otaAddressXML struct {
	AddressLine string            `xml:"AddressLine"`
	CityName    string            `xml:"CityName"`
	PostalCode  string            `xml:"PostalCode"`
	CountryName otaCountryNameXML `xml:"CountryName"`
}

type otaCountryNameXML struct {
	Code string `xml:"Code,attr"`
}

type otaCommentsXML struct {
	Comment otaCommentXML `xml:"Comment"`
}

type otaCommentXML struct {
	ListItem string `xml:"ListItem"`
}

type otaResGlobalXML struct {
	IDs otaReservationIDsXML `xml:"HotelReservationIDs"`
}

type otaReservationIDsXML struct {
	ID otaReservationIDXML `xml:"HotelReservationID"`
}

type otaReservationIDXML struct {
	ResIDValue  string `xml:"ResID_Value,attr"`
	ResIDSource string `xml:"ResID_Source,attr"`
}

func buildReservationXML(req ReservationRequest, now time.Time) ([]byte, error) {
	doc := otaReservationXML{
		Namespace: "http://www.opentravel.org/OTA/2003/05",
		XSD:       "http://www.w3.org/2001/XMLSchema",
		XSI:       "http://www.w3.org/2001/XMLSchema-instance",
		Version:   "1",
		POS:       otaPOSXML{Source: otaSourceXML{AgentDutyCode: req.Source}},
	}

	res := otaHotelReservationXML{
		CreateDateTime: now.Format(time.RFC3339),
		ResStatus:      "Book",
		RoomStays: otaRoomStaysXML{
			RoomStay: otaRoomStayXML{
				RoomTypes: otaRoomTypesXML{RoomType: otaRoomTypeXML{
					NumberOfUnits: strconv.Itoa(req.NumberOfUnits),
					RoomTypeCode:  req.RoomTypeCode,
				}},
				RatePlans: otaRatePlansXML{RatePlan: otaRatePlanXML{
					MealsIncluded: otaMealsXML{MealPlanCodes: strconv.Itoa(req.MealPlan)},
				}},
				GuestCounts: otaGuestCountsXML{IsPerRoom: "true"},
				TimeSpan: otaTimeSpanXML{
					Start: req.Arrival.Format(dateLayout),
					End:   req.Departure.Format(dateLayout),
				},
				Total: otaTotalXML{
					AmountAfterTax: fmt.Sprintf("%.2f", req.TotalAmount),
					CurrencyCode:   "EUR",
				},
				PropertyInfo: otaPropertyXML{HotelCode: req.HotelID},
			},
		},
		ResGuests: otaResGuestsXML{ResGuest: otaResGuestXML{
			Profiles: otaProfilesXML{ProfileInfo: otaProfileInfoXML{Profile: otaProfileXML{
				Customer: otaCustomerXML{
					Language: "de",
					PersonName: otaPersonNameXML{
						NamePrefix: req.Guest.NamePrefix,
						GivenName:  req.Guest.GivenName,
						Surname:    req.Guest.Surname,
					},
					Telephone: otaTelephoneXML{PhoneNumber: req.Guest.PhoneNumber},
					Email:     req.Guest.Email,
					Address: otaAddressXML{
						AddressLine: req.Guest.Address.AddressLine,
						CityName:    req.Guest.Address.CityName,
						PostalCode:  req.Guest.Address.PostalCode,
						CountryName: otaCountryNameXML{Code: req.Guest.Address.CountryCode},
					},
				},
			}}},
		}},
		GlobalInfo: otaResGlobalXML{IDs: otaReservationIDsXML{ID: otaReservationIDXML{
			ResIDValue:  req.ReservationID,
			ResIDSource: req.Source,
		}}},
	}

	for _, gc := range req.GuestCounts {
		entry := otaGuestCountXML{
			AgeQualifyingCode: strconv.Itoa(gc.AgeQualifyingCode),
			Count:             strconv.Itoa(gc.Count),
		}
		if gc.Age != nil {
			entry.Age = strconv.Itoa(*gc.Age)
		}
		res.RoomStays.RoomStay.GuestCounts.Counts = append(res.RoomStays.RoomStay.GuestCounts.Counts, entry)
	}

	if len(req.Services) > 0 {
		services := &otaServicesXML{}
		for _, s := range req.Services {
			services.Services = append(services.Services, otaServiceXML{
				Quantity: strconv.Itoa(s.Quantity),
				Details:  otaServiceDetailsXML{Description: otaServiceDescXML{Name: s.Name}},
				Price:    otaServicePriceXML{Base: otaServiceBaseXML{AmountAfterTax: fmt.Sprintf("%.2f", s.AmountAfterTax)}},
			})
		}
		res.Services = services
	}

	if req.BookingComment != "" {
		res.ResGuests.ResGuest.Comments = &otaCommentsXML{Comment: otaCommentXML{ListItem: req.BookingComment}}
	}

	doc.Reservations.Reservation = res

	out, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal reservation request: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
