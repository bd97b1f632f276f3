package capcorn

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sbergsmann/lookingcom-backend/internal/config"
	"github.com/sbergsmann/lookingcom-backend/internal/models"
)

const availabilityFixture = `<?xml version="1.0" encoding="utf-8"?>
<room_availability xmlns="http://capcorn.at/">
  <members>
    <member hotel_id="H-42">
      <rooms>
        <room>
          <arrival>2024-01-01</arrival>
          <departure>2024-01-05</departure>
          <adults>2</adults>
          <children>
            <child age="4"/>
          </children>
          <options>
            <option>
              <catc>DZS</catc>
              <type>Doppelzimmer Superior</type>
              <description>Zimmer mit Balkon</description>
              <size>28</size>
              <price>480.00</price>
              <price_per_person>160.00</price_per_person>
              <price_per_adult>240.00</price_per_adult>
              <price_per_night>120.00</price_per_night>
              <board>2</board>
              <room_type>1</room_type>
            </option>
            <option>
              <catc>APP</catc>
              <type>Apartment</type>
              <description></description>
              <size></size>
              <price>620.50</price>
              <price_per_person></price_per_person>
              <price_per_adult></price_per_adult>
              <price_per_night></price_per_night>
              <board></board>
              <room_type>2</room_type>
            </option>
          </options>
        </room>
      </rooms>
    </member>
  </members>
</room_availability>`

func testClient(baseURL string) *Client {
	return NewClient(config.Config{
		CapCornBaseURL:  baseURL,
		CapCornSystem:   "sys",
		CapCornUser:     "user",
		CapCornPassword: "secret",
		CapCornHotelID:  "H-42",
		CapCornPIN:      "1234",
		BackendTimeout:  2 * time.Second,
	}, nil)
}

func availabilityRequest() AvailabilityRequest {
	return AvailabilityRequest{
		Language:  LanguageGerman,
		HotelID:   "H-42",
		Arrival:   models.NewDate(2024, time.January, 1),
		Departure: models.NewDate(2024, time.January, 5),
		Rooms: []RoomRequest{
			{Adults: 2, Children: []Child{{Age: 4}}},
		},
	}
}

func TestSearchRoomAvailability(t *testing.T) {
	var gotBody availabilityXML
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/RoomAvailability" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("user") != "user" || q.Get("password") != "secret" || q.Get("system") != "sys" {
			t.Errorf("credentials missing from query: %v", q)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/xml" {
			t.Errorf("unexpected content type %q", ct)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := xml.Unmarshal(raw, &gotBody); err != nil {
			t.Errorf("request body is not valid XML: %v", err)
		}
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(availabilityFixture))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	resp, err := c.SearchRoomAvailability(context.Background(), availabilityRequest())
	if err != nil {
		t.Fatal(err)
	}

	// Request wire format.
	if gotBody.Language != 0 {
		t.Errorf("expected language 0, got %d", gotBody.Language)
	}
	if gotBody.Members.Member.HotelID != "H-42" {
		t.Errorf("hotel id not set on member: %+v", gotBody.Members)
	}
	if gotBody.Arrival != "2024-01-01" || gotBody.Departure != "2024-01-05" {
		t.Errorf("dates not ISO formatted: %s %s", gotBody.Arrival, gotBody.Departure)
	}
	if len(gotBody.Rooms.Rooms) != 1 || gotBody.Rooms.Rooms[0].Adults != 2 {
		t.Errorf("rooms not encoded: %+v", gotBody.Rooms)
	}
	if len(gotBody.Rooms.Rooms[0].Children) != 1 || gotBody.Rooms.Rooms[0].Children[0].Age != 4 {
		t.Errorf("children not encoded: %+v", gotBody.Rooms.Rooms[0].Children)
	}

	// Response decoding.
	if len(resp.Members) != 1 || resp.Members[0].HotelID != "H-42" {
		t.Fatalf("unexpected members: %+v", resp.Members)
	}
	rooms := resp.Members[0].Rooms
	if len(rooms) != 1 || rooms[0].Adults != 2 || len(rooms[0].Children) != 1 {
		t.Fatalf("unexpected rooms: %+v", rooms)
	}
	opts := rooms[0].Options
	if len(opts) != 2 {
		t.Fatalf("expected 2 options, got %d", len(opts))
	}
	first := opts[0]
	if first.Catc != "DZS" || first.Price != 480.00 || first.Board != BoardHalfBoard || first.Size != 28 {
		t.Errorf("first option decoded wrong: %+v", first)
	}
	// Empty numeric fields fall back to defaults.
	second := opts[1]
	if second.Board != BoardBreakfast {
		t.Errorf("empty board should default to breakfast, got %d", second.Board)
	}
	if second.RoomType != RoomTypeApartment {
		t.Errorf("room type lost: %+v", second)
	}
	if second.Size != 0 || second.PricePerNight != 0 {
		t.Errorf("empty numerics should default to zero: %+v", second)
	}
}

func TestSearchRoomAvailability_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.SearchRoomAvailability(context.Background(), availabilityRequest())
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestSearchRoomAvailability_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testClient(srv.URL)
	_, err := c.SearchRoomAvailability(ctx, availabilityRequest())
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func reservationRequest() ReservationRequest {
	age := 4
	return ReservationRequest{
		HotelID:       "H-42",
		RoomTypeCode:  "DZS",
		NumberOfUnits: 1,
		MealPlan:      MealPlanHalfBoard,
		GuestCounts: []GuestCount{
			{AgeQualifyingCode: 10, Count: 2},
			{AgeQualifyingCode: 8, Count: 1, Age: &age},
		},
		Arrival:     models.NewDate(2024, time.January, 1),
		Departure:   models.NewDate(2024, time.January, 5),
		TotalAmount: 480.00,
		Guest: Guest{
			NamePrefix:  "Herr",
			GivenName:   "Max",
			Surname:     "Mustermann",
			PhoneNumber: "+43 660 1234567",
			Email:       "max@example.com",
			Address: Address{
				AddressLine: "Hauptstrasse 1",
				CityName:    "Salzburg",
				PostalCode:  "5020",
				CountryCode: "AT",
			},
		},
		Services: []ServiceRequest{
			{Name: "Spa access", Quantity: 2, AmountAfterTax: 40.00},
		},
		BookingComment: "Late arrival",
		ReservationID:  "R-1001",
		Source:         "lookingcom",
	}
}

func TestCreateReservation_Success(t *testing.T) {
	var gotDoc otaReservationXML
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/OTA_HotelResNotifRQ" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("hotelId") != "H-42" || q.Get("pin") != "1234" {
			t.Errorf("hotelId/pin missing from query: %v", q)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := xml.Unmarshal(raw, &gotDoc); err != nil {
			t.Errorf("request body is not valid XML: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	resp, err := c.CreateReservation(context.Background(), reservationRequest())
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Fatalf("expected success, got %+v", resp)
	}
	if resp.ReservationID != "R-1001" {
		t.Errorf("reservation id not echoed: %+v", resp)
	}

	res := gotDoc.Reservations.Reservation
	if res.ResStatus != "Book" {
		t.Errorf("expected ResStatus Book, got %q", res.ResStatus)
	}
	stay := res.RoomStays.RoomStay
	if stay.RoomTypes.RoomType.RoomTypeCode != "DZS" || stay.RoomTypes.RoomType.NumberOfUnits != "1" {
		t.Errorf("room type wrong: %+v", stay.RoomTypes)
	}
	if stay.RatePlans.RatePlan.MealsIncluded.MealPlanCodes != "2" {
		t.Errorf("meal plan wrong: %+v", stay.RatePlans)
	}
	if len(stay.GuestCounts.Counts) != 2 {
		t.Fatalf("expected 2 guest count entries, got %d", len(stay.GuestCounts.Counts))
	}
	if stay.GuestCounts.Counts[1].Age != "4" {
		t.Errorf("child age missing: %+v", stay.GuestCounts.Counts[1])
	}
	if stay.TimeSpan.Start != "2024-01-01" || stay.TimeSpan.End != "2024-01-05" {
		t.Errorf("timespan wrong: %+v", stay.TimeSpan)
	}
	if stay.Total.AmountAfterTax != "480.00" || stay.Total.CurrencyCode != "EUR" {
		t.Errorf("total wrong: %+v", stay.Total)
	}
	if res.Services == nil || len(res.Services.Services) != 1 {
		t.Fatalf("services not encoded: %+v", res.Services)
	}
	customer := res.ResGuests.ResGuest.Profiles.ProfileInfo.Profile.Customer
	if customer.PersonName.Surname != "Mustermann" || customer.Email != "max@example.com" {
		t.Errorf("guest profile wrong: %+v", customer)
	}
	if res.ResGuests.ResGuest.Comments == nil || res.ResGuests.ResGuest.Comments.Comment.ListItem != "Late arrival" {
		t.Errorf("booking comment missing: %+v", res.ResGuests.ResGuest.Comments)
	}
	if res.GlobalInfo.IDs.ID.ResIDValue != "R-1001" || res.GlobalInfo.IDs.ID.ResIDSource != "lookingcom" {
		t.Errorf("reservation id wrong: %+v", res.GlobalInfo)
	}
}

func TestCreateReservation_RejectedByBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "room category sold out", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	resp, err := c.CreateReservation(context.Background(), reservationRequest())
	if err != nil {
		t.Fatalf("backend rejection must not be a transport error, got %v", err)
	}
	if resp.Success {
		t.Fatal("expected rejected reservation")
	}
	if len(resp.Errors) != 1 {
		t.Fatalf("expected backend body in errors, got %+v", resp.Errors)
	}
}

func TestCreateReservation_TransportError(t *testing.T) {
	c := testClient("http://127.0.0.1:1")
	_, err := c.CreateReservation(context.Background(), reservationRequest())
	if err == nil {
		t.Fatal("expected transport error")
	}
}
