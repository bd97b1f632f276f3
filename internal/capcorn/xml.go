package capcorn

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

const dateLayout = "2006-01-02"

// Availability request wire format.

type availabilityXML struct {
	XMLName   xml.Name   `xml:"room_availability"`
	Language  int        `xml:"language"`
	Members   membersXML `xml:"members"`
	Arrival   string     `xml:"arrival"`
	Departure string     `xml:"departure"`
	Rooms     roomsXML   `xml:"rooms"`
}

type membersXML struct {
	Member memberXML `xml:"member"`
}

type memberXML struct {
	HotelID string `xml:"hotel_id,attr"`
}

type roomsXML struct {
	Rooms []roomXML `xml:"room"`
}

type roomXML struct {
	Adults   int        `xml:"adults,attr"`
	Children []childXML `xml:"child"`
}

type childXML struct {
	Age int `xml:"age,attr"`
}

func buildAvailabilityXML(req AvailabilityRequest) ([]byte, error) {
	doc := availabilityXML{
		Language:  req.Language,
		Members:   membersXML{Member: memberXML{HotelID: req.HotelID}},
		Arrival:   req.Arrival.Format(dateLayout),
		Departure: req.Departure.Format(dateLayout),
	}
	for _, room := range req.Rooms {
		r := roomXML{Adults: room.Adults}
		for _, c := range room.Children {
			r.Children = append(r.Children, childXML{Age: c.Age})
		}
		doc.Rooms.Rooms = append(doc.Rooms.Rooms, r)
	}
	out, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal availability request: %w", err)
	}
	return out, nil
}

// Availability response wire format. Numeric fields are decoded as text and
// converted with defaults because the backend omits or empties them for some
// room categories.

type availabilityResponseXML struct {
	Members []memberResponseXML `xml:"members>member"`
}

type memberResponseXML struct {
	HotelID string            `xml:"hotel_id,attr"`
	Rooms   []roomResponseXML `xml:"rooms>room"`
}

type roomResponseXML struct {
	Arrival   string             `xml:"arrival"`
	Departure string             `xml:"departure"`
	Adults    string             `xml:"adults"`
	Children  []childResponseXML `xml:"children>child"`
	Options   []optionXML        `xml:"options>option"`
}

type childResponseXML struct {
	Age string `xml:"age,attr"`
}

type optionXML struct {
	Catc           string `xml:"catc"`
	Type           string `xml:"type"`
	Description    string `xml:"description"`
	Size           string `xml:"size"`
	Price          string `xml:"price"`
	PricePerPerson string `xml:"price_per_person"`
	PricePerAdult  string `xml:"price_per_adult"`
	PricePerNight  string `xml:"price_per_night"`
	Board          string `xml:"board"`
	RoomType       string `xml:"room_type"`
}

func parseAvailabilityXML(body []byte) (AvailabilityResponse, error) {
	var doc availabilityResponseXML
	if err := xml.Unmarshal(body, &doc); err != nil {
		return AvailabilityResponse{}, fmt.Errorf("decode availability response: %w", err)
	}

	resp := AvailabilityResponse{Members: make([]MemberAvailability, 0, len(doc.Members))}
	for _, m := range doc.Members {
		member := MemberAvailability{HotelID: m.HotelID}
		for _, r := range m.Rooms {
			room := RoomAvailability{
				Arrival:   strings.TrimSpace(r.Arrival),
				Departure: strings.TrimSpace(r.Departure),
				Adults:    atoiOr(r.Adults, 0),
			}
			for _, c := range r.Children {
				room.Children = append(room.Children, Child{Age: atoiOr(c.Age, 0)})
			}
			for _, o := range r.Options {
				room.Options = append(room.Options, RoomOption{
					Catc:           strings.TrimSpace(o.Catc),
					Type:           strings.TrimSpace(o.Type),
					Description:    strings.TrimSpace(o.Description),
					Size:           atoiOr(o.Size, 0),
					Price:          atofOr(o.Price, 0),
					PricePerPerson: atofOr(o.PricePerPerson, 0),
					PricePerAdult:  atofOr(o.PricePerAdult, 0),
					PricePerNight:  atofOr(o.PricePerNight, 0),
					Board:          atoiOr(o.Board, BoardBreakfast),
					RoomType:       atoiOr(o.RoomType, RoomTypeHotelRoom),
				})
			}
			member.Rooms = append(member.Rooms, room)
		}
		resp.Members = append(resp.Members, member)
	}
	return resp, nil
}

func atoiOr(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

func atofOr(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
}
