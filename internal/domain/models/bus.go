package models

import "fmt"

// Bus is a scheduled route with a fixed seat capacity. Seats are generated
// once at creation and live and die with the bus.
type Bus struct {
	ID          int64   `json:"id"`
	BusName     string  `json:"bus_name"`
	BusNumber   string  `json:"bus_number"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Features    string  `json:"features"`
	StartTime   string  `json:"start_time"`
	ReachTime   string  `json:"reach_time"`
	NoOfSeats   int     `json:"no_of_seats"`
	Price       float64 `json:"price"`
	Seats       []Seat  `json:"seats,omitempty"`
}

// Label is the human-readable bus reference used in booking responses.
func (b Bus) Label() string {
	return fmt.Sprintf("%s - %s", b.BusName, b.BusNumber)
}

type Seat struct {
	ID         int64  `json:"id"`
	BusID      int64  `json:"-"`
	SeatNumber string `json:"seat_number"`
	IsBooked   bool   `json:"is_booked"`
}
