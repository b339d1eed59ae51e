package models

import "time"

// Booking links one user to one seat on one bus. At most one booking exists
// per seat; the seat's is_booked flag is the mutual-exclusion gate.
type Booking struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	BusID       int64     `json:"bus_id"`
	SeatID      int64     `json:"seat_id"`
	BookingTime time.Time `json:"booking_time"`

	// Joined display fields, populated on read paths.
	Username   string `json:"-"`
	BusName    string `json:"-"`
	BusNumber  string `json:"-"`
	SeatNumber string `json:"-"`
}

// BusLabel mirrors Bus.Label for joined booking rows.
func (b Booking) BusLabel() string {
	return b.BusName + " - " + b.BusNumber
}
