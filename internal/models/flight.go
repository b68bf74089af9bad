package models

import "time"

// Flight is a single scheduled movement for one calendar day. Rows are written
// by the import endpoint and read-only to the run engines.
type Flight struct {
	ID                 string     `db:"id" json:"id"`
	FlightNumber       string     `db:"flight_number" json:"flight_number"`
	Airline            *string    `db:"airline" json:"airline,omitempty"`
	Date               string     `db:"date" json:"date"`
	Registration       *string    `db:"registration" json:"registration,omitempty"`
	ScheduledDeparture *time.Time `db:"scheduled_departure" json:"scheduled_departure,omitempty"`
	ScheduledArrival   *time.Time `db:"scheduled_arrival" json:"scheduled_arrival,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// HasRegistration reports whether the aircraft tail is known.
func (f *Flight) HasRegistration() bool {
	return f.Registration != nil && *f.Registration != ""
}

// HasDeparture reports whether a scheduled departure time is known.
func (f *Flight) HasDeparture() bool {
	return f.ScheduledDeparture != nil && !f.ScheduledDeparture.IsZero()
}

// FlightFilter describes query params for listing flights.
type FlightFilter struct {
	Date      string
	Airline   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
