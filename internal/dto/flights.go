package dto

// FlightRecord is one raw flight as produced by the schedule scraper or a
// manual create. Times are RFC3339 with the airport offset; empty fields stay
// unknown.
type FlightRecord struct {
	FlightNumber       string `json:"flight_number" validate:"required"`
	Airline            string `json:"airline"`
	Date               string `json:"date" validate:"required,datetime=2006-01-02"`
	Registration       string `json:"registration"`
	ScheduledDeparture string `json:"scheduled_departure"`
	ScheduledArrival   string `json:"scheduled_arrival"`
}

// ImportFlightsRequest is the bulk upsert payload for a day of scraped flights.
type ImportFlightsRequest struct {
	Flights []FlightRecord `json:"flights" validate:"required,min=1,dive"`
}

// ImportFlightsResponse reports the outcome of a bulk import.
type ImportFlightsResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
