package dto

// GenerateRunsRequest scopes one run-generation pass.
type GenerateRunsRequest struct {
	Date    string `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	Airline string `json:"airline" form:"airline" validate:"required"`
}

// GenerateRunsResponse summarizes a completed run-generation pass.
type GenerateRunsResponse struct {
	RunsCreated     int `json:"runs_created"`
	FlightsAssigned int `json:"flights_assigned"`
}

// RunFlightView is one flight within a run listing.
type RunFlightView struct {
	FlightID      string  `json:"flight_id"`
	FlightNumber  string  `json:"flight_number"`
	ETDLocal      string  `json:"etd_local"`
	SequenceIndex int     `json:"sequence_index"`
	Status        *string `json:"status,omitempty"`
}

// RunView is one run with its ordered flights.
type RunView struct {
	ID           string          `json:"id"`
	Date         string          `json:"date"`
	Airline      string          `json:"airline"`
	Registration string          `json:"registration"`
	Label        *string         `json:"label,omitempty"`
	StartTime    string          `json:"start_time"`
	EndTime      string          `json:"end_time"`
	Flights      []RunFlightView `json:"flights"`
}

// RunListResponse is the getRuns payload.
type RunListResponse struct {
	Runs []RunView `json:"runs"`
}
