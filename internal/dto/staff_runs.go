package dto

// GenerateStaffRunsRequest scopes one staff-run assignment pass.
type GenerateStaffRunsRequest struct {
	Date    string `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	Airline string `json:"airline" form:"airline" validate:"required"`
}

// GenerateStaffRunsResponse summarizes a completed assignment pass.
type GenerateStaffRunsResponse struct {
	StaffRunsCreated  int `json:"staff_runs_created"`
	FlightsAssigned   int `json:"flights_assigned"`
	FlightsUnassigned int `json:"flights_unassigned"`
}

// StaffRunJobView is one assigned job in a staff run listing.
type StaffRunJobView struct {
	Sequence     int    `json:"sequence"`
	FlightID     string `json:"flight_id"`
	FlightNumber string `json:"flight_number"`
	ETDLocal     string `json:"etd_local"`
}

// StaffRunView is one staff member's run with its jobs in assignment order.
type StaffRunView struct {
	ID         string            `json:"id"`
	StaffID    string            `json:"staff_id"`
	StaffCode  string            `json:"staff_code"`
	StaffName  string            `json:"staff_name"`
	ShiftStart string            `json:"shift_start"`
	ShiftEnd   string            `json:"shift_end"`
	Jobs       []StaffRunJobView `json:"jobs"`
}

// UnassignedFlightView is an eligible flight no shift could take.
type UnassignedFlightView struct {
	FlightID     string `json:"flight_id"`
	FlightNumber string `json:"flight_number"`
	ETDLocal     string `json:"etd_local"`
}

// StaffRunListResponse is the getStaffRuns payload.
type StaffRunListResponse struct {
	Runs       []StaffRunView         `json:"runs"`
	Unassigned []UnassignedFlightView `json:"unassigned"`
}
