package models

import "time"

// StaffRun is one staff member's sequence of servicing jobs for a
// (date, airline) scope. A StaffRun only exists if at least one job was
// assigned to that shift during generation.
type StaffRun struct {
	ID         string    `db:"id" json:"id"`
	Date       string    `db:"date" json:"date"`
	Airline    string    `db:"airline" json:"airline"`
	StaffID    string    `db:"staff_id" json:"staff_id"`
	ShiftStart time.Time `db:"shift_start" json:"shift_start"`
	ShiftEnd   time.Time `db:"shift_end" json:"shift_end"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// StaffRunJob links a StaffRun to a Flight. Sequence is the 0-based order the
// job was assigned during the greedy pass.
type StaffRunJob struct {
	ID         string `db:"id" json:"id"`
	StaffRunID string `db:"staff_run_id" json:"staff_run_id"`
	FlightID   string `db:"flight_id" json:"flight_id"`
	Sequence   int    `db:"sequence" json:"sequence"`
}
