package models

import "time"

// Run groups the flights flown by one aircraft (keyed by registration) for a
// (date, airline) scope. Runs are replaced wholesale on every regeneration,
// never patched.
type Run struct {
	ID           string    `db:"id" json:"id"`
	Date         string    `db:"date" json:"date"`
	Airline      string    `db:"airline" json:"airline"`
	Registration string    `db:"registration" json:"registration"`
	Label        *string   `db:"label" json:"label,omitempty"`
	StartTime    time.Time `db:"start_time" json:"start_time"`
	EndTime      time.Time `db:"end_time" json:"end_time"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// RunFlight links a Run to a Flight at a position in the run. SequenceIndex is
// the 0-based departure order; Position is the legacy ordering column kept for
// rows imported before sequence_index existed.
type RunFlight struct {
	ID            string  `db:"id" json:"id"`
	RunID         string  `db:"run_id" json:"run_id"`
	FlightID      string  `db:"flight_id" json:"flight_id"`
	SequenceIndex *int    `db:"sequence_index" json:"sequence_index,omitempty"`
	Position      *int    `db:"position" json:"position,omitempty"`
	Status        *string `db:"status" json:"status,omitempty"`
	PlannedTime   *string `db:"planned_time" json:"planned_time,omitempty"`
}

// OrderIndex resolves the effective ordering of a run flight: sequence_index
// when set, otherwise the legacy position column.
func (rf *RunFlight) OrderIndex() int {
	if rf.SequenceIndex != nil {
		return *rf.SequenceIndex
	}
	if rf.Position != nil {
		return *rf.Position
	}
	return 0
}
