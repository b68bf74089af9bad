package models

import "time"

// RoleOperator marks roster entries eligible for staff-run assignment.
const RoleOperator = "operator"

// Staff is a ground-operations employee. Code is the canonical identifier used
// everywhere a human-readable handle is needed; ID is only for foreign keys.
type Staff struct {
	ID             string    `db:"id" json:"id"`
	Code           string    `db:"code" json:"code"`
	Name           string    `db:"name" json:"name"`
	EmploymentType string    `db:"employment_type" json:"employment_type"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// StaffFilter describes query params for listing staff.
type StaffFilter struct {
	Active   *bool
	Page     int
	PageSize int
}

// RosterEntry is one row of the weekly roster template: a staff member is on
// duty every week on Weekday (1=Monday .. 7=Sunday) between StartTime and
// EndTime (local "HH:MM").
type RosterEntry struct {
	ID        string    `db:"id" json:"id"`
	StaffID   string    `db:"staff_id" json:"staff_id"`
	Weekday   int       `db:"weekday" json:"weekday"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RosterShift is a roster entry materialized for one calendar date, joined with
// the staff record. Start/End are absolute instants in the airport timezone.
type RosterShift struct {
	StaffID   string    `db:"staff_id" json:"staff_id"`
	StaffCode string    `db:"staff_code" json:"staff_code"`
	StaffName string    `db:"staff_name" json:"staff_name"`
	Role      string    `db:"role" json:"role"`
	StartRaw  string    `db:"start_time" json:"-"`
	EndRaw    string    `db:"end_time" json:"-"`
	Start     time.Time `db:"-" json:"start"`
	End       time.Time `db:"-" json:"end"`
}
