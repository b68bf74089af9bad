package dto

// CreateStaffRequest creates a staff member.
type CreateStaffRequest struct {
	Code           string `json:"code" validate:"required"`
	Name           string `json:"name" validate:"required"`
	EmploymentType string `json:"employment_type"`
}

// UpdateStaffRequest updates mutable staff fields.
type UpdateStaffRequest struct {
	Name           *string `json:"name"`
	EmploymentType *string `json:"employment_type"`
	Active         *bool   `json:"active"`
}

// CreateRosterEntryRequest adds one weekly template row.
type CreateRosterEntryRequest struct {
	StaffID   string `json:"staff_id" validate:"required"`
	Weekday   int    `json:"weekday" validate:"required,min=1,max=7"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
	Role      string `json:"role" validate:"required"`
}
