package leave

import "time"

type LeaveType string

const (
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypeAnnual    LeaveType = "annual"
	LeaveTypeEmergency LeaveType = "emergency"
)

func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypeSick, LeaveTypeAnnual, LeaveTypeEmergency:
		return true
	}
	return false
}

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Balance holds the remaining days per leave type for one user.
type Balance struct {
	UserID         string
	SickLeave      int
	AnnualLeave    int
	EmergencyLeave int
	UpdatedAt      time.Time
}

// Of returns the remaining days for t.
func (b Balance) Of(t LeaveType) int {
	switch t {
	case LeaveTypeSick:
		return b.SickLeave
	case LeaveTypeAnnual:
		return b.AnnualLeave
	case LeaveTypeEmergency:
		return b.EmergencyLeave
	}
	return 0
}

type LeaveRequest struct {
	ID           string
	UserID       string
	LeaveType    LeaveType
	StartDate    time.Time
	EndDate      time.Time
	NumberOfDays int
	Reason       string
	Status       RequestStatus

	// Snapshot of the requester's manager at submission time.
	ReportingManagerID *string

	ReviewedBy *string
	ReviewedAt *time.Time
	ReviewNote *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// InclusiveDays counts calendar days from start to end, both included.
func InclusiveDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}
