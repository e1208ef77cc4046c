package attendance

import "time"

type Status string

const (
	StatusPresent Status = "Present"
	StatusLate    Status = "Late"
	StatusAbsent  Status = "Absent"
)

type Attendance struct {
	ID     string
	UserID string

	// WorkDate is the local calendar day of the check-in, stored as midnight UTC.
	WorkDate time.Time

	CheckIn   time.Time
	CheckOut  *time.Time
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// State derives the day state of a record; a nil record means not checked in.
func (a *Attendance) State() State {
	return StateOf(a)
}
