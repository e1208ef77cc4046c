package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts a record; a second record for the same user and work date
	// fails with ErrAlreadyCheckedIn.
	Create(ctx context.Context, a Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndDate returns nil when the user has no record for workDate.
	GetByUserAndDate(ctx context.Context, userID string, workDate time.Time) (*Attendance, error)

	// ListByUserBetween returns records with from <= work_date < to.
	ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]Attendance, error)

	List(ctx context.Context, filter HistoryFilter) ([]Attendance, int64, error)
	ListByDate(ctx context.Context, workDate time.Time) ([]Attendance, error)

	// SetCheckOut closes an open record; ErrAlreadyCheckedOut when it was already closed.
	SetCheckOut(ctx context.Context, id string, at time.Time) (Attendance, error)

	// ListActiveUsersWithoutRecord returns ids of active users not checked in on workDate.
	ListActiveUsersWithoutRecord(ctx context.Context, workDate time.Time) ([]string, error)
}
