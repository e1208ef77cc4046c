package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// GetTodayStatus resolves the state of userID for the current local day
	GetTodayStatus(ctx context.Context, userID string) (TodayStatusResponse, error)

	// CheckIn opens today's record for the caller
	CheckIn(ctx context.Context) (AttendanceResponse, error)

	// CheckOut closes the caller's record
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	GetMonthlySummary(ctx context.Context, q MonthlyQuery) (Summary, error)
	GetHistory(ctx context.Context, filter HistoryFilter) (ListAttendanceResponse, error)

	// GetTodaySheet lists every user with today's state (admin)
	GetTodaySheet(ctx context.Context) (TodaySheetResponse, error)
}
