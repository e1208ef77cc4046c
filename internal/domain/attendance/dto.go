package attendance

import (
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type AttendanceResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	WorkDate     string     `json:"work_date"`
	CheckIn      time.Time  `json:"check_in"`
	CheckInTime  string     `json:"check_in_time"`
	CheckOut     *time.Time `json:"check_out"`
	CheckOutTime *string    `json:"check_out_time"`
	Status       Status     `json:"status"`
	State        State      `json:"state"`
}

// NewAttendanceResponse renders clock times in loc.
func NewAttendanceResponse(a Attendance, loc *time.Location) AttendanceResponse {
	resp := AttendanceResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		WorkDate:    a.WorkDate.Format("2006-01-02"),
		CheckIn:     a.CheckIn,
		CheckInTime: a.CheckIn.In(loc).Format("15:04:05"),
		CheckOut:    a.CheckOut,
		Status:      a.Status,
		State:       StateOf(&a),
	}
	if a.CheckOut != nil {
		out := a.CheckOut.In(loc).Format("15:04:05")
		resp.CheckOutTime = &out
	}
	return resp
}

type TodayStatusResponse struct {
	Date       string              `json:"date"`
	State      State               `json:"state"`
	Label      string              `json:"label"`
	Attendance *AttendanceResponse `json:"attendance"`
}

type CheckOutRequest struct {
	AttendanceID string `json:"attendance_id"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AttendanceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id is required",
		})
	} else if !validator.IsValidUUID(r.AttendanceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlyQuery struct {
	UserID string
	Month  *string // YYYY-MM, defaults to the current month
}

func (q *MonthlyQuery) Validate() error {
	var errs validator.ValidationErrors
	if q.UserID != "" && !validator.IsValidUUID(q.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}
	if q.Month != nil {
		if _, ok := validator.IsValidMonth(*q.Month); !ok {
			errs.Add("month", "month must be in YYYY-MM format")
		}
	}
	return errs.Err()
}

type HistoryFilter struct {
	UserID    string
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = 31
	}
	if f.Page < 1 {
		errs.Add("page", "page must be at least 1")
	}
	if f.Limit < 1 || f.Limit > 100 {
		errs.Add("limit", "limit must be between 1 and 100")
	}
	if f.UserID != "" && !validator.IsValidUUID(f.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}

	var start, end time.Time
	var startOK, endOK bool
	if f.StartDate != nil {
		if start, startOK = validator.IsValidDate(*f.StartDate); !startOK {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil {
		if end, endOK = validator.IsValidDate(*f.EndDate); !endOK {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if startOK && endOK && end.Before(start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	return errs.Err()
}

type ListAttendanceResponse struct {
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
	Records    []AttendanceResponse `json:"records"`
}

// TodaySheetEntry is one row of the admin "who is in" view.
type TodaySheetEntry struct {
	UserID       string     `json:"user_id"`
	DisplayName  string     `json:"display_name"`
	Email        string     `json:"email"`
	Department   *string    `json:"department"`
	State        State      `json:"state"`
	Label        string     `json:"label"`
	Status       *Status    `json:"status"`
	AttendanceID *string    `json:"attendance_id"`
	CheckInTime  *string    `json:"check_in_time"`
	CheckOutTime *string    `json:"check_out_time"`
	LastActive   *time.Time `json:"last_active"`
	Online       bool       `json:"online"`
}

type TodaySheetResponse struct {
	Date       string            `json:"date"`
	CheckedIn  int               `json:"checked_in"`
	CheckedOut int               `json:"checked_out"`
	Late       int               `json:"late"`
	Entries    []TodaySheetEntry `json:"entries"`
}
