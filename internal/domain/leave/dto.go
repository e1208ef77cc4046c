package leave

import (
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
)

// ========================================
// BALANCE DTOs
// ========================================

type BalanceResponse struct {
	UserID         string    `json:"user_id"`
	SickLeave      int       `json:"sick_leave"`
	AnnualLeave    int       `json:"annual_leave"`
	EmergencyLeave int       `json:"emergency_leave"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		UserID:         b.UserID,
		SickLeave:      b.SickLeave,
		AnnualLeave:    b.AnnualLeave,
		EmergencyLeave: b.EmergencyLeave,
		UpdatedAt:      b.UpdatedAt,
	}
}

type UpdateBalanceRequest struct {
	UserID         string `json:"-"`
	SickLeave      *int   `json:"sick_leave"`
	AnnualLeave    *int   `json:"annual_leave"`
	EmergencyLeave *int   `json:"emergency_leave"`
}

func (r *UpdateBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.SickLeave == nil && r.AnnualLeave == nil && r.EmergencyLeave == nil {
		errs.Add("body", "at least one balance must be provided")
	}
	if r.SickLeave != nil && *r.SickLeave < 0 {
		errs.Add("sick_leave", "sick_leave must not be negative")
	}
	if r.AnnualLeave != nil && *r.AnnualLeave < 0 {
		errs.Add("annual_leave", "annual_leave must not be negative")
	}
	if r.EmergencyLeave != nil && *r.EmergencyLeave < 0 {
		errs.Add("emergency_leave", "emergency_leave must not be negative")
	}

	return errs.Err()
}

// Apply overwrites the provided fields of b.
func (r *UpdateBalanceRequest) Apply(b Balance) Balance {
	if r.SickLeave != nil {
		b.SickLeave = *r.SickLeave
	}
	if r.AnnualLeave != nil {
		b.AnnualLeave = *r.AnnualLeave
	}
	if r.EmergencyLeave != nil {
		b.EmergencyLeave = *r.EmergencyLeave
	}
	return b
}

// ========================================
// REQUEST DTOs
// ========================================

type SubmitLeaveRequest struct {
	LeaveType    LeaveType `json:"leave_type"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	NumberOfDays *int      `json:"number_of_days"`
	Reason       string    `json:"reason"`

	start time.Time
	end   time.Time
}

func (r *SubmitLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.LeaveType.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of: sick, annual, emergency",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if !validator.MaxLen(r.Reason, 1000) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	r.start, r.end = start, end
	return nil
}

// Range returns the parsed dates; only meaningful after Validate.
func (r *SubmitLeaveRequest) Range() (time.Time, time.Time) {
	return r.start, r.end
}

// Days is the inclusive day count of the requested range.
func (r *SubmitLeaveRequest) Days() int {
	return InclusiveDays(r.start, r.end)
}

type LeaveRequestResponse struct {
	ID                 string        `json:"id"`
	UserID             string        `json:"user_id"`
	LeaveType          LeaveType     `json:"leave_type"`
	StartDate          string        `json:"start_date"`
	EndDate            string        `json:"end_date"`
	NumberOfDays       int           `json:"number_of_days"`
	Reason             string        `json:"reason"`
	Status             RequestStatus `json:"status"`
	ReportingManagerID *string       `json:"reporting_manager_id"`
	ReviewedBy         *string       `json:"reviewed_by"`
	ReviewedAt         *time.Time    `json:"reviewed_at"`
	ReviewNote         *string       `json:"review_note"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

func NewLeaveRequestResponse(lr LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:                 lr.ID,
		UserID:             lr.UserID,
		LeaveType:          lr.LeaveType,
		StartDate:          lr.StartDate.Format("2006-01-02"),
		EndDate:            lr.EndDate.Format("2006-01-02"),
		NumberOfDays:       lr.NumberOfDays,
		Reason:             lr.Reason,
		Status:             lr.Status,
		ReportingManagerID: lr.ReportingManagerID,
		ReviewedBy:         lr.ReviewedBy,
		ReviewedAt:         lr.ReviewedAt,
		ReviewNote:         lr.ReviewNote,
		CreatedAt:          lr.CreatedAt,
		UpdatedAt:          lr.UpdatedAt,
	}
}

type ListRequestsFilter struct {
	UserID    *string
	ManagerID *string
	Status    *string
	Page      int
	Limit     int
}

func (f *ListRequestsFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Page < 1 {
		errs.Add("page", "page must be at least 1")
	}
	if f.Limit < 1 || f.Limit > 100 {
		errs.Add("limit", "limit must be between 1 and 100")
	}
	if f.Status != nil && !RequestStatus(*f.Status).Valid() {
		errs.Add("status", "status must be one of: pending, approved, rejected")
	}
	if f.UserID != nil && !validator.IsValidUUID(*f.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}

	return errs.Err()
}

type ListLeaveRequestsResponse struct {
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
	Requests   []LeaveRequestResponse `json:"requests"`
}

type ReviewAction string

const (
	ActionApprove ReviewAction = "approve"
	ActionReject  ReviewAction = "reject"
)

// ReviewRequest is shared by leave and document reviews.
type ReviewRequest struct {
	ID     string       `json:"-"`
	Action ReviewAction `json:"action"`
	Note   *string      `json:"note"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Action != ActionApprove && r.Action != ActionReject {
		errs.Add("action", "action must be one of: approve, reject")
	}
	if r.Note != nil && !validator.MaxLen(*r.Note, 500) {
		errs.Add("note", "note must not exceed 500 characters")
	}

	return errs.Err()
}

// Target returns the status the action moves a pending request to.
func (r *ReviewRequest) Target() RequestStatus {
	if r.Action == ActionApprove {
		return StatusApproved
	}
	return StatusRejected
}
