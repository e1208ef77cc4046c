package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	userRepo     user.UserRepository
	policy       attendance.Policy
	onlineWindow time.Duration
	now          func() time.Time
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	userRepository user.UserRepository,
	policy attendance.Policy,
	onlineWindow time.Duration,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		userRepo:             userRepository,
		policy:               policy,
		onlineWindow:         onlineWindow,
		now:                  time.Now,
	}
}

func (s *AttendanceServiceImpl) loc() *time.Location {
	if s.policy.Location == nil {
		return time.Local
	}
	return s.policy.Location
}

// resolveTarget defaults an empty target to the caller and applies the self-or-admin gate.
func resolveTarget(ctx context.Context, targetID string) (string, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return "", err
	}
	if targetID == "" {
		return p.UserID, nil
	}
	if err := user.AuthorizePrincipal(p, targetID); err != nil {
		return "", err
	}
	return targetID, nil
}

// GetTodayStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, userID string) (attendance.TodayStatusResponse, error) {
	if userID != "" && !validator.IsValidUUID(userID) {
		var errs validator.ValidationErrors
		errs.Add("user_id", "user_id must be a valid UUID")
		return attendance.TodayStatusResponse{}, errs
	}
	target, err := resolveTarget(ctx, userID)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	now := s.now()
	workDate := s.policy.WorkDate(now)

	record, err := s.AttendanceRepository.GetByUserAndDate(ctx, target, workDate)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	state := attendance.StateOf(record)
	resp := attendance.TodayStatusResponse{
		Date:  workDate.Format("2006-01-02"),
		State: state,
		Label: state.Label(),
	}
	if record != nil {
		r := attendance.NewAttendanceResponse(*record, s.loc())
		resp.Attendance = &r
	}
	return resp, nil
}

// CheckIn implements attendance.AttendanceService. If the activity update
// fails after the insert the record stays and the error is returned.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context) (attendance.AttendanceResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	u, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !u.CanClock() {
		return attendance.AttendanceResponse{}, attendance.ErrAccountNotActive
	}

	now := s.now()
	workDate := s.policy.WorkDate(now)

	existing, err := s.AttendanceRepository.GetByUserAndDate(ctx, u.ID, workDate)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	// the unique (user_id, work_date) index still rejects a concurrent duplicate
	created, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
		UserID:   u.ID,
		WorkDate: workDate,
		CheckIn:  now,
		Status:   s.policy.Classify(now),
	})
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	active := true
	if err := s.userRepo.UpdateActivity(ctx, u.ID, now, &active); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update user activity: %w", err)
	}

	return attendance.NewAttendanceResponse(created, s.loc()), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	u, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !u.CanClock() {
		return attendance.AttendanceResponse{}, attendance.ErrAccountNotActive
	}

	record, err := s.AttendanceRepository.GetByID(ctx, req.AttendanceID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if record.UserID != u.ID {
		return attendance.AttendanceResponse{}, attendance.ErrNotRecordOwner
	}
	if record.CheckOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	now := s.now()
	updated, err := s.AttendanceRepository.SetCheckOut(ctx, record.ID, now)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check out: %w", err)
	}

	active := false
	if err := s.userRepo.UpdateActivity(ctx, u.ID, now, &active); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update user activity: %w", err)
	}

	return attendance.NewAttendanceResponse(updated, s.loc()), nil
}

// GetMonthlySummary implements attendance.AttendanceService. A month in the
// past is summarized as of its last instant.
func (s *AttendanceServiceImpl) GetMonthlySummary(ctx context.Context, q attendance.MonthlyQuery) (attendance.Summary, error) {
	if err := q.Validate(); err != nil {
		return attendance.Summary{}, err
	}
	target, err := resolveTarget(ctx, q.UserID)
	if err != nil {
		return attendance.Summary{}, err
	}

	asOf := s.now()
	if q.Month != nil {
		month, _ := validator.IsValidMonth(*q.Month)
		start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, s.loc())
		end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
		if end.Before(asOf) {
			asOf = end
		} else if start.After(asOf) {
			asOf = start
		}
	}

	start, next := attendance.MonthBounds(asOf, s.loc())
	records, err := s.AttendanceRepository.ListByUserBetween(ctx, target,
		attendance.CivilDate(start, s.loc()), attendance.CivilDate(next, s.loc()))
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to list monthly attendance: %w", err)
	}

	return attendance.MonthlySummary(records, asOf, s.loc()), nil
}

// GetHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetHistory(ctx context.Context, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	target, err := resolveTarget(ctx, filter.UserID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	filter.UserID = target

	records, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.NewAttendanceResponse(r, s.loc()))
	}

	return attendance.ListAttendanceResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Records:    responses,
	}, nil
}

// GetTodaySheet implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetTodaySheet(ctx context.Context) (attendance.TodaySheetResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.TodaySheetResponse{}, err
	}
	if !p.IsAdmin() {
		return attendance.TodaySheetResponse{}, user.ErrAdminPrivilegeRequired
	}

	now := s.now()
	workDate := s.policy.WorkDate(now)

	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return attendance.TodaySheetResponse{}, fmt.Errorf("failed to list users: %w", err)
	}
	records, err := s.AttendanceRepository.ListByDate(ctx, workDate)
	if err != nil {
		return attendance.TodaySheetResponse{}, fmt.Errorf("failed to list today's attendance: %w", err)
	}

	byUser := make(map[string]attendance.Attendance, len(records))
	for _, r := range records {
		byUser[r.UserID] = r
	}

	sheet := attendance.TodaySheetResponse{
		Date:    workDate.Format("2006-01-02"),
		Entries: make([]attendance.TodaySheetEntry, 0, len(users)),
	}
	for _, u := range users {
		entry := attendance.TodaySheetEntry{
			UserID:      u.ID,
			DisplayName: u.DisplayName,
			Email:       u.Email,
			Department:  u.Department,
			State:       attendance.StateNotCheckedIn,
			LastActive:  u.LastActive,
			Online:      attendance.IsActive(u.LastActive, now, s.onlineWindow),
		}
		if r, ok := byUser[u.ID]; ok {
			rendered := attendance.NewAttendanceResponse(r, s.loc())
			status := r.Status
			entry.State = rendered.State
			entry.Status = &status
			entry.AttendanceID = &rendered.ID
			entry.CheckInTime = &rendered.CheckInTime
			entry.CheckOutTime = rendered.CheckOutTime

			sheet.CheckedIn++
			if r.CheckOut != nil {
				sheet.CheckedOut++
			}
			if r.Status == attendance.StatusLate {
				sheet.Late++
			}
		}
		entry.Label = entry.State.Label()
		sheet.Entries = append(sheet.Entries, entry)
	}

	return sheet, nil
}
