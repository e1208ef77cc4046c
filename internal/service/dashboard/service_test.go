package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/announcement"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminID = "11111111-1111-4111-8111-111111111111"
	aliceID = "22222222-2222-4222-8222-222222222222"
)

var wib = time.FixedZone("WIB", 7*3600)

func as(id string, role user.Role) context.Context {
	return user.WithPrincipal(context.Background(), user.Principal{UserID: id, Role: role})
}

type fakeStats struct {
	stats       dashboard.AdminStats
	workDate    time.Time
	onlineSince time.Time
}

func (f *fakeStats) GetAdminStats(ctx context.Context, workDate, onlineSince time.Time) (dashboard.AdminStats, error) {
	f.workDate, f.onlineSince = workDate, onlineSince
	return f.stats, nil
}

type fakeAttendance struct {
	attendance.AttendanceService
	monthlyErr error
}

func (f *fakeAttendance) GetTodayStatus(ctx context.Context, userID string) (attendance.TodayStatusResponse, error) {
	return attendance.TodayStatusResponse{State: attendance.StateCheckedIn, Label: attendance.StateCheckedIn.Label()}, nil
}

func (f *fakeAttendance) GetMonthlySummary(ctx context.Context, q attendance.MonthlyQuery) (attendance.Summary, error) {
	if f.monthlyErr != nil {
		return attendance.Summary{}, f.monthlyErr
	}
	return attendance.Summary{Month: "2026-10", PresentDays: 5}, nil
}

type fakeLeave struct{ leave.LeaveService }

func (fakeLeave) GetBalance(ctx context.Context, userID string) (leave.BalanceResponse, error) {
	return leave.BalanceResponse{UserID: userID, AnnualLeave: 12}, nil
}

type fakeNotifications struct{ notification.Service }

func (fakeNotifications) UnreadCount(ctx context.Context, userID string) (int, error) {
	return 4, nil
}

type fakeAnnouncements struct {
	announcement.AnnouncementService
	asked int
}

func (f *fakeAnnouncements) Latest(ctx context.Context, n int) ([]announcement.AnnouncementResponse, error) {
	f.asked = n
	return []announcement.AnnouncementResponse{{ID: "a1", Title: "Office closed"}}, nil
}

func newService(t *testing.T, stats *fakeStats, att *fakeAttendance, ann *fakeAnnouncements) *DashboardServiceImpl {
	t.Helper()
	policy, err := attendance.NewPolicy(wib, "09:00")
	require.NoError(t, err)
	svc := NewDashboardService(stats, att, fakeLeave{}, fakeNotifications{}, ann, policy, 5*time.Minute).(*DashboardServiceImpl)
	svc.now = func() time.Time { return time.Date(2026, 10, 14, 1, 30, 0, 0, wib) }
	return svc
}

func TestGetMyDashboard(t *testing.T) {
	ann := &fakeAnnouncements{}
	svc := newService(t, &fakeStats{}, &fakeAttendance{}, ann)

	resp, err := svc.GetMyDashboard(as(aliceID, user.RoleUser))
	require.NoError(t, err)
	assert.Equal(t, attendance.StateCheckedIn, resp.Today.State)
	assert.Equal(t, 5, resp.Monthly.PresentDays)
	assert.Equal(t, aliceID, resp.Balance.UserID)
	assert.Equal(t, 4, resp.UnreadCount)
	assert.Len(t, resp.Announcements, 1)
	assert.Equal(t, latestAnnouncements, ann.asked)
}

func TestGetMyDashboard_FailsWhenAWidgetFails(t *testing.T) {
	boom := errors.New("db down")
	svc := newService(t, &fakeStats{}, &fakeAttendance{monthlyErr: boom}, &fakeAnnouncements{})

	_, err := svc.GetMyDashboard(as(aliceID, user.RoleUser))
	assert.ErrorIs(t, err, boom)

	_, err = svc.GetMyDashboard(context.Background())
	assert.ErrorIs(t, err, user.ErrMissingPrincipal)
}

func TestGetAdminDashboard(t *testing.T) {
	stats := &fakeStats{stats: dashboard.AdminStats{
		UsersActive:     10,
		UsersPending:    2,
		UsersInactive:   1,
		OnlineNow:       3,
		CheckedInToday:  7,
		LateToday:       2,
		PendingLeave:    4,
		PendingDocument: 1,
	}}
	svc := newService(t, stats, &fakeAttendance{}, &fakeAnnouncements{})

	_, err := svc.GetAdminDashboard(as(aliceID, user.RoleUser))
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)

	resp, err := svc.GetAdminDashboard(as(adminID, user.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, "2026-10-14", resp.Date)
	assert.Equal(t, int64(13), resp.Users.Total)
	assert.Equal(t, int64(3), resp.NotCheckedIn)
	assert.Equal(t, int64(2), resp.LateToday)
	assert.Equal(t, svc.now().Add(-5*time.Minute), stats.onlineSince)
	assert.Equal(t, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), stats.workDate)
}

func TestGetAdminDashboard_NotCheckedInFloorsAtZero(t *testing.T) {
	// inactive users who checked in earlier today still count as checked in
	stats := &fakeStats{stats: dashboard.AdminStats{UsersActive: 2, CheckedInToday: 3}}
	svc := newService(t, stats, &fakeAttendance{}, &fakeAnnouncements{})

	resp, err := svc.GetAdminDashboard(as(adminID, user.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.NotCheckedIn)
}
