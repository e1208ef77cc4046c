package attendance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminID   = "00000000-0000-4000-8000-00000000000a"
	aliceID   = "00000000-0000-4000-8000-0000000000a1"
	bobID     = "00000000-0000-4000-8000-0000000000b0"
	pendingID = "00000000-0000-4000-8000-0000000000c0"
)

var wib = time.FixedZone("WIB", 7*60*60)

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	records map[string]attendance.Attendance
	seq     int

	hidePreCheck bool // simulate a concurrent insert that the pre-check missed
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func (r *fakeAttendanceRepo) find(userID string, workDate time.Time) *attendance.Attendance {
	for _, a := range r.records {
		if a.UserID == userID && a.WorkDate.Equal(workDate) {
			found := a
			return &found
		}
	}
	return nil
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	if r.find(a.UserID, a.WorkDate) != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}
	r.seq++
	a.ID = fmt.Sprintf("00000000-0000-4000-8001-%012d", r.seq)
	r.records[a.ID] = a
	return a, nil
}

func (r *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	a, ok := r.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *fakeAttendanceRepo) GetByUserAndDate(ctx context.Context, userID string, workDate time.Time) (*attendance.Attendance, error) {
	if r.hidePreCheck {
		return nil, nil
	}
	return r.find(userID, workDate), nil
}

func (r *fakeAttendanceRepo) ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, a := range r.records {
		if a.UserID == userID && !a.WorkDate.Before(from) && a.WorkDate.Before(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) ListByDate(ctx context.Context, workDate time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, a := range r.records {
		if a.WorkDate.Equal(workDate) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) SetCheckOut(ctx context.Context, id string, at time.Time) (attendance.Attendance, error) {
	a, ok := r.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	if a.CheckOut != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	a.CheckOut = &at
	r.records[id] = a
	return a, nil
}

type fakeUserRepo struct {
	user.UserRepository
	users       map[string]user.User
	activityErr error
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) ListAll(ctx context.Context) ([]user.User, error) {
	return []user.User{r.users[adminID], r.users[aliceID], r.users[bobID], r.users[pendingID]}, nil
}

func (r *fakeUserRepo) UpdateActivity(ctx context.Context, id string, lastActive time.Time, isActive *bool) error {
	if r.activityErr != nil {
		return r.activityErr
	}
	u := r.users[id]
	u.LastActive = &lastActive
	if isActive != nil {
		u.IsActive = *isActive
	}
	r.users[id] = u
	return nil
}

type fixture struct {
	svc   *AttendanceServiceImpl
	repo  *fakeAttendanceRepo
	users *fakeUserRepo
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	policy, err := attendance.NewPolicy(wib, "09:00")
	require.NoError(t, err)

	f := &fixture{
		repo: newFakeAttendanceRepo(),
		users: &fakeUserRepo{users: map[string]user.User{
			adminID:   {ID: adminID, DisplayName: "Admin", Role: user.RoleAdmin, Status: user.StatusActive},
			aliceID:   {ID: aliceID, DisplayName: "Alice", Role: user.RoleUser, Status: user.StatusActive},
			bobID:     {ID: bobID, DisplayName: "Bob", Role: user.RoleUser, Status: user.StatusActive},
			pendingID: {ID: pendingID, DisplayName: "Pat", Role: user.RoleUser, Status: user.StatusPending},
		}},
		clock: time.Date(2026, 10, 14, 8, 55, 0, 0, wib),
	}
	f.svc = NewAttendanceService(f.repo, f.users, policy, 5*time.Minute).(*AttendanceServiceImpl)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func as(id string, role user.Role) context.Context {
	return user.WithPrincipal(context.Background(), user.Principal{UserID: id, Role: role})
}

func TestCheckIn_ClassifiesAgainstCutoff(t *testing.T) {
	cases := []struct {
		clock string
		want  attendance.Status
	}{
		{"08:55", attendance.StatusPresent},
		{"09:00", attendance.StatusPresent},
		{"09:05", attendance.StatusLate},
	}
	for _, tc := range cases {
		t.Run(tc.clock, func(t *testing.T) {
			f := newFixture(t)
			at, err := time.ParseInLocation("2006-01-02 15:04", "2026-10-14 "+tc.clock, wib)
			require.NoError(t, err)
			f.clock = at

			got, err := f.svc.CheckIn(as(aliceID, user.RoleUser))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Status)
			assert.Equal(t, "2026-10-14", got.WorkDate)
			assert.Equal(t, attendance.StateCheckedIn, got.State)

			u := f.users.users[aliceID]
			assert.True(t, u.IsActive)
			require.NotNil(t, u.LastActive)
			assert.True(t, u.LastActive.Equal(at))
		})
	}
}

func TestCheckIn_OncePerDay(t *testing.T) {
	f := newFixture(t)
	ctx := as(aliceID, user.RoleUser)

	first, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	f.clock = f.clock.Add(8 * time.Hour)
	_, err = f.svc.CheckOut(ctx, attendance.CheckOutRequest{AttendanceID: first.ID})
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	// next local day is a fresh record
	f.clock = time.Date(2026, 10, 15, 8, 0, 0, 0, wib)
	_, err = f.svc.CheckIn(ctx)
	assert.NoError(t, err)
}

func TestCheckIn_ConcurrentDuplicateRejectedByStore(t *testing.T) {
	f := newFixture(t)
	ctx := as(aliceID, user.RoleUser)

	_, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)

	f.repo.hidePreCheck = true
	_, err = f.svc.CheckIn(ctx)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.Len(t, f.repo.records, 1)
}

func TestCheckIn_RefusesInactiveAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(as(pendingID, user.RoleUser))
	assert.ErrorIs(t, err, attendance.ErrAccountNotActive)
	assert.Empty(t, f.repo.records)
}

func TestCheckIn_ActivityFailureKeepsRecord(t *testing.T) {
	f := newFixture(t)
	f.users.activityErr = errors.New("connection reset")

	_, err := f.svc.CheckIn(as(aliceID, user.RoleUser))
	require.Error(t, err)
	assert.Len(t, f.repo.records, 1)
}

func TestCheckOut(t *testing.T) {
	f := newFixture(t)
	alice := as(aliceID, user.RoleUser)

	rec, err := f.svc.CheckIn(alice)
	require.NoError(t, err)

	_, err = f.svc.CheckOut(alice, attendance.CheckOutRequest{AttendanceID: "00000000-0000-4000-8001-999999999999"})
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	_, err = f.svc.CheckOut(as(bobID, user.RoleUser), attendance.CheckOutRequest{AttendanceID: rec.ID})
	assert.ErrorIs(t, err, attendance.ErrNotRecordOwner)

	f.clock = time.Date(2026, 10, 14, 17, 30, 0, 0, wib)
	out, err := f.svc.CheckOut(alice, attendance.CheckOutRequest{AttendanceID: rec.ID})
	require.NoError(t, err)
	assert.Equal(t, attendance.StateCheckedOut, out.State)
	require.NotNil(t, out.CheckOutTime)
	assert.Equal(t, "17:30:00", *out.CheckOutTime)
	assert.False(t, f.users.users[aliceID].IsActive)
	assert.True(t, f.users.users[aliceID].LastActive.Equal(f.clock))

	_, err = f.svc.CheckOut(alice, attendance.CheckOutRequest{AttendanceID: rec.ID})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestGetTodayStatus(t *testing.T) {
	f := newFixture(t)
	alice := as(aliceID, user.RoleUser)

	status, err := f.svc.GetTodayStatus(alice, "")
	require.NoError(t, err)
	assert.Equal(t, attendance.StateNotCheckedIn, status.State)
	assert.Equal(t, "Not Checked In", status.Label)
	assert.Nil(t, status.Attendance)

	rec, err := f.svc.CheckIn(alice)
	require.NoError(t, err)

	status, err = f.svc.GetTodayStatus(alice, aliceID)
	require.NoError(t, err)
	assert.Equal(t, "Checked In", status.Label)
	require.NotNil(t, status.Attendance)
	assert.Equal(t, rec.ID, status.Attendance.ID)

	_, err = f.svc.CheckOut(alice, attendance.CheckOutRequest{AttendanceID: rec.ID})
	require.NoError(t, err)

	status, err = f.svc.GetTodayStatus(as(adminID, user.RoleAdmin), aliceID)
	require.NoError(t, err)
	assert.Equal(t, "Checked Out", status.Label)

	_, err = f.svc.GetTodayStatus(as(bobID, user.RoleUser), aliceID)
	assert.ErrorIs(t, err, user.ErrForbidden)
}

func TestGetMonthlySummary(t *testing.T) {
	f := newFixture(t)

	// October 2026 has 22 weekdays; seed 10 present and 4 late.
	day := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 14; i++ {
		status := attendance.StatusPresent
		if i >= 10 {
			status = attendance.StatusLate
		}
		f.repo.records[fmt.Sprintf("oct-%d", i)] = attendance.Attendance{
			ID: fmt.Sprintf("oct-%d", i), UserID: aliceID, WorkDate: day.AddDate(0, 0, i), Status: status,
		}
	}
	// outside the month
	f.repo.records["sep"] = attendance.Attendance{ID: "sep", UserID: aliceID, WorkDate: time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), Status: attendance.StatusPresent}

	got, err := f.svc.GetMonthlySummary(as(aliceID, user.RoleUser), attendance.MonthlyQuery{})
	require.NoError(t, err)
	assert.Equal(t, "2026-10", got.Month)
	assert.Equal(t, 22, got.TotalDays)
	assert.Equal(t, 10, got.PresentDays)
	assert.Equal(t, 4, got.LateDays)
	assert.Equal(t, 8, got.AbsentDays)
	assert.Equal(t, 64, got.Percentage)

	september := "2026-09"
	got, err = f.svc.GetMonthlySummary(as(adminID, user.RoleAdmin), attendance.MonthlyQuery{UserID: aliceID, Month: &september})
	require.NoError(t, err)
	assert.Equal(t, "2026-09", got.Month)
	assert.Equal(t, 1, got.PresentDays)

	_, err = f.svc.GetMonthlySummary(as(bobID, user.RoleUser), attendance.MonthlyQuery{UserID: aliceID})
	assert.ErrorIs(t, err, user.ErrForbidden)
}

func TestGetTodaySheet(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(as(aliceID, user.RoleUser))
	require.NoError(t, err)
	f.clock = time.Date(2026, 10, 14, 9, 20, 0, 0, wib)
	_, err = f.svc.CheckIn(as(bobID, user.RoleUser))
	require.NoError(t, err)

	_, err = f.svc.GetTodaySheet(as(aliceID, user.RoleUser))
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)

	sheet, err := f.svc.GetTodaySheet(as(adminID, user.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, "2026-10-14", sheet.Date)
	assert.Equal(t, 2, sheet.CheckedIn)
	assert.Equal(t, 0, sheet.CheckedOut)
	assert.Equal(t, 1, sheet.Late)
	require.Len(t, sheet.Entries, 4)

	byID := map[string]attendance.TodaySheetEntry{}
	for _, e := range sheet.Entries {
		byID[e.UserID] = e
	}
	assert.Equal(t, attendance.StateNotCheckedIn, byID[adminID].State)
	assert.False(t, byID[adminID].Online)
	assert.Equal(t, attendance.StateCheckedIn, byID[bobID].State)
	assert.True(t, byID[bobID].Online)
	assert.False(t, byID[aliceID].Online, "alice checked in 25 minutes ago")
}
