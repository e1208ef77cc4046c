package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

type fakeAbsentees struct {
	ids   []string
	err   error
	calls int
}

func (f *fakeAbsentees) ListActiveUsersWithoutRecord(_ context.Context, _ time.Time) ([]string, error) {
	f.calls++
	return f.ids, f.err
}

type fakeNotifier struct {
	mu   sync.Mutex
	reqs []notification.CreateNotificationRequest
}

func (f *fakeNotifier) QueueBulkNotification(_ context.Context, reqs []notification.CreateNotificationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, reqs...)
	return nil
}

func testPolicy(t *testing.T) attendance.Policy {
	t.Helper()
	p, err := attendance.NewPolicy(wib, "09:00")
	require.NoError(t, err)
	return p
}

func TestShouldRemindWindow(t *testing.T) {
	p := testPolicy(t)
	wednesday := func(h, m int) time.Time { return time.Date(2026, 10, 14, h, m, 0, 0, wib) }

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"too early", wednesday(8, 29), false},
		{"window opens", wednesday(8, 30), true},
		{"inside window", wednesday(8, 45), true},
		{"at cutoff", wednesday(9, 0), true},
		{"after cutoff", wednesday(9, 1), false},
		{"saturday", time.Date(2026, 10, 17, 8, 45, 0, 0, wib), false},
		{"sunday", time.Date(2026, 10, 18, 8, 45, 0, 0, wib), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldRemind(tt.now, p, time.Time{}))
		})
	}

	sentToday := p.WorkDate(wednesday(8, 40))
	assert.False(t, shouldRemind(wednesday(8, 50), p, sentToday))
	assert.True(t, shouldRemind(time.Date(2026, 10, 15, 8, 50, 0, 0, wib), p, sentToday))
}

func TestSendCheckInRemindersOncePerDay(t *testing.T) {
	repo := &fakeAbsentees{ids: []string{"u1", "u2"}}
	notifier := &fakeNotifier{}
	j := &ReminderJobs{attendanceRepo: repo, notificationSvc: notifier, policy: testPolicy(t)}

	now := time.Date(2026, 10, 14, 8, 40, 0, 0, wib)
	j.now = func() time.Time { return now }

	require.NoError(t, j.SendCheckInReminders(context.Background()))
	now = now.Add(10 * time.Minute)
	require.NoError(t, j.SendCheckInReminders(context.Background()))

	assert.Equal(t, 1, repo.calls)
	require.Len(t, notifier.reqs, 2)
	assert.Equal(t, "u1", notifier.reqs[0].UserID)
	assert.Equal(t, notification.TypeCheckInReminder, notifier.reqs[0].Type)
	assert.Contains(t, notifier.reqs[0].Message, "09:00")
}

func TestSendCheckInRemindersRetriesAfterFailure(t *testing.T) {
	repo := &fakeAbsentees{err: errors.New("db down")}
	notifier := &fakeNotifier{}
	j := &ReminderJobs{attendanceRepo: repo, notificationSvc: notifier, policy: testPolicy(t)}
	j.now = func() time.Time { return time.Date(2026, 10, 14, 8, 40, 0, 0, wib) }

	assert.Error(t, j.SendCheckInReminders(context.Background()))

	repo.err = nil
	repo.ids = []string{"u1"}
	require.NoError(t, j.SendCheckInReminders(context.Background()))
	assert.Len(t, notifier.reqs, 1)
}

func TestSendCheckInRemindersOutsideWindowDoesNothing(t *testing.T) {
	repo := &fakeAbsentees{ids: []string{"u1"}}
	j := &ReminderJobs{attendanceRepo: repo, notificationSvc: &fakeNotifier{}, policy: testPolicy(t)}
	j.now = func() time.Time { return time.Date(2026, 10, 14, 10, 0, 0, 0, wib) }

	require.NoError(t, j.SendCheckInReminders(context.Background()))
	assert.Zero(t, repo.calls)
}
