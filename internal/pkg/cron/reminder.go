package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
)

// ReminderLead is how long before the late cutoff reminders start going out.
const ReminderLead = 30 * time.Minute

type absentees interface {
	ListActiveUsersWithoutRecord(ctx context.Context, workDate time.Time) ([]string, error)
}

type notifier interface {
	QueueBulkNotification(ctx context.Context, reqs []notification.CreateNotificationRequest) error
}

// ReminderJobs nudges active users who have not checked in shortly before the cutoff.
type ReminderJobs struct {
	attendanceRepo  absentees
	notificationSvc notifier
	policy          attendance.Policy
	now             func() time.Time

	mu       sync.Mutex
	lastSent time.Time // work date of the last reminder round
}

func NewReminderJobs(attendanceRepo attendance.AttendanceRepository, notificationSvc notification.Service, policy attendance.Policy) *ReminderJobs {
	return &ReminderJobs{
		attendanceRepo:  attendanceRepo,
		notificationSvc: notificationSvc,
		policy:          policy,
		now:             time.Now,
	}
}

func (j *ReminderJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("checkin_reminder", 10*time.Minute, j.SendCheckInReminders)
}

// shouldRemind is true on weekdays inside [cutoff-ReminderLead, cutoff] when
// no round has been sent for today yet.
func shouldRemind(now time.Time, policy attendance.Policy, lastSent time.Time) bool {
	cutoff := policy.Cutoff(now)
	local := now.In(cutoff.Location())
	if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	if now.Before(cutoff.Add(-ReminderLead)) || now.After(cutoff) {
		return false
	}
	return !lastSent.Equal(policy.WorkDate(now))
}

func (j *ReminderJobs) SendCheckInReminders(ctx context.Context) error {
	now := j.now()

	j.mu.Lock()
	if !shouldRemind(now, j.policy, j.lastSent) {
		j.mu.Unlock()
		return nil
	}
	workDate := j.policy.WorkDate(now)
	j.lastSent = workDate
	j.mu.Unlock()

	userIDs, err := j.attendanceRepo.ListActiveUsersWithoutRecord(ctx, workDate)
	if err != nil {
		j.mu.Lock()
		j.lastSent = time.Time{}
		j.mu.Unlock()
		return fmt.Errorf("failed to list users without attendance: %w", err)
	}
	if len(userIDs) == 0 {
		return nil
	}

	cutoff := j.policy.Cutoff(now).Format("15:04")
	reqs := make([]notification.CreateNotificationRequest, 0, len(userIDs))
	for _, id := range userIDs {
		reqs = append(reqs, notification.CreateNotificationRequest{
			UserID:  id,
			Type:    notification.TypeCheckInReminder,
			Title:   "Don't forget to check in",
			Message: fmt.Sprintf("Check in before %s to be marked present.", cutoff),
		})
	}

	if err := j.notificationSvc.QueueBulkNotification(ctx, reqs); err != nil {
		return fmt.Errorf("failed to queue reminders: %w", err)
	}
	slog.Info("Cron: check-in reminders queued", "count", len(reqs), "work_date", workDate.Format("2006-01-02"))
	return nil
}
