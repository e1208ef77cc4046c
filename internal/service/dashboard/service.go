package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/announcement"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

// latestAnnouncements is how many announcements the personal dashboard shows.
const latestAnnouncements = 3

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	attendanceService   attendance.AttendanceService
	leaveService        leave.LeaveService
	notificationService notification.Service
	announcementService announcement.AnnouncementService
	policy              attendance.Policy
	onlineWindow        time.Duration
	now                 func() time.Time
}

func NewDashboardService(
	repo dashboard.DashboardRepository,
	attendanceService attendance.AttendanceService,
	leaveService leave.LeaveService,
	notificationService notification.Service,
	announcementService announcement.AnnouncementService,
	policy attendance.Policy,
	onlineWindow time.Duration,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		attendanceService:   attendanceService,
		leaveService:        leaveService,
		notificationService: notificationService,
		announcementService: announcementService,
		policy:              policy,
		onlineWindow:        onlineWindow,
		now:                 time.Now,
	}
}

// GetMyDashboard runs every widget in parallel and fails if any of them fails.
func (s *DashboardServiceImpl) GetMyDashboard(ctx context.Context) (dashboard.MeResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return dashboard.MeResponse{}, err
	}

	var resp dashboard.MeResponse
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		today, err := s.attendanceService.GetTodayStatus(gCtx, p.UserID)
		if err != nil {
			return fmt.Errorf("today status: %w", err)
		}
		resp.Today = today
		return nil
	})

	g.Go(func() error {
		summary, err := s.attendanceService.GetMonthlySummary(gCtx, attendance.MonthlyQuery{UserID: p.UserID})
		if err != nil {
			return fmt.Errorf("monthly summary: %w", err)
		}
		resp.Monthly = summary
		return nil
	})

	g.Go(func() error {
		balance, err := s.leaveService.GetBalance(gCtx, p.UserID)
		if err != nil {
			return fmt.Errorf("leave balance: %w", err)
		}
		resp.Balance = balance
		return nil
	})

	g.Go(func() error {
		count, err := s.notificationService.UnreadCount(gCtx, p.UserID)
		if err != nil {
			return fmt.Errorf("unread count: %w", err)
		}
		resp.UnreadCount = count
		return nil
	})

	g.Go(func() error {
		latest, err := s.announcementService.Latest(gCtx, latestAnnouncements)
		if err != nil {
			return fmt.Errorf("announcements: %w", err)
		}
		resp.Announcements = latest
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.MeResponse{}, err
	}
	return resp, nil
}

func (s *DashboardServiceImpl) GetAdminDashboard(ctx context.Context) (dashboard.AdminResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return dashboard.AdminResponse{}, err
	}
	if !p.IsAdmin() {
		return dashboard.AdminResponse{}, user.ErrAdminPrivilegeRequired
	}

	now := s.now()
	workDate := s.policy.WorkDate(now)
	stats, err := s.DashboardRepository.GetAdminStats(ctx, workDate, now.Add(-s.onlineWindow))
	if err != nil {
		return dashboard.AdminResponse{}, fmt.Errorf("failed to load admin stats: %w", err)
	}

	notCheckedIn := stats.UsersActive - stats.CheckedInToday
	if notCheckedIn < 0 {
		notCheckedIn = 0
	}

	return dashboard.AdminResponse{
		Date: workDate.Format(time.DateOnly),
		Users: dashboard.UserCounts{
			Total:    stats.UsersActive + stats.UsersPending + stats.UsersInactive,
			Active:   stats.UsersActive,
			Pending:  stats.UsersPending,
			Inactive: stats.UsersInactive,
		},
		OnlineNow:       stats.OnlineNow,
		CheckedInToday:  stats.CheckedInToday,
		LateToday:       stats.LateToday,
		NotCheckedIn:    notCheckedIn,
		PendingLeave:    stats.PendingLeave,
		PendingDocument: stats.PendingDocument,
	}, nil
}
