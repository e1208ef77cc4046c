package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

func (r *dashboardRepositoryImpl) GetAdminStats(ctx context.Context, workDate time.Time, onlineSince time.Time) (dashboard.AdminStats, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE status = 'active'),
			(SELECT COUNT(*) FROM users WHERE status = 'pending'),
			(SELECT COUNT(*) FROM users WHERE status = 'inactive'),
			(SELECT COUNT(*) FROM users WHERE last_active > $2),
			(SELECT COUNT(*) FROM attendances WHERE work_date = $1),
			(SELECT COUNT(*) FROM attendances WHERE work_date = $1 AND status = 'Late'),
			(SELECT COUNT(*) FROM leave_requests WHERE status = 'pending'),
			(SELECT COUNT(*) FROM document_requests WHERE status = 'pending')`

	var s dashboard.AdminStats
	err := q.QueryRow(ctx, query, workDate, onlineSince).Scan(
		&s.UsersActive,
		&s.UsersPending,
		&s.UsersInactive,
		&s.OnlineNow,
		&s.CheckedInToday,
		&s.LateToday,
		&s.PendingLeave,
		&s.PendingDocument,
	)
	if err != nil {
		return dashboard.AdminStats{}, fmt.Errorf("failed to get admin stats: %w", err)
	}
	return s, nil
}
