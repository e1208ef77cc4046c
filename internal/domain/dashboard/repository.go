package dashboard

import (
	"context"
	"time"
)

// AdminStats are the raw counters behind the admin dashboard.
type AdminStats struct {
	UsersActive     int64
	UsersPending    int64
	UsersInactive   int64
	OnlineNow       int64
	CheckedInToday  int64
	LateToday       int64
	PendingLeave    int64
	PendingDocument int64
}

type DashboardRepository interface {
	// GetAdminStats counts for workDate; users with last_active after onlineSince are online.
	GetAdminStats(ctx context.Context, workDate time.Time, onlineSince time.Time) (AdminStats, error)
}
