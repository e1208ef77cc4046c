package dashboard

import "context"

type DashboardService interface {
	// GetMyDashboard aggregates the caller's widgets concurrently
	GetMyDashboard(ctx context.Context) (MeResponse, error)

	// GetAdminDashboard is admin only
	GetAdminDashboard(ctx context.Context) (AdminResponse, error)
}
