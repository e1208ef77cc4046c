package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetMyDashboard returns the signed-in user's widgets
	GetMyDashboard(w http.ResponseWriter, r *http.Request)
	// GetAdminDashboard returns organisation-wide counters
	GetAdminDashboard(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetMyDashboard handles GET /dashboard/me
func (h *dashboardHandlerImpl) GetMyDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetMyDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetAdminDashboard handles GET /dashboard/admin
func (h *dashboardHandlerImpl) GetAdminDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetAdminDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
