package dashboard

import (
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/announcement"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/leave"
)

// ========== USER DASHBOARD ==========

// MeResponse is the combined response for the signed-in user's dashboard
type MeResponse struct {
	Today         attendance.TodayStatusResponse      `json:"today"`
	Monthly       attendance.Summary                  `json:"monthly"`
	Balance       leave.BalanceResponse               `json:"balance"`
	UnreadCount   int                                 `json:"unread_notifications"`
	Announcements []announcement.AnnouncementResponse `json:"announcements"`
}

// ========== ADMIN DASHBOARD ==========

type AdminResponse struct {
	Date  string     `json:"date"`
	Users UserCounts `json:"users"`

	OnlineNow       int64 `json:"online_now"`
	CheckedInToday  int64 `json:"checked_in_today"`
	LateToday       int64 `json:"late_today"`
	NotCheckedIn    int64 `json:"not_checked_in"`
	PendingLeave    int64 `json:"pending_leave_requests"`
	PendingDocument int64 `json:"pending_document_requests"`
}

type UserCounts struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Pending  int64 `json:"pending"`
	Inactive int64 `json:"inactive"`
}
