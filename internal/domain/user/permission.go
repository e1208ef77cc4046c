package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditOwnProfile Permission = "profile.edit_own"

	// Attendance
	PermissionAttendanceOwn     Permission = "attendance.own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"

	// Leave & documents
	PermissionRequestCreate   Permission = "request.create"
	PermissionRequestViewAll  Permission = "request.view_all"
	PermissionRequestReview   Permission = "request.review"
	PermissionBalanceManage   Permission = "leave.balance_manage"
	PermissionAnnouncementPub Permission = "announcement.publish"

	// Directory
	PermissionUserViewAll Permission = "user.view_all"
	PermissionUserManage  Permission = "user.manage"

	// Dashboards
	PermissionDashboardAdmin Permission = "dashboard.admin"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionAttendanceOwn,
		PermissionAttendanceViewAll,
		PermissionRequestCreate,
		PermissionRequestViewAll,
		PermissionRequestReview,
		PermissionBalanceManage,
		PermissionAnnouncementPub,
		PermissionUserViewAll,
		PermissionUserManage,
		PermissionDashboardAdmin,
	},
	RoleUser: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionAttendanceOwn,
		PermissionRequestCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// Authorize allows a caller to act on targetID when it is their own record
// or when they are an admin.
func Authorize(callerID string, callerRole Role, targetID string) error {
	if callerID != "" && callerID == targetID {
		return nil
	}
	if callerRole == RoleAdmin {
		return nil
	}
	return ErrForbidden
}

// AuthorizePrincipal is Authorize for a resolved caller.
func AuthorizePrincipal(p Principal, targetID string) error {
	return Authorize(p.UserID, p.Role, targetID)
}
