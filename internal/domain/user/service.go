package user

import "context"

type UserService interface {
	GetUser(ctx context.Context, id string) (UserResponse, error)

	// ListUsers is admin only.
	ListUsers(ctx context.Context, filter ListUsersFilter) (ListUsersResponse, error)

	// ListManagers returns the cached reporting-manager directory.
	ListManagers(ctx context.Context) ([]ManagerResponse, error)

	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (UserResponse, error)
	UpdateRole(ctx context.Context, req UpdateRoleRequest) (UserResponse, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (UserResponse, error)
	UpdateReportingManager(ctx context.Context, req UpdateManagerRequest) (UserResponse, error)
	DeleteUser(ctx context.Context, id string) error

	// Heartbeat bumps last_active for the caller without touching attendance.
	Heartbeat(ctx context.Context) error
}
