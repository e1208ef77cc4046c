package user

import (
	"context"
	"time"
)

type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByOAuth(ctx context.Context, provider, providerID string) (User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]User, int64, error)

	// ListAll returns every user ordered by display name.
	ListAll(ctx context.Context) ([]User, error)

	// ListManagers returns active admins and active users whose position mentions "manager".
	ListManagers(ctx context.Context) ([]User, error)

	UpdateProfile(ctx context.Context, req UpdateProfileRequest) error
	UpdateRole(ctx context.Context, id string, role Role) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdateReportingManager(ctx context.Context, id string, managerID *string) error
	LinkOAuth(ctx context.Context, id, provider, providerID string) error

	// UpdateActivity sets last_active and, when isActive is non-nil, the is_active flag.
	UpdateActivity(ctx context.Context, id string, lastActive time.Time, isActive *bool) error

	Delete(ctx context.Context, id string) error
}
