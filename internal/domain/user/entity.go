package user

import "time"

type Role string

const (
	RoleUser  Role = "user"  // Regular employee
	RoleAdmin Role = "admin" // Full access to the directory and reviews
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Status is the account lifecycle, independent of attendance state.
type Status string

const (
	StatusActive   Status = "active"
	StatusPending  Status = "pending"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPending, StatusInactive:
		return true
	}
	return false
}

type User struct {
	ID              string
	DisplayName     string
	Email           string
	PasswordHash    *string
	OAuthProvider   *string
	OAuthProviderID *string
	Role            Role
	Status          Status
	Department      *string
	Position        *string
	Phone           *string
	PhotoURL        *string

	// Weak reference to another user; cleared (not cascaded) when that user is deleted.
	ReportingManagerID *string

	LastActive *time.Time
	IsActive   bool // true between check-in and check-out

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin checks if user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanClock reports whether the account may record attendance.
func (u *User) CanClock() bool {
	return u.Status == StatusActive
}
