package user

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
)

type UserResponse struct {
	ID                 string     `json:"id"`
	DisplayName        string     `json:"display_name"`
	Email              string     `json:"email"`
	Role               Role       `json:"role"`
	Status             Status     `json:"status"`
	Department         *string    `json:"department"`
	Position           *string    `json:"position"`
	Phone              *string    `json:"phone"`
	PhotoURL           *string    `json:"photo_url"`
	ReportingManagerID *string    `json:"reporting_manager_id"`
	LastActive         *time.Time `json:"last_active"`
	IsActive           bool       `json:"is_active"`
	Online             bool       `json:"online"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewUserResponse renders u; online is the liveness badge computed by the caller.
func NewUserResponse(u User, online bool) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		DisplayName:        u.DisplayName,
		Email:              u.Email,
		Role:               u.Role,
		Status:             u.Status,
		Department:         u.Department,
		Position:           u.Position,
		Phone:              u.Phone,
		PhotoURL:           u.PhotoURL,
		ReportingManagerID: u.ReportingManagerID,
		LastActive:         u.LastActive,
		IsActive:           u.IsActive,
		Online:             online,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

type ManagerResponse struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email"`
	Position    *string `json:"position"`
	Department  *string `json:"department"`
}

type ListUsersFilter struct {
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
	Status *string `json:"status"`
	Role   *string `json:"role"`
	Search *string `json:"search"`
}

func (f *ListUsersFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Page < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be at least 1",
		})
	}
	if f.Limit < 1 || f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be between 1 and 100",
		})
	}
	if f.Status != nil && !Status(*f.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: active, pending, inactive",
		})
	}
	if f.Role != nil && !Role(*f.Role).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: user, admin",
		})
	}
	if f.Search != nil {
		trimmed := strings.TrimSpace(*f.Search)
		if trimmed == "" {
			f.Search = nil
		} else {
			f.Search = &trimmed
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListUsersResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Users      []UserResponse `json:"users"`
}

type UpdateProfileRequest struct {
	ID          string  `json:"-"`
	DisplayName *string `json:"display_name"`
	Department  *string `json:"department"`
	Position    *string `json:"position"`
	Phone       *string `json:"phone"`
	PhotoURL    *string `json:"photo_url"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.DisplayName != nil {
		if validator.IsEmpty(*r.DisplayName) {
			errs.Add("display_name", "display_name must not be empty")
		} else if !validator.MaxLen(*r.DisplayName, 100) {
			errs.Add("display_name", "display_name must not exceed 100 characters")
		}
	}
	if r.Department != nil && !validator.MaxLen(*r.Department, 100) {
		errs.Add("department", "department must not exceed 100 characters")
	}
	if r.Position != nil && !validator.MaxLen(*r.Position, 100) {
		errs.Add("position", "position must not exceed 100 characters")
	}
	if r.Phone != nil && !validator.MaxLen(*r.Phone, 20) {
		errs.Add("phone", "phone must not exceed 20 characters")
	}
	if r.PhotoURL != nil && !validator.MaxLen(*r.PhotoURL, 2048) {
		errs.Add("photo_url", "photo_url must not exceed 2048 characters")
	}
	if r.DisplayName == nil && r.Department == nil && r.Position == nil && r.Phone == nil && r.PhotoURL == nil {
		errs.Add("body", "at least one field must be provided")
	}

	return errs.Err()
}

type UpdateRoleRequest struct {
	ID   string `json:"-"`
	Role Role   `json:"role"`
}

func (r *UpdateRoleRequest) Validate() error {
	var errs validator.ValidationErrors
	if !r.Role.Valid() {
		errs.Add("role", "role must be one of: user, admin")
	}
	return errs.Err()
}

type UpdateStatusRequest struct {
	ID     string `json:"-"`
	Status Status `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors
	if !r.Status.Valid() {
		errs.Add("status", "status must be one of: active, pending, inactive")
	}
	return errs.Err()
}

type UpdateManagerRequest struct {
	ID                 string  `json:"-"`
	ReportingManagerID *string `json:"reporting_manager_id"`
}

func (r *UpdateManagerRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.ReportingManagerID != nil && !validator.IsValidUUID(*r.ReportingManagerID) {
		errs.Add("reporting_manager_id", "reporting_manager_id must be a valid UUID")
	}
	return errs.Err()
}
