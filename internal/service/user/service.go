package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/cache"
)

const managersCacheKey = "managers"

type UserServiceImpl struct {
	user.UserRepository
	cache        cache.Cache
	managerTTL   time.Duration
	onlineWindow time.Duration
	now          func() time.Time
}

func NewUserService(userRepository user.UserRepository, c cache.Cache, managerTTL, onlineWindow time.Duration) user.UserService {
	return &UserServiceImpl{
		UserRepository: userRepository,
		cache:          c,
		managerTTL:     managerTTL,
		onlineWindow:   onlineWindow,
		now:            time.Now,
	}
}

func (s *UserServiceImpl) toResponse(u user.User) user.UserResponse {
	return user.NewUserResponse(u, attendance.IsActive(u.LastActive, s.now(), s.onlineWindow))
}

func (s *UserServiceImpl) invalidateManagers(ctx context.Context) {
	if err := s.cache.Delete(ctx, managersCacheKey); err != nil {
		slog.Warn("Failed to invalidate manager cache", "error", err)
	}
}

func requireAdmin(ctx context.Context) (user.Principal, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return user.Principal{}, err
	}
	if !p.IsAdmin() {
		return user.Principal{}, user.ErrAdminPrivilegeRequired
	}
	return p, nil
}

// GetUser implements user.UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (user.UserResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if err := user.AuthorizePrincipal(p, id); err != nil {
		return user.UserResponse{}, err
	}

	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	return s.toResponse(u), nil
}

// ListUsers implements user.UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context, filter user.ListUsersFilter) (user.ListUsersResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return user.ListUsersResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return user.ListUsersResponse{}, err
	}

	users, total, err := s.UserRepository.List(ctx, filter)
	if err != nil {
		return user.ListUsersResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, s.toResponse(u))
	}

	return user.ListUsersResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Users:      responses,
	}, nil
}

// ListManagers serves the directory from cache; a stale list within the TTL is acceptable.
func (s *UserServiceImpl) ListManagers(ctx context.Context) ([]user.ManagerResponse, error) {
	var cached []user.ManagerResponse
	found, err := s.cache.Get(ctx, managersCacheKey, &cached)
	if err != nil {
		slog.Warn("Manager cache read failed", "error", err)
	}
	if found && err == nil {
		return cached, nil
	}

	managers, err := s.UserRepository.ListManagers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}

	responses := make([]user.ManagerResponse, 0, len(managers))
	for _, m := range managers {
		responses = append(responses, user.ManagerResponse{
			ID:          m.ID,
			DisplayName: m.DisplayName,
			Email:       m.Email,
			Position:    m.Position,
			Department:  m.Department,
		})
	}

	if err := s.cache.Set(ctx, managersCacheKey, responses, s.managerTTL); err != nil {
		slog.Warn("Manager cache write failed", "error", err)
	}
	return responses, nil
}

// UpdateProfile implements user.UserService.
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, req user.UpdateProfileRequest) (user.UserResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if err := user.AuthorizePrincipal(p, req.ID); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	// Position decides who is offered as a reporting manager.
	if req.Position != nil && !user.HasPermission(p.Role, user.PermissionUserManage) {
		return user.UserResponse{}, user.ErrAdminPrivilegeRequired
	}

	if err := s.UserRepository.UpdateProfile(ctx, req); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to update profile: %w", err)
	}
	s.invalidateManagers(ctx)

	return s.reload(ctx, req.ID)
}

// UpdateRole implements user.UserService.
func (s *UserServiceImpl) UpdateRole(ctx context.Context, req user.UpdateRoleRequest) (user.UserResponse, error) {
	p, err := requireAdmin(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	if p.UserID == req.ID && req.Role != user.RoleAdmin {
		return user.UserResponse{}, user.ErrSelfDemote
	}

	if err := s.UserRepository.UpdateRole(ctx, req.ID, req.Role); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to update role: %w", err)
	}
	s.invalidateManagers(ctx)

	return s.reload(ctx, req.ID)
}

// UpdateStatus implements user.UserService.
func (s *UserServiceImpl) UpdateStatus(ctx context.Context, req user.UpdateStatusRequest) (user.UserResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if err := s.UserRepository.UpdateStatus(ctx, req.ID, req.Status); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to update status: %w", err)
	}
	s.invalidateManagers(ctx)

	return s.reload(ctx, req.ID)
}

// UpdateReportingManager implements user.UserService. A nil manager clears the link.
func (s *UserServiceImpl) UpdateReportingManager(ctx context.Context, req user.UpdateManagerRequest) (user.UserResponse, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if req.ReportingManagerID != nil {
		if *req.ReportingManagerID == req.ID {
			return user.UserResponse{}, user.ErrSelfManager
		}
		if _, err := s.UserRepository.GetByID(ctx, *req.ReportingManagerID); err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return user.UserResponse{}, user.ErrManagerNotFound
			}
			return user.UserResponse{}, fmt.Errorf("failed to get manager: %w", err)
		}
	}

	if err := s.UserRepository.UpdateReportingManager(ctx, req.ID, req.ReportingManagerID); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to update reporting manager: %w", err)
	}

	return s.reload(ctx, req.ID)
}

// DeleteUser implements user.UserService.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) error {
	p, err := requireAdmin(ctx)
	if err != nil {
		return err
	}
	if p.UserID == id {
		return user.ErrSelfDelete
	}

	if err := s.UserRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.invalidateManagers(ctx)
	return nil
}

// Heartbeat implements user.UserService.
func (s *UserServiceImpl) Heartbeat(ctx context.Context) error {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	if err := s.UserRepository.UpdateActivity(ctx, p.UserID, s.now(), nil); err != nil {
		return fmt.Errorf("failed to record heartbeat: %w", err)
	}
	return nil
}

func (s *UserServiceImpl) reload(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to reload user: %w", err)
	}
	return s.toResponse(u), nil
}
