package leave

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/database"
)

// CancelNote is recorded on requests withdrawn by their owner.
const CancelNote = "cancelled by requester"

type LeaveServiceImpl struct {
	balanceRepo     leave.BalanceRepository
	requestRepo     leave.RequestRepository
	userRepo        user.UserRepository
	tx              database.Transactor
	notificationSvc notification.Service
	now             func() time.Time
}

func NewLeaveService(
	balanceRepo leave.BalanceRepository,
	requestRepo leave.RequestRepository,
	userRepo user.UserRepository,
	tx database.Transactor,
	notificationSvc notification.Service,
) leave.LeaveService {
	return &LeaveServiceImpl{
		balanceRepo:     balanceRepo,
		requestRepo:     requestRepo,
		userRepo:        userRepo,
		tx:              tx,
		notificationSvc: notificationSvc,
		now:             time.Now,
	}
}

func (s *LeaveServiceImpl) notify(ctx context.Context, req notification.CreateNotificationRequest) {
	if err := s.notificationSvc.QueueNotification(ctx, req); err != nil {
		slog.Error("Failed to queue leave notification", "user_id", req.UserID, "type", req.Type, "error", err)
	}
}

// GetBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, userID string) (leave.BalanceResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	if userID == "" {
		userID = p.UserID
	}
	if err := user.AuthorizePrincipal(p, userID); err != nil {
		return leave.BalanceResponse{}, err
	}

	b, err := s.balanceRepo.GetByUserID(ctx, userID)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return leave.NewBalanceResponse(b), nil
}

// UpdateBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) UpdateBalance(ctx context.Context, req leave.UpdateBalanceRequest) (leave.BalanceResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	if !p.IsAdmin() {
		return leave.BalanceResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return leave.BalanceResponse{}, err
	}

	var updated leave.Balance
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		current, err := s.balanceRepo.GetByUserID(txCtx, req.UserID)
		if err != nil {
			return fmt.Errorf("failed to get leave balance: %w", err)
		}
		updated, err = s.balanceRepo.Update(txCtx, req.Apply(current))
		if err != nil {
			return fmt.Errorf("failed to update leave balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	slog.Info("Leave balance adjusted", "user_id", req.UserID, "by", p.UserID)
	return leave.NewBalanceResponse(updated), nil
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	days := req.Days()
	if req.NumberOfDays != nil && *req.NumberOfDays != days {
		return leave.LeaveRequestResponse{}, leave.ErrDayCountMismatch
	}

	requester, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get requester: %w", err)
	}

	balance, err := s.balanceRepo.GetByUserID(ctx, p.UserID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	if balance.Of(req.LeaveType) < days {
		return leave.LeaveRequestResponse{}, leave.ErrInsufficientBalance
	}

	start, end := req.Range()
	created, err := s.requestRepo.Create(ctx, leave.LeaveRequest{
		UserID:             p.UserID,
		LeaveType:          req.LeaveType,
		StartDate:          start,
		EndDate:            end,
		NumberOfDays:       days,
		Reason:             req.Reason,
		Status:             leave.StatusPending,
		ReportingManagerID: requester.ReportingManagerID,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	if created.ReportingManagerID != nil {
		s.notify(ctx, notification.CreateNotificationRequest{
			UserID:    *created.ReportingManagerID,
			Type:      notification.TypeLeaveRequest,
			Title:     "New leave request",
			Message:   fmt.Sprintf("%s requested %d day(s) of %s leave from %s", requester.DisplayName, days, req.LeaveType, req.StartDate),
			RelatedID: &created.ID,
		})
	}

	return leave.NewLeaveRequestResponse(created), nil
}

// Get implements leave.LeaveService. Visible to the owner, the snapshot manager and admins.
func (s *LeaveServiceImpl) Get(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	lr, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if !canView(p, lr.UserID, lr.ReportingManagerID) {
		return leave.LeaveRequestResponse{}, user.ErrForbidden
	}
	return leave.NewLeaveRequestResponse(lr), nil
}

func canView(p user.Principal, ownerID string, managerID *string) bool {
	if user.AuthorizePrincipal(p, ownerID) == nil {
		return true
	}
	return managerID != nil && *managerID == p.UserID
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, filter leave.ListRequestsFilter) (leave.ListLeaveRequestsResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return leave.ListLeaveRequestsResponse{}, err
	}
	filter.UserID = &p.UserID
	filter.ManagerID = nil
	return s.list(ctx, filter)
}

// ListAssigned implements leave.LeaveService.
func (s *LeaveServiceImpl) ListAssigned(ctx context.Context, filter leave.ListRequestsFilter) (leave.ListLeaveRequestsResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return leave.ListLeaveRequestsResponse{}, err
	}
	filter.ManagerID = &p.UserID
	return s.list(ctx, filter)
}

// ListAll implements leave.LeaveService.
func (s *LeaveServiceImpl) ListAll(ctx context.Context, filter leave.ListRequestsFilter) (leave.ListLeaveRequestsResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return leave.ListLeaveRequestsResponse{}, err
	}
	if !p.IsAdmin() {
		return leave.ListLeaveRequestsResponse{}, user.ErrAdminPrivilegeRequired
	}
	filter.ManagerID = nil
	return s.list(ctx, filter)
}

func (s *LeaveServiceImpl) list(ctx context.Context, filter leave.ListRequestsFilter) (leave.ListLeaveRequestsResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestsResponse{}, err
	}

	requests, total, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestsResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, lr := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(lr))
	}

	return leave.ListLeaveRequestsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Requests:   responses,
	}, nil
}

// checkReviewer allows admins and the snapshot manager, never the requester.
func checkReviewer(p user.Principal, ownerID string, managerID *string) error {
	if p.UserID == ownerID {
		return leave.ErrSelfReview
	}
	if p.IsAdmin() || (managerID != nil && *managerID == p.UserID) {
		return nil
	}
	return leave.ErrNotReviewer
}

// Review implements leave.LeaveService. Approval moves the status and
// decrements the balance in one transaction.
func (s *LeaveServiceImpl) Review(ctx context.Context, req leave.ReviewRequest) (leave.LeaveRequestResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	current, err := s.requestRepo.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if err := checkReviewer(p, current.UserID, current.ReportingManagerID); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if current.Status != leave.StatusPending {
		return leave.LeaveRequestResponse{}, leave.ErrRequestAlreadyProcessed
	}

	target := req.Target()
	var reviewed leave.LeaveRequest
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		reviewed, err = s.requestRepo.Transition(txCtx, current.ID, target, &p.UserID, req.Note, s.now())
		if err != nil {
			return fmt.Errorf("failed to review leave request: %w", err)
		}
		if target == leave.StatusApproved {
			if err := s.balanceRepo.Decrement(txCtx, reviewed.UserID, reviewed.LeaveType, reviewed.NumberOfDays); err != nil {
				return fmt.Errorf("failed to deduct leave balance: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	notifType, verb := notification.TypeLeaveRejected, "rejected"
	if target == leave.StatusApproved {
		notifType, verb = notification.TypeLeaveApproved, "approved"
	}
	s.notify(ctx, notification.CreateNotificationRequest{
		UserID:    reviewed.UserID,
		Type:      notifType,
		Title:     "Leave request " + verb,
		Message:   fmt.Sprintf("Your %s leave from %s to %s was %s", reviewed.LeaveType, reviewed.StartDate.Format("2006-01-02"), reviewed.EndDate.Format("2006-01-02"), verb),
		RelatedID: &reviewed.ID,
	})

	return leave.NewLeaveRequestResponse(reviewed), nil
}

// Cancel implements leave.LeaveService.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	current, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if current.UserID != p.UserID {
		return leave.LeaveRequestResponse{}, leave.ErrNotRequestOwner
	}
	if current.Status != leave.StatusPending {
		return leave.LeaveRequestResponse{}, leave.ErrRequestAlreadyProcessed
	}

	note := CancelNote
	cancelled, err := s.requestRepo.Transition(ctx, id, leave.StatusRejected, nil, &note, s.now())
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to cancel leave request: %w", err)
	}
	return leave.NewLeaveRequestResponse(cancelled), nil
}
