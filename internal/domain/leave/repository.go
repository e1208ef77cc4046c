package leave

import (
	"context"
	"time"
)

type BalanceRepository interface {
	Create(ctx context.Context, b Balance) (Balance, error)
	GetByUserID(ctx context.Context, userID string) (Balance, error)
	Update(ctx context.Context, b Balance) (Balance, error)

	// Decrement subtracts days from the t column; ErrInsufficientBalance when
	// the result would be negative.
	Decrement(ctx context.Context, userID string, t LeaveType, days int) error
}

type RequestRepository interface {
	Create(ctx context.Context, lr LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter ListRequestsFilter) ([]LeaveRequest, int64, error)

	// Transition moves a pending request to status; ErrRequestAlreadyProcessed
	// when it is no longer pending.
	Transition(ctx context.Context, id string, status RequestStatus, reviewerID *string, note *string, at time.Time) (LeaveRequest, error)
}
