package leave

import "context"

type LeaveService interface {
	GetBalance(ctx context.Context, userID string) (BalanceResponse, error)

	// UpdateBalance is a manual admin adjustment.
	UpdateBalance(ctx context.Context, req UpdateBalanceRequest) (BalanceResponse, error)

	// Submit checks the balance without reserving it.
	Submit(ctx context.Context, req SubmitLeaveRequest) (LeaveRequestResponse, error)

	Get(ctx context.Context, id string) (LeaveRequestResponse, error)
	ListMine(ctx context.Context, filter ListRequestsFilter) (ListLeaveRequestsResponse, error)
	ListAssigned(ctx context.Context, filter ListRequestsFilter) (ListLeaveRequestsResponse, error)
	ListAll(ctx context.Context, filter ListRequestsFilter) (ListLeaveRequestsResponse, error)

	// Review approves or rejects; approval decrements the balance atomically.
	Review(ctx context.Context, req ReviewRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, id string) (LeaveRequestResponse, error)
}
