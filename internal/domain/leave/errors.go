package leave

import "errors"

var (
	// Balance errors
	ErrBalanceNotFound     = errors.New("leave balance not found")
	ErrInsufficientBalance = errors.New("insufficient leave balance")

	// Request errors
	ErrLeaveRequestNotFound    = errors.New("leave request not found")
	ErrDayCountMismatch        = errors.New("number_of_days does not match the date range")
	ErrRequestAlreadyProcessed = errors.New("request has already been approved or rejected")
	ErrNotReviewer             = errors.New("only an admin or the reporting manager can review this request")
	ErrNotRequestOwner         = errors.New("request belongs to another user")
	ErrSelfReview              = errors.New("you cannot review your own request")
)
