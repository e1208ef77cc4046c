package document

import (
	"errors"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/leave"
)

var (
	ErrDocumentRequestNotFound = errors.New("document request not found")

	// Shared with leave so the HTTP mapping stays in one place.
	ErrRequestAlreadyProcessed = leave.ErrRequestAlreadyProcessed
	ErrNotReviewer             = leave.ErrNotReviewer
	ErrNotRequestOwner         = leave.ErrNotRequestOwner
	ErrSelfReview              = leave.ErrSelfReview
)
