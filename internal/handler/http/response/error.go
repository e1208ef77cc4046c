package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/announcement"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/note"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
)

var unauthorized = []error{
	auth.ErrInvalidCredentials,
	auth.ErrInvalidToken,
	auth.ErrRefreshTokenRevoked,
	auth.ErrOAuthInvalidState,
	user.ErrMissingPrincipal,
}

var forbidden = []error{
	auth.ErrAccountDisabled,
	auth.ErrEmailNotVerified,
	user.ErrForbidden,
	user.ErrAdminPrivilegeRequired,
	attendance.ErrNotRecordOwner,
	attendance.ErrAccountNotActive,
	leave.ErrNotReviewer,
	leave.ErrNotRequestOwner,
	leave.ErrSelfReview,
}

var notFound = []error{
	user.ErrUserNotFound,
	user.ErrManagerNotFound,
	attendance.ErrAttendanceNotFound,
	leave.ErrBalanceNotFound,
	leave.ErrLeaveRequestNotFound,
	document.ErrDocumentRequestNotFound,
	notification.ErrNotificationNotFound,
	announcement.ErrAnnouncementNotFound,
	note.ErrNoteNotFound,
}

var badRequest = []error{
	attendance.ErrAlreadyCheckedIn,
	attendance.ErrAlreadyCheckedOut,
	leave.ErrInsufficientBalance,
	leave.ErrDayCountMismatch,
	user.ErrSelfDelete,
	user.ErrSelfDemote,
	user.ErrSelfManager,
	user.ErrUserEmailExists,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case isAny(err, unauthorized):
		Unauthorized(w, err.Error())
	case isAny(err, forbidden):
		Forbidden(w, err.Error())
	case isAny(err, notFound):
		NotFound(w, err.Error())
	case isAny(err, badRequest):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrRequestAlreadyProcessed):
		Conflict(w, err.Error())
	case errors.Is(err, auth.ErrOAuthNotConfigured):
		ServiceUnavailable(w, err.Error())
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
