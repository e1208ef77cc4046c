package document

import (
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/leave"
)

// Documents follow the leave request lifecycle.
type RequestStatus = leave.RequestStatus

type DocumentRequest struct {
	ID                 string
	UserID             string
	DocumentType       string
	Purpose            string
	Status             RequestStatus
	ReportingManagerID *string
	ReviewedBy         *string
	ReviewedAt         *time.Time
	ReviewNote         *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
