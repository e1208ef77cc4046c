package document

import (
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
)

type SubmitDocumentRequest struct {
	DocumentType string `json:"document_type"`
	Purpose      string `json:"purpose"`
}

func (r *SubmitDocumentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.DocumentType) {
		errs.Add("document_type", "document_type is required")
	} else if !validator.MaxLen(r.DocumentType, 100) {
		errs.Add("document_type", "document_type must not exceed 100 characters")
	}
	if validator.IsEmpty(r.Purpose) {
		errs.Add("purpose", "purpose is required")
	} else if !validator.MaxLen(r.Purpose, 1000) {
		errs.Add("purpose", "purpose must not exceed 1000 characters")
	}

	return errs.Err()
}

type DocumentRequestResponse struct {
	ID                 string        `json:"id"`
	UserID             string        `json:"user_id"`
	DocumentType       string        `json:"document_type"`
	Purpose            string        `json:"purpose"`
	Status             RequestStatus `json:"status"`
	ReportingManagerID *string       `json:"reporting_manager_id"`
	ReviewedBy         *string       `json:"reviewed_by"`
	ReviewedAt         *time.Time    `json:"reviewed_at"`
	ReviewNote         *string       `json:"review_note"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

func NewDocumentRequestResponse(d DocumentRequest) DocumentRequestResponse {
	return DocumentRequestResponse{
		ID:                 d.ID,
		UserID:             d.UserID,
		DocumentType:       d.DocumentType,
		Purpose:            d.Purpose,
		Status:             d.Status,
		ReportingManagerID: d.ReportingManagerID,
		ReviewedBy:         d.ReviewedBy,
		ReviewedAt:         d.ReviewedAt,
		ReviewNote:         d.ReviewNote,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

type ListDocumentRequestsResponse struct {
	TotalCount int64                     `json:"total_count"`
	Page       int                       `json:"page"`
	Limit      int                       `json:"limit"`
	TotalPages int                       `json:"total_pages"`
	Requests   []DocumentRequestResponse `json:"requests"`
}

// ListFilter and ReviewRequest are the leave shapes.
type (
	ListFilter    = leave.ListRequestsFilter
	ReviewRequest = leave.ReviewRequest
)
