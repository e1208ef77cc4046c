package document

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
)

const cancelNote = "cancelled by requester"

type DocumentServiceImpl struct {
	document.DocumentRepository
	userRepo        user.UserRepository
	notificationSvc notification.Service
	now             func() time.Time
}

func NewDocumentService(documentRepo document.DocumentRepository, userRepo user.UserRepository, notificationSvc notification.Service) document.DocumentService {
	return &DocumentServiceImpl{
		DocumentRepository: documentRepo,
		userRepo:           userRepo,
		notificationSvc:    notificationSvc,
		now:                time.Now,
	}
}

func (s *DocumentServiceImpl) notify(ctx context.Context, req notification.CreateNotificationRequest) {
	if err := s.notificationSvc.QueueNotification(ctx, req); err != nil {
		slog.Error("Failed to queue document notification", "user_id", req.UserID, "type", req.Type, "error", err)
	}
}

func (s *DocumentServiceImpl) Submit(ctx context.Context, req document.SubmitDocumentRequest) (document.DocumentRequestResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return document.DocumentRequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return document.DocumentRequestResponse{}, err
	}

	requester, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return document.DocumentRequestResponse{}, fmt.Errorf("failed to get requester: %w", err)
	}

	created, err := s.DocumentRepository.Create(ctx, document.DocumentRequest{
		UserID:             p.UserID,
		DocumentType:       req.DocumentType,
		Purpose:            req.Purpose,
		Status:             leave.StatusPending,
		ReportingManagerID: requester.ReportingManagerID,
	})
	if err != nil {
		return document.DocumentRequestResponse{}, fmt.Errorf("failed to create document request: %w", err)
	}

	if created.ReportingManagerID != nil {
		s.notify(ctx, notification.CreateNotificationRequest{
			UserID:    *created.ReportingManagerID,
			Type:      notification.TypeDocumentRequest,
			Title:     "New document request",
			Message:   fmt.Sprintf("%s requested a %s", requester.DisplayName, created.DocumentType),
			RelatedID: &created.ID,
		})
	}

	return document.NewDocumentRequestResponse(created), nil
}

func (s *DocumentServiceImpl) Get(ctx context.Context, id string) (document.DocumentRequestResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return document.DocumentRequestResponse{}, err
	}

	d, err := s.DocumentRepository.GetByID(ctx, id)
	if err != nil {
		return document.DocumentRequestResponse{}, fmt.Errorf("failed to get document request: %w", err)
	}
	isManager := d.ReportingManagerID != nil && *d.ReportingManagerID == p.UserID
	if user.AuthorizePrincipal(p, d.UserID) != nil && !isManager {
		return document.DocumentRequestResponse{}, user.ErrForbidden
	}
	return document.NewDocumentRequestResponse(d), nil
}

func (s *DocumentServiceImpl) ListMine(ctx context.Context, filter document.ListFilter) (document.ListDocumentRequestsResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return document.ListDocumentRequestsResponse{}, err
	}
	filter.UserID = &p.UserID
	filter.ManagerID = nil
	return s.list(ctx, filter)
}

func (s *DocumentServiceImpl) ListAssigned(ctx context.Context, filter document.ListFilter) (document.ListDocumentRequestsResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return document.ListDocumentRequestsResponse{}, err
	}
	filter.ManagerID = &p.UserID
	return s.list(ctx, filter)
}

func (s *DocumentServiceImpl) ListAll(ctx context.Context, filter document.ListFilter) (document.ListDocumentRequestsResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return document.ListDocumentRequestsResponse{}, err
	}
	if !p.IsAdmin() {
		return document.ListDocumentRequestsResponse{}, user.ErrAdminPrivilegeRequired
	}
	filter.ManagerID = nil
	return s.list(ctx, filter)
}

func (s *DocumentServiceImpl) list(ctx context.Context, filter document.ListFilter) (document.ListDocumentRequestsResponse, error) {
	if err := filter.Validate(); err != nil {
		return document.ListDocumentRequestsResponse{}, err
	}

	docs, total, err := s.DocumentRepository.List(ctx, filter)
	if err != nil {
		return document.ListDocumentRequestsResponse{}, fmt.Errorf("failed to list document requests: %w", err)
	}

	responses := make([]document.DocumentRequestResponse, 0, len(docs))
	for _, d := range docs {
		responses = append(responses, document.NewDocumentRequestResponse(d))
	}

	return document.ListDocumentRequestsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Requests:   responses,
	}, nil
}

func (s *DocumentServiceImpl) Review(ctx context.Context, req document.ReviewRequest) (document.DocumentRequestResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return document.DocumentRequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return document.DocumentRequestResponse{}, err
	}

	current, err := s.DocumentRepository.GetByID(ctx, req.ID)
	if err != nil {
		return document.DocumentRequestResponse{}, fmt.Errorf("failed to get document request: %w", err)
	}
	if current.UserID == p.UserID {
		return document.DocumentRequestResponse{}, document.ErrSelfReview
	}
	isManager := current.ReportingManagerID != nil && *current.ReportingManagerID == p.UserID
	if !p.IsAdmin() && !isManager {
		return document.DocumentRequestResponse{}, document.ErrNotReviewer
	}
	if current.Status != leave.StatusPending {
		return document.DocumentRequestResponse{}, document.ErrRequestAlreadyProcessed
	}

	target := req.Target()
	reviewed, err := s.DocumentRepository.Transition(ctx, current.ID, target, &p.UserID, req.Note, s.now())
	if err != nil {
		return document.DocumentRequestResponse{}, fmt.Errorf("failed to review document request: %w", err)
	}

	notifType, verb := notification.TypeDocumentRejected, "rejected"
	if target == leave.StatusApproved {
		notifType, verb = notification.TypeDocumentApproved, "approved"
	}
	s.notify(ctx, notification.CreateNotificationRequest{
		UserID:    reviewed.UserID,
		Type:      notifType,
		Title:     "Document request " + verb,
		Message:   fmt.Sprintf("Your %s request was %s", reviewed.DocumentType, verb),
		RelatedID: &reviewed.ID,
	})

	return document.NewDocumentRequestResponse(reviewed), nil
}

func (s *DocumentServiceImpl) Cancel(ctx context.Context, id string) (document.DocumentRequestResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return document.DocumentRequestResponse{}, err
	}

	current, err := s.DocumentRepository.GetByID(ctx, id)
	if err != nil {
		return document.DocumentRequestResponse{}, fmt.Errorf("failed to get document request: %w", err)
	}
	if current.UserID != p.UserID {
		return document.DocumentRequestResponse{}, document.ErrNotRequestOwner
	}
	if current.Status != leave.StatusPending {
		return document.DocumentRequestResponse{}, document.ErrRequestAlreadyProcessed
	}

	note := cancelNote
	cancelled, err := s.DocumentRepository.Transition(ctx, id, leave.StatusRejected, nil, &note, s.now())
	if err != nil {
		return document.DocumentRequestResponse{}, fmt.Errorf("failed to cancel document request: %w", err)
	}
	return document.NewDocumentRequestResponse(cancelled), nil
}
