package announcement

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/announcement"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

type AnnouncementServiceImpl struct {
	announcement.AnnouncementRepository
	userRepo        user.UserRepository
	notificationSvc notification.Service
}

func NewAnnouncementService(repo announcement.AnnouncementRepository, userRepo user.UserRepository, notificationSvc notification.Service) announcement.AnnouncementService {
	return &AnnouncementServiceImpl{
		AnnouncementRepository: repo,
		userRepo:               userRepo,
		notificationSvc:        notificationSvc,
	}
}

func (s *AnnouncementServiceImpl) List(ctx context.Context, page, limit int) (announcement.ListAnnouncementsResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	items, total, err := s.AnnouncementRepository.List(ctx, page, limit)
	if err != nil {
		return announcement.ListAnnouncementsResponse{}, fmt.Errorf("failed to list announcements: %w", err)
	}

	resp := announcement.ListAnnouncementsResponse{
		TotalCount:    total,
		Page:          page,
		Limit:         limit,
		TotalPages:    int(math.Ceil(float64(total) / float64(limit))),
		Announcements: make([]announcement.AnnouncementResponse, 0, len(items)),
	}
	for _, a := range items {
		resp.Announcements = append(resp.Announcements, announcement.NewAnnouncementResponse(a))
	}
	return resp, nil
}

// Latest returns the n newest announcements.
func (s *AnnouncementServiceImpl) Latest(ctx context.Context, n int) ([]announcement.AnnouncementResponse, error) {
	resp, err := s.List(ctx, 1, n)
	if err != nil {
		return nil, err
	}
	return resp.Announcements, nil
}

// Create publishes an announcement; with Notify set every active user gets a notification.
func (s *AnnouncementServiceImpl) Create(ctx context.Context, req announcement.CreateAnnouncementRequest) (announcement.AnnouncementResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return announcement.AnnouncementResponse{}, err
	}
	if !p.IsAdmin() {
		return announcement.AnnouncementResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return announcement.AnnouncementResponse{}, err
	}

	authorID := p.UserID
	created, err := s.AnnouncementRepository.Create(ctx, announcement.Announcement{
		Title:    req.Title,
		Body:     req.Body,
		AuthorID: &authorID,
	})
	if err != nil {
		return announcement.AnnouncementResponse{}, fmt.Errorf("failed to create announcement: %w", err)
	}

	if req.Notify {
		s.fanOut(ctx, created)
	}
	return announcement.NewAnnouncementResponse(created), nil
}

func (s *AnnouncementServiceImpl) fanOut(ctx context.Context, a announcement.Announcement) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		slog.Error("Failed to load recipients for announcement", "announcement_id", a.ID, "error", err)
		return
	}

	relatedID := a.ID
	reqs := make([]notification.CreateNotificationRequest, 0, len(users))
	for _, u := range users {
		if u.Status != user.StatusActive {
			continue
		}
		reqs = append(reqs, notification.CreateNotificationRequest{
			UserID:    u.ID,
			Type:      notification.TypeAnnouncement,
			Title:     a.Title,
			Message:   truncate(a.Body, 140),
			RelatedID: &relatedID,
		})
	}
	if err := s.notificationSvc.QueueBulkNotification(ctx, reqs); err != nil {
		slog.Error("Failed to queue announcement notifications", "announcement_id", a.ID, "error", err)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (s *AnnouncementServiceImpl) Delete(ctx context.Context, id string) error {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	if !p.IsAdmin() {
		return user.ErrAdminPrivilegeRequired
	}
	if !validator.IsValidUUID(id) {
		return announcement.ErrAnnouncementNotFound
	}
	return s.AnnouncementRepository.Delete(ctx, id)
}
