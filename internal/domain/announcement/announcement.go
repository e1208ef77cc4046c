package announcement

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
)

var ErrAnnouncementNotFound = errors.New("announcement not found")

type Announcement struct {
	ID         string
	Title      string
	Body       string
	AuthorID   *string
	AuthorName *string
	CreatedAt  time.Time
}

type CreateAnnouncementRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Notify bool   `json:"notify"` // fan out a notification to every active user
}

func (r *CreateAnnouncementRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Title) {
		errs.Add("title", "title is required")
	} else if !validator.MaxLen(r.Title, 200) {
		errs.Add("title", "title must not exceed 200 characters")
	}
	if validator.IsEmpty(r.Body) {
		errs.Add("body", "body is required")
	} else if !validator.MaxLen(r.Body, 10000) {
		errs.Add("body", "body must not exceed 10000 characters")
	}
	return errs.Err()
}

type AnnouncementResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	AuthorID   *string   `json:"author_id"`
	AuthorName *string   `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewAnnouncementResponse(a Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:         a.ID,
		Title:      a.Title,
		Body:       a.Body,
		AuthorID:   a.AuthorID,
		AuthorName: a.AuthorName,
		CreatedAt:  a.CreatedAt,
	}
}

type ListAnnouncementsResponse struct {
	TotalCount    int64                  `json:"total_count"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	TotalPages    int                    `json:"total_pages"`
	Announcements []AnnouncementResponse `json:"announcements"`
}

type AnnouncementRepository interface {
	Create(ctx context.Context, a Announcement) (Announcement, error)
	List(ctx context.Context, page, limit int) ([]Announcement, int64, error)
	Delete(ctx context.Context, id string) error
}

type AnnouncementService interface {
	List(ctx context.Context, page, limit int) (ListAnnouncementsResponse, error)
	Latest(ctx context.Context, n int) ([]AnnouncementResponse, error)
	Create(ctx context.Context, req CreateAnnouncementRequest) (AnnouncementResponse, error)
	Delete(ctx context.Context, id string) error
}
