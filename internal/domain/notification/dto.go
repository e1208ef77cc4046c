package notification

import (
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// CreateNotificationRequest is what producers hand to the queue.
type CreateNotificationRequest struct {
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	RelatedID *string
}

// ListFilter selects one page of a user's inbox.
type ListFilter struct {
	Page       int
	Limit      int
	UnreadOnly bool
}

// Normalize clamps the page window to sane bounds.
func (f ListFilter) Normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > maxListLimit {
		f.Limit = defaultListLimit
	}
	return f
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type MarkReadRequest struct {
	IDs []string `json:"ids"`
}

func (r *MarkReadRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.IDs) == 0 {
		errs.Add("ids", "at least one notification id is required")
	}
	for _, id := range r.IDs {
		if !validator.IsValidUUID(id) {
			errs.Add("ids", "ids must contain valid UUIDs")
			break
		}
	}
	return errs.Err()
}

type NotificationResponse struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	RelatedID *string          `json:"related_id,omitempty"`
	Read      bool             `json:"read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func NewNotificationResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		RelatedID: n.RelatedID,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// Inbox is one page of notifications plus the counters the bell icon needs.
type Inbox struct {
	Items  []NotificationResponse `json:"items"`
	Unread int                    `json:"unread"`
	Page   int                    `json:"-"`
	Limit  int                    `json:"-"`
	Total  int64                  `json:"-"`
}

func (i Inbox) TotalPages() int {
	if i.Limit == 0 {
		return 0
	}
	return int((i.Total + int64(i.Limit) - 1) / int64(i.Limit))
}

type UnreadResponse struct {
	Unread int `json:"unread"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
