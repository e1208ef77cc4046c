package note

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
)

var ErrNoteNotFound = errors.New("note not found")

type Note struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UpsertNoteRequest struct {
	ID      string `json:"-"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r *UpsertNoteRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Title) {
		errs.Add("title", "title is required")
	} else if !validator.MaxLen(r.Title, 200) {
		errs.Add("title", "title must not exceed 200 characters")
	}
	if !validator.MaxLen(r.Content, 20000) {
		errs.Add("content", "content must not exceed 20000 characters")
	}
	return errs.Err()
}

type NoteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewNoteResponse(n Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// NoteRepository scopes every lookup by owner, so foreign ids read as not found.
type NoteRepository interface {
	Create(ctx context.Context, n Note) (Note, error)
	GetByID(ctx context.Context, id, userID string) (Note, error)
	ListByUser(ctx context.Context, userID string) ([]Note, error)
	Update(ctx context.Context, n Note) (Note, error)
	Delete(ctx context.Context, id, userID string) error
}

type NoteService interface {
	List(ctx context.Context) ([]NoteResponse, error)
	Get(ctx context.Context, id string) (NoteResponse, error)
	Create(ctx context.Context, req UpsertNoteRequest) (NoteResponse, error)
	Update(ctx context.Context, req UpsertNoteRequest) (NoteResponse, error)
	Delete(ctx context.Context, id string) error
}
