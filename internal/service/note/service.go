package note

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/note"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
)

// NoteServiceImpl keeps private notes; a note is only ever visible to its author.
type NoteServiceImpl struct {
	note.NoteRepository
}

func NewNoteService(repo note.NoteRepository) note.NoteService {
	return &NoteServiceImpl{NoteRepository: repo}
}

func (s *NoteServiceImpl) List(ctx context.Context) ([]note.NoteResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	notes, err := s.NoteRepository.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	resp := make([]note.NoteResponse, 0, len(notes))
	for _, n := range notes {
		resp = append(resp, note.NewNoteResponse(n))
	}
	return resp, nil
}

func (s *NoteServiceImpl) Get(ctx context.Context, id string) (note.NoteResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return note.NoteResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return note.NoteResponse{}, note.ErrNoteNotFound
	}
	n, err := s.NoteRepository.GetByID(ctx, id, p.UserID)
	if err != nil {
		return note.NoteResponse{}, err
	}
	return note.NewNoteResponse(n), nil
}

func (s *NoteServiceImpl) Create(ctx context.Context, req note.UpsertNoteRequest) (note.NoteResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return note.NoteResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return note.NoteResponse{}, err
	}
	n, err := s.NoteRepository.Create(ctx, note.Note{
		UserID:  p.UserID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return note.NoteResponse{}, fmt.Errorf("failed to create note: %w", err)
	}
	return note.NewNoteResponse(n), nil
}

func (s *NoteServiceImpl) Update(ctx context.Context, req note.UpsertNoteRequest) (note.NoteResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return note.NoteResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return note.NoteResponse{}, note.ErrNoteNotFound
	}
	if err := req.Validate(); err != nil {
		return note.NoteResponse{}, err
	}
	n, err := s.NoteRepository.Update(ctx, note.Note{
		ID:      req.ID,
		UserID:  p.UserID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return note.NoteResponse{}, err
	}
	return note.NewNoteResponse(n), nil
}

func (s *NoteServiceImpl) Delete(ctx context.Context, id string) error {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	if !validator.IsValidUUID(id) {
		return note.ErrNoteNotFound
	}
	return s.NoteRepository.Delete(ctx, id, p.UserID)
}
