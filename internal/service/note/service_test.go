package note

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/note"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aliceID = "00000000-0000-4000-8000-0000000000a1"
	bobID   = "00000000-0000-4000-8000-0000000000b0"
)

func as(id string) context.Context {
	return user.WithPrincipal(context.Background(), user.Principal{UserID: id, Role: user.RoleUser})
}

type fakeRepo struct {
	notes map[string]note.Note
}

func (f *fakeRepo) Create(ctx context.Context, n note.Note) (note.Note, error) {
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	f.notes[n.ID] = n
	return n, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id, userID string) (note.Note, error) {
	n, ok := f.notes[id]
	if !ok || n.UserID != userID {
		return note.Note{}, note.ErrNoteNotFound
	}
	return n, nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID string) ([]note.Note, error) {
	var out []note.Note
	for _, n := range f.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, n note.Note) (note.Note, error) {
	existing, err := f.GetByID(ctx, n.ID, n.UserID)
	if err != nil {
		return note.Note{}, err
	}
	existing.Title, existing.Content, existing.UpdatedAt = n.Title, n.Content, time.Now()
	f.notes[n.ID] = existing
	return existing, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id, userID string) error {
	if _, err := f.GetByID(ctx, id, userID); err != nil {
		return err
	}
	delete(f.notes, id)
	return nil
}

func TestNotesAreOwnerScoped(t *testing.T) {
	svc := NewNoteService(&fakeRepo{notes: map[string]note.Note{}})

	created, err := svc.Create(as(aliceID), note.UpsertNoteRequest{Title: "Groceries", Content: "milk"})
	require.NoError(t, err)

	got, err := svc.Get(as(aliceID), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "milk", got.Content)

	_, err = svc.Get(as(bobID), created.ID)
	assert.ErrorIs(t, err, note.ErrNoteNotFound)

	bobs, err := svc.List(as(bobID))
	require.NoError(t, err)
	assert.Empty(t, bobs)

	_, err = svc.Update(as(bobID), note.UpsertNoteRequest{ID: created.ID, Title: "mine now"})
	assert.ErrorIs(t, err, note.ErrNoteNotFound)
	assert.ErrorIs(t, svc.Delete(as(bobID), created.ID), note.ErrNoteNotFound)

	updated, err := svc.Update(as(aliceID), note.UpsertNoteRequest{ID: created.ID, Title: "Groceries", Content: "milk, eggs"})
	require.NoError(t, err)
	assert.Equal(t, "milk, eggs", updated.Content)

	require.NoError(t, svc.Delete(as(aliceID), created.ID))
	mine, err := svc.List(as(aliceID))
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestNoteValidation(t *testing.T) {
	svc := NewNoteService(&fakeRepo{notes: map[string]note.Note{}})

	_, err := svc.Create(as(aliceID), note.UpsertNoteRequest{Title: ""})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "title")

	_, err = svc.Get(as(aliceID), "not-a-uuid")
	assert.ErrorIs(t, err, note.ErrNoteNotFound)

	_, err = svc.List(context.Background())
	assert.ErrorIs(t, err, user.ErrMissingPrincipal)
}
