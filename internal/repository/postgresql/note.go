package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/note"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type noteRepositoryImpl struct {
	db *database.DB
}

func NewNoteRepository(db *database.DB) note.NoteRepository {
	return &noteRepositoryImpl{db: db}
}

func scanNote(row pgx.Row) (note.Note, error) {
	var n note.Note
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return note.Note{}, note.ErrNoteNotFound
	}
	return n, err
}

func (r *noteRepositoryImpl) Create(ctx context.Context, n note.Note) (note.Note, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO notes (user_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, title, content, created_at, updated_at`

	created, err := scanNote(q.QueryRow(ctx, query, n.UserID, n.Title, n.Content))
	if err != nil {
		return note.Note{}, fmt.Errorf("failed to create note: %w", err)
	}
	return created, nil
}

func (r *noteRepositoryImpl) GetByID(ctx context.Context, id, userID string) (note.Note, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, user_id, title, content, created_at, updated_at
		FROM notes
		WHERE id = $1 AND user_id = $2`

	n, err := scanNote(q.QueryRow(ctx, query, id, userID))
	if err != nil {
		return note.Note{}, fmt.Errorf("failed to get note: %w", err)
	}
	return n, nil
}

func (r *noteRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]note.Note, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, user_id, title, content, created_at, updated_at
		FROM notes
		WHERE user_id = $1
		ORDER BY updated_at DESC`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []note.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *noteRepositoryImpl) Update(ctx context.Context, n note.Note) (note.Note, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE notes
		SET title = $3, content = $4, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, content, created_at, updated_at`

	updated, err := scanNote(q.QueryRow(ctx, query, n.ID, n.UserID, n.Title, n.Content))
	if err != nil {
		return note.Note{}, fmt.Errorf("failed to update note: %w", err)
	}
	return updated, nil
}

func (r *noteRepositoryImpl) Delete(ctx context.Context, id, userID string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return note.ErrNoteNotFound
	}
	return nil
}
