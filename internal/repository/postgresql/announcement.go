package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/announcement"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/database"
)

type announcementRepositoryImpl struct {
	db *database.DB
}

func NewAnnouncementRepository(db *database.DB) announcement.AnnouncementRepository {
	return &announcementRepositoryImpl{db: db}
}

func (r *announcementRepositoryImpl) Create(ctx context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		WITH inserted AS (
			INSERT INTO announcements (title, body, author_id)
			VALUES ($1, $2, $3)
			RETURNING id, title, body, author_id, created_at
		)
		SELECT i.id, i.title, i.body, i.author_id, u.display_name, i.created_at
		FROM inserted i
		LEFT JOIN users u ON u.id = i.author_id`

	var created announcement.Announcement
	err := q.QueryRow(ctx, query, a.Title, a.Body, a.AuthorID).Scan(
		&created.ID,
		&created.Title,
		&created.Body,
		&created.AuthorID,
		&created.AuthorName,
		&created.CreatedAt,
	)
	if err != nil {
		return announcement.Announcement{}, fmt.Errorf("failed to create announcement: %w", err)
	}
	return created, nil
}

func (r *announcementRepositoryImpl) List(ctx context.Context, page, limit int) ([]announcement.Announcement, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM announcements`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count announcements: %w", err)
	}

	query := `
		SELECT a.id, a.title, a.body, a.author_id, u.display_name, a.created_at
		FROM announcements a
		LEFT JOIN users u ON u.id = a.author_id
		ORDER BY a.created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := q.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list announcements: %w", err)
	}
	defer rows.Close()

	var list []announcement.Announcement
	for rows.Next() {
		var a announcement.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.AuthorID, &a.AuthorName, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, a)
	}
	return list, total, rows.Err()
}

func (r *announcementRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return announcement.ErrAnnouncementNotFound
	}
	return nil
}
