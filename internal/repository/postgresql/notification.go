package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

var notificationCopyColumns = []string{"id", "user_id", "type", "title", "message", "related_id", "is_read", "created_at"}

type notificationRepositoryImpl struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.NotificationRepository {
	return &notificationRepositoryImpl{db: db}
}

func scanNotification(row pgx.Row) (notification.Notification, error) {
	var n notification.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.RelatedID, &n.Read, &n.ReadAt, &n.CreatedAt)
	return n, err
}

func notificationRow(n notification.Notification) []any {
	return []any{n.ID, n.UserID, string(n.Type), n.Title, n.Message, n.RelatedID, n.Read, n.CreatedAt}
}

func (r *notificationRepositoryImpl) Insert(ctx context.Context, n notification.Notification) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, related_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		notificationRow(n)...,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// InsertMany streams the batch through COPY.
func (r *notificationRepositoryImpl) InsertMany(ctx context.Context, ns []notification.Notification) error {
	if len(ns) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)
	copied, err := q.CopyFrom(ctx,
		pgx.Identifier{"notifications"},
		notificationCopyColumns,
		pgx.CopyFromSlice(len(ns), func(i int) ([]any, error) {
			return notificationRow(ns[i]), nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy notifications: %w", err)
	}
	if copied != int64(len(ns)) {
		return fmt.Errorf("copied %d of %d notifications", copied, len(ns))
	}
	return nil
}

func (r *notificationRepositoryImpl) ListByRecipient(ctx context.Context, userID string, filter notification.ListFilter) ([]notification.Notification, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND (NOT $2 OR NOT is_read)`,
		userID, filter.UnreadOnly,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT id, user_id, type, title, message, related_id, is_read, read_at, created_at
		FROM notifications
		WHERE user_id = $1 AND (NOT $2 OR NOT is_read)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4`,
		userID, filter.UnreadOnly, filter.Limit, filter.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	items := make([]notification.Notification, 0, filter.Limit)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		items = append(items, n)
	}
	return items, total, rows.Err()
}

func (r *notificationRepositoryImpl) CountUnread(ctx context.Context, userID string) (int, error) {
	q := GetQuerier(ctx, r.db)
	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *notificationRepositoryImpl) MarkRead(ctx context.Context, userID string, ids []string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE, read_at = $3
		WHERE user_id = $1 AND id = ANY($2::uuid[]) AND NOT is_read`,
		userID, ids, at,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *notificationRepositoryImpl) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `UPDATE notifications SET is_read = TRUE, read_at = $2 WHERE user_id = $1 AND NOT is_read`, userID, at)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *notificationRepositoryImpl) Delete(ctx context.Context, userID, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}
