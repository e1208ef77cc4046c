package notification

import (
	"context"
	"time"
)

type NotificationRepository interface {
	Insert(ctx context.Context, n Notification) error
	InsertMany(ctx context.Context, ns []Notification) error

	// ListByRecipient returns the page and the number of rows matching the filter.
	ListByRecipient(ctx context.Context, userID string, filter ListFilter) ([]Notification, int64, error)
	CountUnread(ctx context.Context, userID string) (int, error)

	// MarkRead and MarkAllRead report how many unread rows flipped.
	MarkRead(ctx context.Context, userID string, ids []string, at time.Time) (int64, error)
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error)
	Delete(ctx context.Context, userID, id string) error
}
