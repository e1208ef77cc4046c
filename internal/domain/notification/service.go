package notification

import (
	"context"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/sse"
)

// Service is the producer side (Queue*) and the inbox side of notifications.
type Service interface {
	// QueueNotification never blocks the caller; a full queue falls back to a direct insert.
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error
	QueueBulkNotification(ctx context.Context, reqs []CreateNotificationRequest) error

	Inbox(ctx context.Context, userID string, filter ListFilter) (Inbox, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID string, req MarkReadRequest) (int64, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID, id string) error

	// Subscribe streams every notification stored for userID until cleanup runs.
	Subscribe(userID string) (<-chan sse.Event, func())

	// Stop drains the queue and waits for the workers.
	Stop()
}
