package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

const eventName = "notification"

// Config sizes the queue and the batch workers. Zero values take the defaults.
type Config struct {
	BatchSize     int           // default 100
	FlushInterval time.Duration // default 5s
	WorkerCount   int           // default 2
	QueueSize     int           // default 1000
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 5 * time.Second
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = 2
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 1000
	}
	return c
}

type NotificationServiceImpl struct {
	notification.NotificationRepository
	hub        *sse.Hub
	dispatcher *dispatcher
	now        func() time.Time
}

func NewNotificationService(repo notification.NotificationRepository, hub *sse.Hub, cfg Config) notification.Service {
	cfg = cfg.withDefaults()
	s := &NotificationServiceImpl{
		NotificationRepository: repo,
		hub:                    hub,
		now:                    time.Now,
	}
	s.dispatcher = newDispatcher(cfg, s.storeBatch)

	slog.Info("Notification service started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval.String())
	return s
}

func (s *NotificationServiceImpl) build(reqs []notification.CreateNotificationRequest) []notification.Notification {
	now := s.now()
	out := make([]notification.Notification, len(reqs))
	for i, req := range reqs {
		out[i] = notification.New(uuid.NewString(), req, now)
	}
	return out
}

// publish pushes stored notifications to open streams.
func (s *NotificationServiceImpl) publish(ns []notification.Notification) {
	for _, n := range ns {
		s.hub.Publish(n.UserID, sse.Event{
			UserID: n.UserID,
			Event:  eventName,
			Data:   notification.NewNotificationResponse(n),
		})
	}
}

func (s *NotificationServiceImpl) storeBatch(ctx context.Context, batch []notification.CreateNotificationRequest) error {
	ns := s.build(batch)
	if err := s.InsertMany(ctx, ns); err != nil {
		return err
	}
	s.publish(ns)
	return nil
}

func (s *NotificationServiceImpl) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	if req.UserID == "" {
		return nil
	}
	if s.dispatcher.offer(req) {
		return nil
	}

	slog.Warn("Notification queue unavailable, inserting directly", "user_id", req.UserID, "type", req.Type)
	ns := s.build([]notification.CreateNotificationRequest{req})
	if err := s.Insert(ctx, ns[0]); err != nil {
		return err
	}
	s.publish(ns)
	return nil
}

// QueueBulkNotification logs individual failures and keeps going.
func (s *NotificationServiceImpl) QueueBulkNotification(ctx context.Context, reqs []notification.CreateNotificationRequest) error {
	for _, req := range reqs {
		if err := s.QueueNotification(ctx, req); err != nil {
			slog.Error("Failed to queue notification", "user_id", req.UserID, "type", req.Type, "error", err)
		}
	}
	return nil
}

func (s *NotificationServiceImpl) Inbox(ctx context.Context, userID string, filter notification.ListFilter) (notification.Inbox, error) {
	filter = filter.Normalize()

	items, total, err := s.ListByRecipient(ctx, userID, filter)
	if err != nil {
		return notification.Inbox{}, err
	}
	unread, err := s.CountUnread(ctx, userID)
	if err != nil {
		return notification.Inbox{}, err
	}

	inbox := notification.Inbox{
		Items:  make([]notification.NotificationResponse, len(items)),
		Unread: unread,
		Page:   filter.Page,
		Limit:  filter.Limit,
		Total:  total,
	}
	for i, n := range items {
		inbox.Items[i] = notification.NewNotificationResponse(n)
	}
	return inbox, nil
}

func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.CountUnread(ctx, userID)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, userID string, req notification.MarkReadRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}
	return s.NotificationRepository.MarkRead(ctx, userID, req.IDs, s.now())
}

func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.NotificationRepository.MarkAllRead(ctx, userID, s.now())
}

func (s *NotificationServiceImpl) Delete(ctx context.Context, userID, id string) error {
	if !validator.IsValidUUID(id) {
		return notification.ErrNotificationNotFound
	}
	return s.NotificationRepository.Delete(ctx, userID, id)
}

func (s *NotificationServiceImpl) Subscribe(userID string) (<-chan sse.Event, func()) {
	return s.hub.Subscribe(userID)
}

// Stop is idempotent; queueing after Stop inserts directly.
func (s *NotificationServiceImpl) Stop() {
	s.dispatcher.stop()
	slog.Info("Notification service stopped")
}
