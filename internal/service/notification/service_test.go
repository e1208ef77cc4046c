package notification

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "00000000-0000-4000-8000-0000000000a1"
	bob   = "00000000-0000-4000-8000-0000000000b2"
)

type memRepo struct {
	mu      sync.Mutex
	rows    []notification.Notification
	batches int
	singles int
}

func (m *memRepo) Insert(ctx context.Context, n notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.singles++
	m.rows = append(m.rows, n)
	return nil
}

func (m *memRepo) InsertMany(ctx context.Context, ns []notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches++
	m.rows = append(m.rows, ns...)
	return nil
}

func (m *memRepo) ListByRecipient(ctx context.Context, userID string, f notification.ListFilter) ([]notification.Notification, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []notification.Notification
	for _, n := range m.rows {
		if n.UserID == userID && (!f.UnreadOnly || !n.Read) {
			matched = append(matched, n)
		}
	}
	total := int64(len(matched))
	start := min(f.Offset(), len(matched))
	end := min(start+f.Limit, len(matched))
	return matched[start:end], total, nil
}

func (m *memRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, n := range m.rows {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *memRepo) MarkRead(ctx context.Context, userID string, ids []string, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var updated int64
	for i := range m.rows {
		n := &m.rows[i]
		if n.UserID == userID && !n.Read && slices.Contains(ids, n.ID) {
			n.Read, n.ReadAt = true, &at
			updated++
		}
	}
	return updated, nil
}

func (m *memRepo) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var updated int64
	for i := range m.rows {
		n := &m.rows[i]
		if n.UserID == userID && !n.Read {
			n.Read, n.ReadAt = true, &at
			updated++
		}
	}
	return updated, nil
}

func (m *memRepo) Delete(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.rows {
		if n.ID == id && n.UserID == userID {
			m.rows = slices.Delete(m.rows, i, i+1)
			return nil
		}
	}
	return notification.ErrNotificationNotFound
}

func (m *memRepo) stored() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func leaveRequested(userID string) notification.CreateNotificationRequest {
	return notification.CreateNotificationRequest{
		UserID:  userID,
		Type:    notification.TypeLeaveRequest,
		Title:   "New leave request",
		Message: "Dina asked for 2 days of annual leave",
	}
}

func TestQueue_StopFlushesPendingBatch(t *testing.T) {
	repo := &memRepo{}
	svc := NewNotificationService(repo, sse.NewHub(10), Config{WorkerCount: 1, BatchSize: 50, FlushInterval: time.Hour})

	ctx := context.Background()
	require.NoError(t, svc.QueueBulkNotification(ctx, []notification.CreateNotificationRequest{
		leaveRequested(alice), leaveRequested(alice), leaveRequested(bob),
	}))

	svc.Stop()
	svc.Stop()

	assert.Equal(t, 3, repo.stored())
	assert.Equal(t, 1, repo.batches)
	assert.Zero(t, repo.singles)

	unread, err := svc.UnreadCount(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)
}

func TestQueue_FullBatchFlushesImmediately(t *testing.T) {
	repo := &memRepo{}
	svc := NewNotificationService(repo, sse.NewHub(10), Config{WorkerCount: 1, BatchSize: 2, FlushInterval: time.Hour})
	defer svc.Stop()

	ctx := context.Background()
	require.NoError(t, svc.QueueNotification(ctx, leaveRequested(alice)))
	require.NoError(t, svc.QueueNotification(ctx, leaveRequested(alice)))

	assert.Eventually(t, func() bool { return repo.stored() == 2 }, time.Second, 10*time.Millisecond)
}

func TestQueue_AfterStopInsertsDirectly(t *testing.T) {
	repo := &memRepo{}
	svc := NewNotificationService(repo, sse.NewHub(10), Config{WorkerCount: 1})
	svc.Stop()

	require.NoError(t, svc.QueueNotification(context.Background(), leaveRequested(alice)))
	assert.Equal(t, 1, repo.singles)
	assert.Zero(t, repo.batches)
}

func TestQueue_ConcurrentStopLosesNothing(t *testing.T) {
	for range 20 {
		repo := &memRepo{}
		svc := NewNotificationService(repo, sse.NewHub(10), Config{WorkerCount: 2, BatchSize: 8, QueueSize: 16, FlushInterval: time.Hour})

		const senders, perSender = 8, 25
		var wg sync.WaitGroup
		start := make(chan struct{})
		for range senders {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				for range perSender {
					assert.NoError(t, svc.QueueNotification(context.Background(), leaveRequested(alice)))
				}
			}()
		}

		close(start)
		svc.Stop()
		wg.Wait()

		require.Equal(t, senders*perSender, repo.stored())
	}
}

func TestQueue_IgnoresMissingRecipient(t *testing.T) {
	repo := &memRepo{}
	svc := NewNotificationService(repo, sse.NewHub(10), Config{WorkerCount: 1})

	require.NoError(t, svc.QueueNotification(context.Background(), leaveRequested("")))
	svc.Stop()

	assert.Zero(t, repo.stored())
}

func TestSubscribe_ReceivesStoredNotification(t *testing.T) {
	repo := &memRepo{}
	svc := NewNotificationService(repo, sse.NewHub(10), Config{WorkerCount: 1, BatchSize: 1, FlushInterval: time.Hour})
	defer svc.Stop()

	events, cleanup := svc.Subscribe(alice)
	defer cleanup()

	require.NoError(t, svc.QueueNotification(context.Background(), leaveRequested(alice)))

	select {
	case ev := <-events:
		assert.Equal(t, "notification", ev.Event)
		resp, ok := ev.Data.(notification.NotificationResponse)
		require.True(t, ok)
		assert.Equal(t, "New leave request", resp.Title)
		assert.False(t, resp.Read)
		assert.NotEmpty(t, resp.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered")
	}
}

func TestInbox(t *testing.T) {
	repo := &memRepo{}
	svc := NewNotificationService(repo, sse.NewHub(10), Config{WorkerCount: 1, FlushInterval: time.Hour})
	ctx := context.Background()

	reqs := make([]notification.CreateNotificationRequest, 0, 3)
	for range 3 {
		reqs = append(reqs, leaveRequested(alice))
	}
	require.NoError(t, svc.QueueBulkNotification(ctx, reqs))
	svc.Stop()

	t.Run("Defaults and paging", func(t *testing.T) {
		inbox, err := svc.Inbox(ctx, alice, notification.ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, inbox.Page)
		assert.Equal(t, 20, inbox.Limit)
		assert.Len(t, inbox.Items, 3)
		assert.Equal(t, 3, inbox.Unread)

		page, err := svc.Inbox(ctx, alice, notification.ListFilter{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, int64(3), page.Total)
		assert.Equal(t, 2, page.TotalPages())
	})

	t.Run("Mark read", func(t *testing.T) {
		_, err := svc.MarkRead(ctx, alice, notification.MarkReadRequest{})
		assert.Error(t, err)

		inbox, err := svc.Inbox(ctx, alice, notification.ListFilter{})
		require.NoError(t, err)

		// another user's id flips nothing
		updated, err := svc.MarkRead(ctx, bob, notification.MarkReadRequest{IDs: []string{inbox.Items[0].ID}})
		require.NoError(t, err)
		assert.Zero(t, updated)

		updated, err = svc.MarkRead(ctx, alice, notification.MarkReadRequest{IDs: []string{inbox.Items[0].ID}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated)

		unread, err := svc.Inbox(ctx, alice, notification.ListFilter{UnreadOnly: true})
		require.NoError(t, err)
		assert.Len(t, unread.Items, 2)

		updated, err = svc.MarkAllRead(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated)

		count, err := svc.UnreadCount(ctx, alice)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("Delete is owner scoped", func(t *testing.T) {
		inbox, err := svc.Inbox(ctx, alice, notification.ListFilter{})
		require.NoError(t, err)
		id := inbox.Items[0].ID

		assert.ErrorIs(t, svc.Delete(ctx, bob, id), notification.ErrNotificationNotFound)
		assert.ErrorIs(t, svc.Delete(ctx, alice, "not-a-uuid"), notification.ErrNotificationNotFound)
		require.NoError(t, svc.Delete(ctx, alice, id))
		assert.Equal(t, 2, repo.stored())
	})
}
