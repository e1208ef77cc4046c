package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
)

// dispatcher owns the buffered queue and the batch workers.
type dispatcher struct {
	queue chan notification.CreateNotificationRequest
	store func(ctx context.Context, batch []notification.CreateNotificationRequest) error

	batchSize     int
	flushInterval time.Duration

	// mu orders offers against stop so nothing is queued after the drain.
	mu       sync.RWMutex
	stopped  bool
	wg       sync.WaitGroup
	done     chan struct{}
	stopOnce sync.Once
}

func newDispatcher(cfg Config, store func(context.Context, []notification.CreateNotificationRequest) error) *dispatcher {
	d := &dispatcher{
		queue:         make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		store:         store,
		batchSize:     cfg.BatchSize,
		flushInterval: cfg.FlushInterval,
		done:          make(chan struct{}),
	}
	for i := range cfg.WorkerCount {
		d.wg.Add(1)
		go d.run(i)
	}
	return d
}

// offer enqueues without blocking and reports whether the request was accepted.
func (d *dispatcher) offer(req notification.CreateNotificationRequest) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return false
	}
	select {
	case d.queue <- req:
		return true
	default:
		return false
	}
}

func (d *dispatcher) run(worker int) {
	defer d.wg.Done()

	pending := make([]notification.CreateNotificationRequest, 0, d.batchSize)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := d.store(ctx, pending); err != nil {
			slog.Error("Failed to store notification batch", "worker", worker, "count", len(pending), "error", err)
		}
		cancel()
		pending = pending[:0]
	}
	add := func(req notification.CreateNotificationRequest) {
		pending = append(pending, req)
		if len(pending) >= d.batchSize {
			flush()
		}
	}

	ticker := time.NewTicker(d.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case req := <-d.queue:
			add(req)
		case <-ticker.C:
			flush()
		case <-d.done:
			for {
				select {
				case req := <-d.queue:
					add(req)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (d *dispatcher) stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		close(d.done)
		d.mu.Unlock()
		d.wg.Wait()
	})
}
