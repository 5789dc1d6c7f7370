// internal/notify/dispatcher.go
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/ais-forwarder/internal/logger"
	"github.com/tamzrod/ais-forwarder/internal/metrics"
)

// Sink is one delivery channel for notifications.
// Implementations may block up to the context deadline; errors are logged and dropped.
type Sink interface {
	Name() string
	Send(ctx context.Context, n Notification) error
}

// Notifier is what the supervisor calls. It must never block.
type Notifier interface {
	Notify(n Notification)
}

// Dispatcher fans notifications out to sinks from its own goroutine.
// Notify enqueues without blocking; a full queue drops the notification.
type Dispatcher struct {
	sinks   []Sink
	queue   chan Notification
	timeout time.Duration

	log     *zap.Logger
	metrics *metrics.Metrics

	done chan struct{}
}

// DispatcherConfig tunes the queue and the per-sink deadline.
type DispatcherConfig struct {
	QueueSize int
	Timeout   time.Duration
}

// NewDispatcher builds a dispatcher. Call Run to start delivery.
func NewDispatcher(cfg DispatcherConfig, sinks []Sink, log *zap.Logger, m *metrics.Metrics) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Dispatcher{
		sinks:   sinks,
		queue:   make(chan Notification, cfg.QueueSize),
		timeout: cfg.Timeout,
		log:     logger.OrNop(log),
		metrics: m,
		done:    make(chan struct{}),
	}
}

// Notify enqueues n for delivery.
func (d *Dispatcher) Notify(n Notification) {
	d.metrics.Notified(n.Event)
	select {
	case d.queue <- n:
	default:
		d.metrics.NotificationDropped()
		d.log.Warn("notification queue full, dropping",
			zap.String("event", n.Event),
			zap.String("title", n.Title),
		)
	}
}

// Run delivers queued notifications until ctx is done, then drains what is
// already queued (each delivery still bounded by the sink timeout).
func (d *Dispatcher) Run(ctx context.Context) error {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return nil
		case n := <-d.queue:
			d.deliver(n)
		}
	}
}

// Wait blocks until Run has returned.
func (d *Dispatcher) Wait() {
	<-d.done
}

func (d *Dispatcher) drain() {
	for {
		select {
		case n := <-d.queue:
			d.deliver(n)
		default:
			return
		}
	}
}

// deliver sends n to every sink concurrently and waits for all of them.
func (d *Dispatcher) deliver(n Notification) {
	var wg sync.WaitGroup
	for _, s := range d.sinks {
		wg.Add(1)
		go func(s Sink) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			defer cancel()
			if err := s.Send(ctx, n); err != nil {
				d.log.Warn("notification delivery failed",
					zap.String("sink", s.Name()),
					zap.String("event", n.Event),
					zap.Error(err),
				)
			}
		}(s)
	}
	wg.Wait()
}
