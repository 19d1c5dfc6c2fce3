package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
)

type Event struct {
	ActorID  *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Writer persists one audit event.
type Writer interface {
	Write(ctx context.Context, ev Event) error
}

const queueSize = 100

// Dispatcher writes audit events off the request path. A nil *Dispatcher
// discards events.
type Dispatcher struct {
	writer  Writer
	log     *zap.Logger
	metrics *metrics.Collector

	queue chan Event
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(w Writer, log *zap.Logger, m *metrics.Collector) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		writer:  w,
		log:     log,
		metrics: m,
		queue:   make(chan Event, queueSize),
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := d.writer.Write(ctx, ev)
		cancel()

		if err != nil {
			d.log.Error("audit write failed",
				zap.String("action", ev.Action),
				zap.String("entity", ev.Entity),
				zap.Error(err),
			)
			continue
		}
		d.metrics.AuditWritten()
	}
}

// Dispatch never blocks. Events are dropped when the queue is full or the
// dispatcher has been shut down.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(ev, "closed")
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.drop(ev, "queue full")
	}
}

func (d *Dispatcher) drop(ev Event, reason string) {
	d.metrics.AuditDropped()
	d.log.Warn("audit event dropped",
		zap.String("reason", reason),
		zap.String("action", ev.Action),
	)
}

// Shutdown stops accepting events and waits up to timeout for the queue to
// drain.
func (d *Dispatcher) Shutdown(timeout time.Duration) {
	if d == nil {
		return
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
	case <-time.After(timeout):
		d.log.Warn("audit shutdown timed out", zap.Int("pending", len(d.queue)))
	}
}
