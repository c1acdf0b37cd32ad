package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nikhilbhutani/dinehub/internal/metrics"
	"github.com/nikhilbhutani/dinehub/internal/models"
)

// Sink persists security events.
type Sink interface {
	WriteSecurityEvent(ctx context.Context, evt models.SecurityEvent) error
}

// Recorder queues security events for a single background writer. Record never
// blocks the caller; events are dropped when the queue is full.
type Recorder struct {
	sink    Sink
	logger  *slog.Logger
	metrics *metrics.Metrics
	events  chan models.SecurityEvent
	done    chan struct{}

	// mu guards closed; Record holds it shared while sending.
	mu     sync.RWMutex
	closed bool
}

func NewRecorder(sink Sink, logger *slog.Logger, m *metrics.Metrics, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = 1024
	}
	rec := &Recorder{
		sink:    sink,
		logger:  logger,
		metrics: m,
		events:  make(chan models.SecurityEvent, buffer),
		done:    make(chan struct{}),
	}
	go rec.processLoop()
	return rec
}

func (r *Recorder) Record(evt models.SecurityEvent) {
	if evt.At.IsZero() {
		evt.At = time.Now()
	}

	attrs := []any{"action", evt.Action, "reason", evt.Reason, "ip", evt.IP}
	if evt.TenantID != nil {
		attrs = append(attrs, "restaurant_id", *evt.TenantID)
	}
	if evt.UserID != nil {
		attrs = append(attrs, "user_id", *evt.UserID)
	}
	if evt.Email != "" {
		attrs = append(attrs, "email", evt.Email)
	}
	r.logger.Warn("security event", attrs...)
	r.metrics.Security(evt.Action)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.metrics.SecurityDropped()
		r.logger.Warn("security event recorder closed, dropping", "action", evt.Action)
		return
	}
	select {
	case r.events <- evt:
	default:
		r.metrics.SecurityDropped()
		r.logger.Warn("security event queue full, dropping", "action", evt.Action)
	}
}

// Close stops accepting events and waits for the queue to drain. Events
// recorded afterwards are dropped.
func (r *Recorder) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.events)
	}
	r.mu.Unlock()
	<-r.done
}

func (r *Recorder) processLoop() {
	defer close(r.done)
	for evt := range r.events {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.sink.WriteSecurityEvent(ctx, evt); err != nil {
			r.logger.Error("failed to persist security event", "action", evt.Action, "error", err)
		}
		cancel()
	}
}
