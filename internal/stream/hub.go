// Package stream delivers routed alert notifications to staff in real time.
//
// The Hub owns a bounded queue of pending notifications that pollers drain
// atomically, fans every notification out to websocket subscribers of the
// target staff member, and optionally mirrors it to an external stream.
package stream

import (
	"context"
	"sync"

	"github.com/wardwatch/wardwatch/apps/backend/internal/metrics"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

const (
	defaultMaxPending = 1000
	subscriberBuffer  = 64
)

// Mirror copies notifications to an external log
type Mirror interface {
	Append(ctx context.Context, n model.AlertNotification) error
}

// Subscription receives the notifications of one staff member
type Subscription struct {
	C       <-chan model.AlertNotification
	ch      chan model.AlertNotification
	staffID string
	hub     *Hub
	once    sync.Once
}

// Close detaches the subscription and closes C
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s)
	})
}

// Hub is safe for concurrent use
type Hub struct {
	mu         sync.Mutex
	pending    []model.AlertNotification
	maxPending int
	subs       map[string]map[*Subscription]struct{}
	mirror     Mirror
	logger     *zap.Logger

	allowedOrigins []string
}

// NewHub creates a new Hub. maxPending bounds the drain queue; mirror may be nil.
func NewHub(maxPending int, mirror Mirror, logger *zap.Logger) *Hub {
	if maxPending <= 0 {
		maxPending = defaultMaxPending
	}
	return &Hub{
		maxPending: maxPending,
		subs:       make(map[string]map[*Subscription]struct{}),
		mirror:     mirror,
		logger:     logger,
	}
}

// Publish enqueues notifications and delivers them to live subscribers.
// When the queue is full the oldest entries are dropped.
func (h *Hub) Publish(ctx context.Context, notifications ...model.AlertNotification) {
	if len(notifications) == 0 {
		return
	}

	h.mu.Lock()
	h.pending = append(h.pending, notifications...)
	if overflow := len(h.pending) - h.maxPending; overflow > 0 {
		h.pending = append([]model.AlertNotification(nil), h.pending[overflow:]...)
		h.logger.Warn("alert queue full, dropped oldest notifications", zap.Int("dropped", overflow))
	}

	for _, n := range notifications {
		for sub := range h.subs[n.StaffID] {
			select {
			case sub.ch <- n:
			default:
				h.logger.Warn("subscriber buffer full, notification skipped",
					zap.String("staff_id", n.StaffID),
					zap.String("alert_id", n.AlertID),
				)
			}
		}
	}
	h.mu.Unlock()

	if h.mirror == nil {
		return
	}
	for _, n := range notifications {
		if err := h.mirror.Append(ctx, n); err != nil {
			metrics.ObserveExternalCall("stream_mirror", metrics.OutcomeError)
			h.logger.Warn("failed to mirror alert notification",
				zap.Error(err),
				zap.String("alert_id", n.AlertID),
			)
			continue
		}
		metrics.ObserveExternalCall("stream_mirror", metrics.OutcomeSuccess)
	}
}

// Drain returns every pending notification and clears the queue.
// Each notification is returned by exactly one call.
func (h *Hub) Drain() []model.AlertNotification {
	h.mu.Lock()
	defer h.mu.Unlock()

	drained := h.pending
	h.pending = nil
	if drained == nil {
		return []model.AlertNotification{}
	}
	return drained
}

// Pending returns the number of queued notifications
func (h *Hub) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pending)
}

// Subscribe registers a live subscriber for one staff member
func (h *Hub) Subscribe(staffID string) *Subscription {
	ch := make(chan model.AlertNotification, subscriberBuffer)
	sub := &Subscription{C: ch, ch: ch, staffID: staffID, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[staffID] == nil {
		h.subs[staffID] = make(map[*Subscription]struct{})
	}
	h.subs[staffID][sub] = struct{}{}
	return sub
}

// SubscriberCount returns the number of live subscriptions
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	count := 0
	for _, subs := range h.subs {
		count += len(subs)
	}
	return count
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.subs[sub.staffID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subs, sub.staffID)
		}
	}
	close(sub.ch)
}
