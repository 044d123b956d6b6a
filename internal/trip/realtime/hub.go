// Package realtime fans trip events out to live viewers.
//
// The hub keeps, per trip id, the set of connected subscribers. Publishing
// delivers to the subscribers present when delivery starts; nothing is
// queued or replayed, so viewers fetch current state when they connect and
// rely on the stream only for incremental updates.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Subscriber is one live connection. Send must return once the message is
// written or the write fails; it must not block indefinitely. A failed Send
// ends the subscription.
type Subscriber interface {
	ID() string
	Send(ctx context.Context, msg []byte) error
}

type topic struct {
	// send serializes delivery so every subscriber sees one order.
	send sync.Mutex
	subs map[string]Subscriber // guarded by Hub.mu
}

// Hub is an in-process publish/subscribe multiplexer keyed by trip id.
type Hub struct {
	mu     sync.Mutex
	topics map[string]*topic
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		topics: make(map[string]*topic),
		logger: logger,
	}
}

// Subscribe registers sub under tripID. Subscribing the same id twice
// replaces the earlier handle.
func (h *Hub) Subscribe(tripID string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, ok := h.topics[tripID]
	if !ok {
		t = &topic{subs: make(map[string]Subscriber)}
		h.topics[tripID] = t
	}
	t.subs[sub.ID()] = sub
}

// Unsubscribe removes sub from tripID. Removing an absent subscriber is a no-op.
func (h *Hub) Unsubscribe(tripID string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, ok := h.topics[tripID]
	if !ok {
		return
	}
	delete(t.subs, sub.ID())
	if len(t.subs) == 0 {
		delete(h.topics, tripID)
	}
}

// Subscribers returns how many connections are watching tripID.
func (h *Hub) Subscribers(tripID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if t, ok := h.topics[tripID]; ok {
		return len(t.subs)
	}
	return 0
}

// Total returns the number of live subscriptions across all trips.
func (h *Hub) Total() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, t := range h.topics {
		n += len(t.subs)
	}
	return n
}

// Publish encodes event as JSON and delivers it to every subscriber of
// tripID. Subscribers that fail delivery are dropped.
func (h *Hub) Publish(ctx context.Context, tripID string, event any) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.logger.ErrorContext(ctx, "realtime: encode event",
			slog.String("trip_id", tripID),
			slog.Any("err", err),
		)
		return
	}
	h.Broadcast(ctx, tripID, msg, "")
}

// Relay passes text verbatim to every subscriber of tripID except the sender.
func (h *Hub) Relay(ctx context.Context, tripID string, text []byte, from Subscriber) int {
	return h.Broadcast(ctx, tripID, text, from.ID())
}

// Broadcast delivers msg to the subscribers of tripID, skipping the
// subscriber whose id is except. It returns the number of successful sends.
// A trip without subscribers drops the message. A subscriber whose Send
// fails is unsubscribed, so a stalled viewer costs at most one write.
func (h *Hub) Broadcast(ctx context.Context, tripID string, msg []byte, except string) int {
	h.mu.Lock()
	t, ok := h.topics[tripID]
	h.mu.Unlock()
	if !ok {
		return 0
	}

	t.send.Lock()
	defer t.send.Unlock()

	// Snapshot so concurrent (un)subscribes don't race the iteration.
	h.mu.Lock()
	subs := make([]Subscriber, 0, len(t.subs))
	for id, s := range t.subs {
		if id != except {
			subs = append(subs, s)
		}
	}
	h.mu.Unlock()

	delivered := 0
	for _, s := range subs {
		if err := s.Send(ctx, msg); err != nil {
			h.logger.DebugContext(ctx, "realtime: delivery failed, dropping subscriber",
				slog.String("trip_id", tripID),
				slog.String("subscriber", s.ID()),
				slog.Any("err", err),
			)
			h.evict(tripID, s)
			continue
		}
		delivered++
	}
	return delivered
}

// evict removes sub from tripID unless its id was re-subscribed with a
// different handle meanwhile.
func (h *Hub) evict(tripID string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, ok := h.topics[tripID]
	if !ok || t.subs[sub.ID()] != sub {
		return
	}
	delete(t.subs, sub.ID())
	if len(t.subs) == 0 {
		delete(h.topics, tripID)
	}
}
