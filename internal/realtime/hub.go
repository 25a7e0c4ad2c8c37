package realtime

import (
	"sync"

	"tuntun/internal/metrics"
)

// Topics published by the services.
const (
	TopicClients  = "clients"
	TopicPayments = "payments"
)

// ClientPaymentsTopic is the per-client payments topic.
func ClientPaymentsTopic(clientID string) string {
	return TopicPayments + ":" + clientID
}

// Hub fans change notifications out to topic subscribers. Notifications
// carry no payload; subscribers re-read the current state.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{
		topics: make(map[string]map[*Subscription]struct{}),
	}
}

// Subscription receives at most one pending notification; further publishes
// before it is drained are coalesced.
type Subscription struct {
	topic string
	hub   *Hub
	ch    chan struct{}
	once  sync.Once
}

// C is signalled after every change on the topic.
func (s *Subscription) C() <-chan struct{} {
	return s.ch
}

// Close unregisters the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unregister(s)
	})
}

func (h *Hub) Subscribe(topic string) *Subscription {
	s := &Subscription{topic: topic, hub: h, ch: make(chan struct{}, 1)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Subscription]struct{})
	}
	h.topics[topic][s] = struct{}{}
	metrics.SubscriberAdded()
	return s
}

func (h *Hub) unregister(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.topics[s.topic]; ok {
		if _, ok := subs[s]; ok {
			delete(subs, s)
			metrics.SubscriberRemoved()
		}
		if len(subs) == 0 {
			delete(h.topics, s.topic)
		}
	}
}

// Publish notifies every subscriber of the given topics without blocking.
func (h *Hub) Publish(topics ...string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, topic := range topics {
		for s := range h.topics[topic] {
			select {
			case s.ch <- struct{}{}:
			default:
			}
		}
	}
}

// Subscribers reports how many subscriptions a topic has.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
