// Package eventbus provides an in-memory publish/subscribe bus.
// The invocation engine publishes a summary event after every call and the
// registrar announces registrations; the audit recorder consumes both.
//
// Design:
//   - Buffered Go channel per subscriber (buffer=64).
//   - Publish never blocks: when a subscriber's buffer is full the event is
//     dropped for that subscriber.
//   - Subscribe returns a read-only channel; the caller owns the consumption
//     loop and must keep draining it.
//   - No persistence; events are fire-and-forget. Durable history lives in
//     the audit log, not here.
package eventbus

import "sync"

// Event is a single published message.
type Event struct {
	Topic   string
	Payload any
}

// EventBus is the interface producers and consumers depend on, so tests can
// substitute a recording bus.
type EventBus interface {
	Publish(topic string, payload any)
	Subscribe(topic string) <-chan Event
}

const subscriberBuffer = 64

// Bus is the in-memory EventBus implementation.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Event
}

// New returns an empty in-memory Bus.
func New() *Bus {
	return &Bus{subscribers: make(map[string][]chan Event)}
}

// Subscribe registers a subscriber for topic and returns its channel.
func (b *Bus) Subscribe(topic string) <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()
	return ch
}

// Publish delivers an Event to every subscriber of topic without blocking.
func (b *Bus) Publish(topic string, payload any) {
	evt := Event{Topic: topic, Payload: payload}
	b.mu.RLock()
	subs := b.subscribers[topic]
	b.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
			// subscriber is not keeping up; drop
		}
	}
}
