// Package bus provides an explicit in-process publish/subscribe bus that
// components receive at construction instead of reaching for ambient
// globals.
package bus

import "sync"

// Handler receives event payloads for a topic.
type Handler func(payload any)

// Bus routes published payloads to subscribed handlers. Safe for
// concurrent use.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[string]map[int]Handler
}

func New() *Bus {
	return &Bus{handlers: make(map[string]map[int]Handler)}
}

// Subscribe registers a handler for a topic and returns an unsubscribe
// function.
func (b *Bus) Subscribe(topic string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[topic] == nil {
		b.handlers[topic] = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.handlers[topic][id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[topic], id)
	}
}

// Publish delivers the payload to every handler subscribed to the topic,
// synchronously and in unspecified order.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[topic]))
	for _, h := range b.handlers[topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
}
