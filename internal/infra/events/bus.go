// Package events carries auth events from producers (identity
// providers, external ingress) to the session bootstrap loop.
package events

import (
	"sync"

	"campus/internal/domain/entity"
)

// Bus fans auth events out to subscribers. Each subscriber gets its
// own buffered channel; a slow consumer drops events rather than
// blocking the producer.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]chan entity.AuthEvent
	nextID int
	closed bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan entity.AuthEvent)}
}

// Subscribe registers a consumer. The returned function detaches it
// and closes its channel. Subscribing to a closed bus yields an
// already-closed channel.
func (b *Bus) Subscribe() (<-chan entity.AuthEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan entity.AuthEvent, 8)
	if b.closed {
		close(ch)

		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}

	return ch, unsubscribe
}

// Publish delivers an event to every subscriber without blocking.
func (b *Bus) Publish(event entity.AuthEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		select {
		case sub <- event:
		default:
		}
	}
}

// Close detaches and closes every subscriber channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub)
	}
}
