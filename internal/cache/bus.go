package cache

import (
	"sync"

	"github.com/google/uuid"
)

// Event is published whenever a key prefix is invalidated. Subscribers
// typically respond by re-fetching the views they render.
type Event struct {
	Prefix string
}

// Bus is the invalidation-subscription mechanism: a process-wide pub-sub
// channel for invalidation events.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]chan Event
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[string]chan Event),
	}
}

// Subscribe registers a new subscriber and returns its id and event channel.
// The channel is buffered; a slow subscriber drops events rather than
// blocking invalidation.
func (b *Bus) Subscribe() (string, <-chan Event) {
	id := uuid.New().String()
	ch := make(chan Event, 64)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish delivers an event to every subscriber without blocking.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
