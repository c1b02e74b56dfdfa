package notify

import "sync"

// ItemsChanged is the payload-less signal that remote list state changed and
// subscribers should reload.
type ItemsChanged struct{}

// Bus is an in-process broadcast of ItemsChanged events. Subscriber channels
// hold one pending signal; publishes while a signal is already pending are
// coalesced, which is safe because the event carries no payload.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[int]chan ItemsChanged
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan ItemsChanged)}
}

// Subscribe registers a listener. The returned cancel func unregisters it
// and closes the channel; cancel is idempotent.
func (b *Bus) Subscribe() (<-chan ItemsChanged, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan ItemsChanged, 1)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish signals every subscriber without blocking.
func (b *Bus) Publish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ItemsChanged{}:
		default:
		}
	}
}

// ErrorBus broadcasts human-readable error strings the same way. Slow
// subscribers drop messages beyond their buffer rather than block a
// publisher.
type ErrorBus struct {
	mu   sync.Mutex
	next int
	subs map[int]chan string
}

func NewErrorBus() *ErrorBus {
	return &ErrorBus{subs: make(map[int]chan string)}
}

func (b *ErrorBus) Subscribe() (<-chan string, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan string, 8)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (b *ErrorBus) Publish(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- message:
		default:
		}
	}
}
