// Package observe publishes state snapshots to subscribers.
//
// A subscriber channel holds at most one pending value. When a new value is
// published before the previous one was read, the stale value is replaced,
// so a slow reader never blocks the publisher and always ends up with the
// latest state.
package observe

import (
	"context"
	"sync"
)

type Hub[T any] struct {
	mu     sync.Mutex
	subs   map[chan T]struct{}
	closed bool
	done   chan struct{}
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[chan T]struct{}), done: make(chan struct{})}
}

// Subscribe returns a channel receiving every published value (or the most
// recent one, for slow readers), starting with initial. The channel is
// closed when ctx is done or the hub is closed.
func (h *Hub[T]) Subscribe(ctx context.Context, initial T) <-chan T {
	ch := make(chan T, 1)
	ch <- initial

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				h.unsubscribe(ch)
			case <-h.done:
			}
		}()
	}
	return ch
}

// Publish delivers v to every subscriber without blocking.
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

// Close closes every subscriber channel. Later subscriptions get a channel
// holding only their initial value, already closed.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
	for ch := range h.subs {
		close(ch)
	}
	clear(h.subs)
}

func (h *Hub[T]) unsubscribe(ch chan T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}
