// Package notify broadcasts the unread notification count to interested
// views.
package notify

import "sync"

// UnreadCount is the payload published whenever the unread count changes.
type UnreadCount struct {
	Count int
}

// Hub fans out UnreadCount values. Each subscriber holds at most one
// pending value; a newer publish replaces an unread one.
type Hub struct {
	mu     sync.Mutex
	subs   map[int]chan UnreadCount
	next   int
	last   UnreadCount
	primed bool
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan UnreadCount)}
}

// Subscribe returns a channel of counts and an unsubscribe func. If a count
// was already published, it is delivered immediately.
func (h *Hub) Subscribe() (<-chan UnreadCount, func()) {
	ch := make(chan UnreadCount, 1)

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	if h.primed {
		ch <- h.last
	}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// Publish delivers c to every subscriber without blocking.
func (h *Hub) Publish(c UnreadCount) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = c
	h.primed = true
	for _, ch := range h.subs {
		// Drop a stale pending value so the latest always lands.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- c:
		default:
		}
	}
}

// Last returns the most recently published count.
func (h *Hub) Last() (UnreadCount, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last, h.primed
}
