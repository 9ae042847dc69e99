// Package realtime is an in-process publish/subscribe hub that tells open
// browser sessions when the journal changed.
//
// Delivery is best effort: every listener has a buffered channel, and a
// listener whose buffer is full misses that event. Nothing is persisted or
// replayed.
package realtime

import (
	"sync"
)

// EventType names what happened to a record.
type EventType string

const (
	RecordCreated EventType = "created"
	RecordUpdated EventType = "updated"
	RecordDeleted EventType = "deleted"
)

// RecordEvent identifies the record that changed. Listeners reload from
// storage rather than trusting a payload.
type RecordEvent struct {
	Type EventType `json:"type"`
	ID   string    `json:"id"`
}

const defaultBufSize = 32

// Hub fans RecordEvents out to registered listeners. It is safe for
// concurrent use.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan RecordEvent
	nextID    uint64
	bufSize   int
	dropped   uint64
}

// NewHub returns a hub with bufSize slots per listener, 32 when bufSize
// is not positive.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = defaultBufSize
	}
	return &Hub{
		listeners: make(map[uint64]chan RecordEvent),
		bufSize:   bufSize,
	}
}

// Register adds a listener. Call Unregister with the returned id when done.
func (h *Hub) Register() (uint64, <-chan RecordEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan RecordEvent, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes the listener and closes its channel. Unknown ids are
// ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Publish delivers ev to every listener with room in its buffer.
func (h *Hub) Publish(ev RecordEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.listeners {
		select {
		case ch <- ev:
		default:
			h.dropped++
		}
	}
}

// Size returns the number of registered listeners.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// Dropped returns how many deliveries were skipped for full buffers.
func (h *Hub) Dropped() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}
