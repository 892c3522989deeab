// Package realtime fans item changes out to the subscribers of a workspace
// channel. Every subscription gets its own copy of each event; nothing is
// deduplicated across subscriptions of the same user.
package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Channel identifies a stream: one workspace and one item type.
type Channel struct {
	WorkspaceID uuid.UUID
	ItemType    string
}

type Event struct {
	Action   string    `json:"action"`
	ItemType string    `json:"item_type"`
	ItemID   uuid.UUID `json:"item_id"`
	Data     any       `json:"data,omitempty"`
	At       time.Time `json:"at"`
}

// Subscription receives the events of one channel until Close is called.
type Subscription struct {
	C       <-chan Event
	ch      chan Event
	hub     *Hub
	channel Channel
	once    sync.Once
}

func (s *Subscription) Close() {
	s.once.Do(func() { s.hub.unsubscribe(s) })
}

type Hub struct {
	mu      sync.RWMutex
	subs    map[Channel]map[*Subscription]struct{}
	buffer  int
	dropped uint64
}

// NewHub creates a hub whose subscriptions buffer up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		subs:   make(map[Channel]map[*Subscription]struct{}),
		buffer: buffer,
	}
}

func (h *Hub) Subscribe(c Channel) *Subscription {
	ch := make(chan Event, h.buffer)
	sub := &Subscription{C: ch, ch: ch, hub: h, channel: c}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[c] == nil {
		h.subs[c] = make(map[*Subscription]struct{})
	}
	h.subs[c][sub] = struct{}{}
	return sub
}

// Publish never blocks; a subscriber with a full buffer misses the event.
func (h *Hub) Publish(c Channel, e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	if e.ItemType == "" {
		e.ItemType = c.ItemType
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[c] {
		select {
		case sub.ch <- e:
		default:
			h.dropped++
		}
	}
}

// Subscribers returns the number of open subscriptions on c.
func (h *Hub) Subscribers(c Channel) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[c])
}

// Dropped returns how many deliveries were skipped because a buffer was full.
func (h *Hub) Dropped() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

func (h *Hub) unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.subs[s.channel]
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(h.subs, s.channel)
	}
	close(s.ch)
}
