// Package realtime delivers row-change events to scoped subscribers.
package realtime

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// EventType identifies the kind of row change.
type EventType string

// Row-change event types.
const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Table names carried on events.
const (
	TableMessages = "messages"
	TableProfiles = "profiles"
)

// Event is a single row-change notification, scoped to one profile.
type Event struct {
	Type      EventType
	Table     string
	ProfileID uuid.UUID
}

// Subscription receives events for one (table, profile) scope. Stop must be
// called before the owning context goes away; it is safe to call twice.
type Subscription struct {
	C chan Event

	hub  *Hub
	once sync.Once

	table     string
	profileID uuid.UUID
}

// Stop unsubscribes and closes C.
func (s *Subscription) Stop() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.C)
	})
}

// Hub fans row-change events out to scoped subscriptions. Delivery is
// non-blocking: a subscriber that cannot keep up drops events rather than
// stalling publishers.
type Hub struct {
	log *slog.Logger

	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// NewHub creates an empty hub.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{log: log, subs: make(map[*Subscription]struct{})}
}

// Subscribe registers interest in changes to one table scoped to one profile.
func (h *Hub) Subscribe(table string, profileID uuid.UUID) *Subscription {
	sub := &Subscription{
		C:         make(chan Event, 16),
		hub:       h,
		table:     table,
		profileID: profileID,
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Publish delivers ev to every subscription whose scope matches. Sends happen
// under the read lock so Stop cannot close a channel mid-send.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		if sub.table != ev.Table || sub.profileID != ev.ProfileID {
			continue
		}
		select {
		case sub.C <- ev:
		default:
			h.log.Warn("dropping realtime event for slow subscriber",
				"table", ev.Table, "type", string(ev.Type))
		}
	}
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}
