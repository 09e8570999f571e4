package dispatch

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"codemafia/internal/game/event"
	"codemafia/internal/game/player"
)

// ErrNoSuchRange is returned when a replay query starts at or beyond the end
// of the cache; the caller falls back to a full state resync.
var ErrNoSuchRange = errors.New("no such sequence range")

// Cache is the append-only ordered log of sequenced events used for
// reconnect replay. It grows for the life of the room and is never
// compacted. Safe for concurrent use by the dispatcher consumer (writes)
// and reconnect queries (reads).
type Cache struct {
	mu     sync.RWMutex
	events []event.Sequenced
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{}
}

// Append records an event under the next sequence number.
//
// Postcondition: Sequence numbers start at 0 and are strictly increasing,
// gap-free, in append order.
func (c *Cache) Append(evt event.Event) event.Sequenced {
	c.mu.Lock()
	defer c.mu.Unlock()

	seq := event.Sequenced{Seq: len(c.events), Event: evt}
	c.events = append(c.events, seq)
	return seq
}

// Len returns the number of cached events.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.events)
}

// QueryFrom returns, in ascending sequence order, every cached event with
// sequence number greater than fromSeq whose recipient matches the
// requesting player's ID and current role.
//
// Postcondition: Returns ErrNoSuchRange when fromSeq is not less than the
// cache length.
func (c *Cache) QueryFrom(fromSeq int, id uuid.UUID, role *player.Role) ([]event.Sequenced, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if fromSeq >= len(c.events) {
		return nil, ErrNoSuchRange
	}

	start := fromSeq + 1
	if start < 0 {
		start = 0
	}

	var out []event.Sequenced
	for _, s := range c.events[start:] {
		if s.Event.Recipient.Matches(id, role) {
			out = append(out, s)
		}
	}
	return out, nil
}
