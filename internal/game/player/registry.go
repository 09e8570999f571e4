package player

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrDoesNotExist is returned when a player ID is not present in the registry.
var ErrDoesNotExist = errors.New("player does not exist")

// Registry tracks all players that have ever joined a room, keyed by player
// ID. Players are never removed; disconnecting only flips their status so a
// later session can resume. All methods are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	players  map[uuid.UUID]*Player
	order    []uuid.UUID // join order, for stable iteration
	owner    uuid.UUID
	hasOwner bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{players: make(map[uuid.UUID]*Player)}
}

// Add registers a new player with the given name and outbound conn.
// The first player added becomes the room owner.
//
// Precondition: name must be non-empty; conn must be non-nil.
// Postcondition: Returns the created Player with a fresh unique ID.
func (r *Registry) Add(name string, conn *Conn) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := newPlayer(name, conn)
	r.players[p.id] = p
	r.order = append(r.order, p.id)
	if !r.hasOwner {
		r.owner = p.id
		r.hasOwner = true
	}
	return p
}

// Get returns the player with the given ID.
//
// Postcondition: Returns ErrDoesNotExist if the ID is unknown, never a
// silent default.
func (r *Registry) Get(id uuid.UUID) (*Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[id]
	if !ok {
		return nil, ErrDoesNotExist
	}
	return p, nil
}

// AssignTeam sets the player's role to the given team, as spymaster or ally.
func (r *Registry) AssignTeam(id uuid.UUID, team Team, isSpymaster bool) error {
	p, err := r.Get(id)
	if err != nil {
		return err
	}
	title := TitleAlly
	if isSpymaster {
		title = TitleSpymaster
	}
	p.setRole(Role{Team: team, Title: title})
	return nil
}

// SetTitle replaces the player's role title, keeping their team.
//
// Postcondition: Returns ErrDoesNotExist for an unknown ID, or an error if
// the player has no role yet.
func (r *Registry) SetTitle(id uuid.UUID, title RoleTitle) error {
	p, err := r.Get(id)
	if err != nil {
		return err
	}
	if !p.setTitle(title) {
		return errors.New("player has no role")
	}
	return nil
}

// SetStatus updates the player's connection status.
func (r *Registry) SetStatus(id uuid.UUID, status Status) error {
	p, err := r.Get(id)
	if err != nil {
		return err
	}
	p.setStatus(status)
	return nil
}

// Rebind replaces the player's outbound conn on reconnect and marks them
// connected.
func (r *Registry) Rebind(id uuid.UUID, conn *Conn) error {
	p, err := r.Get(id)
	if err != nil {
		return err
	}
	p.rebind(conn)
	return nil
}

// Snapshot returns all players in join order. The slice is a copy; the
// players themselves are shared and individually concurrency-safe.
func (r *Registry) Snapshot() []*Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

// Owner returns the room owner's ID, if any player has joined.
func (r *Registry) Owner() (uuid.UUID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.owner, r.hasOwner
}

// Count returns the number of registered players.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
