package player

import (
	"sync"

	"github.com/google/uuid"
)

// Player tracks a joined player's state. All methods are safe for concurrent
// use; each mutation is atomic with respect to the whole entry so concurrent
// readers never observe a torn record.
type Player struct {
	id uuid.UUID

	mu     sync.RWMutex
	name   string
	role   *Role
	status Status
	conn   *Conn
}

func newPlayer(name string, conn *Conn) *Player {
	return &Player{
		id:     uuid.New(),
		name:   name,
		status: StatusConnected,
		conn:   conn,
	}
}

// ID returns the player's unique identifier.
func (p *Player) ID() uuid.UUID { return p.id }

// Name returns the player's display name.
func (p *Player) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name
}

// Role returns a copy of the player's current role, or nil if the player has
// not joined a team yet.
func (p *Player) Role() *Role {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.role == nil {
		return nil
	}
	r := *p.role
	return &r
}

// Status returns the player's connection status.
func (p *Player) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Push enqueues serialized event data on the player's current outbound conn.
//
// Postcondition: Returns an error if the conn is closed or full; the caller
// treats that as an isolated delivery failure for this recipient only.
func (p *Player) Push(data []byte) error {
	p.mu.RLock()
	conn := p.conn
	p.mu.RUnlock()
	return conn.Push(data)
}

// CloseConn closes the player's current outbound conn, ending the consumer
// draining it.
func (p *Player) CloseConn() error {
	p.mu.RLock()
	conn := p.conn
	p.mu.RUnlock()
	return conn.Close()
}

func (p *Player) setRole(r Role) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.role = &r
}

func (p *Player) setTitle(title RoleTitle) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.role == nil {
		return false
	}
	p.role = &Role{Team: p.role.Team, Title: title}
	return true
}

func (p *Player) setStatus(s Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = s
}

func (p *Player) rebind(conn *Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conn = conn
	p.status = StatusConnected
}
