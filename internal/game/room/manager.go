package room

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"codemafia/internal/config"
	"codemafia/internal/game/wordbank"
)

// CodeLength is the number of characters in a room join code.
const CodeLength = 4

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ErrRoomNotFound is returned when a join code resolves to no room.
var ErrRoomNotFound = errors.New("room not found")

// Manager owns the set of live rooms keyed by join code. It runs a janitor
// that evicts rooms idle beyond the configured TTL, and implements the
// server lifecycle Service contract.
type Manager struct {
	log  *zap.Logger
	bank *wordbank.Bank
	cfg  config.RoomsConfig

	mu    sync.Mutex
	rooms map[string]*Room
	rng   *rand.Rand

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewManager creates a manager backed by the given word bank.
//
// Precondition: log and bank must be non-nil.
func NewManager(log *zap.Logger, bank *wordbank.Bank, cfg config.RoomsConfig) *Manager {
	return &Manager{
		log:   log,
		bank:  bank,
		cfg:   cfg,
		rooms: make(map[string]*Room),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		done:  make(chan struct{}),
	}
}

// Create allocates a room under a fresh join code and returns it.
//
// Postcondition: The room is immediately resolvable via Lookup. A code
// collision replaces the previous room, which is closed in the background.
func (m *Manager) Create() *Room {
	m.mu.Lock()
	code := m.generateCode()
	prev := m.rooms[code]
	r := NewRoom(m.log, code, m.bank)
	m.rooms[code] = r
	m.mu.Unlock()

	if prev != nil {
		m.log.Warn("room code collision, replacing previous room",
			zap.String("room", code),
		)
		go prev.Close()
	}

	m.log.Info("room created", zap.String("room", code))
	return r
}

// Lookup resolves a join code to its room.
//
// Postcondition: Returns ErrRoomNotFound for unknown codes; matching is
// case-insensitive.
func (m *Manager) Lookup(code string) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[strings.ToUpper(code)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// Remove closes the room under code and drops it from the index. Removing
// an unknown code is a no-op.
func (m *Manager) Remove(code string) {
	m.mu.Lock()
	r, ok := m.rooms[strings.ToUpper(code)]
	if ok {
		delete(m.rooms, strings.ToUpper(code))
	}
	m.mu.Unlock()

	if ok {
		r.Close()
		m.log.Info("room removed", zap.String("room", code))
	}
}

// Count returns the number of live rooms.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

// Start runs the idle-room janitor until Stop is called. The loop holds a
// WaitGroup count for its whole lifetime so evictIdle's Adds never race a
// Wait at zero and Stop joins the loop before waiting out its evictions.
func (m *Manager) Start() error {
	m.wg.Add(1)
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.JanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle()
		case <-m.done:
			return nil
		}
	}
}

// Stop halts the janitor, waits for it and any in-flight evictions to
// finish, and closes every remaining room.
func (m *Manager) Stop() {
	m.closeOnce.Do(func() {
		close(m.done)
	})

	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for code, r := range m.rooms {
		rooms = append(rooms, r)
		delete(m.rooms, code)
	}
	m.mu.Unlock()

	for _, r := range rooms {
		r.Close()
	}
	m.wg.Wait()
}

func (m *Manager) evictIdle() {
	cutoff := time.Now().Add(-m.cfg.IdleTTL)

	m.mu.Lock()
	var stale []*Room
	for code, r := range m.rooms {
		if r.LastActive().Before(cutoff) {
			stale = append(stale, r)
			delete(m.rooms, code)
		}
	}
	m.mu.Unlock()

	for _, r := range stale {
		m.log.Info("evicting idle room",
			zap.String("room", r.Code()),
			zap.Time("last_active", r.LastActive()),
		)
		m.wg.Add(1)
		go func(r *Room) {
			defer m.wg.Done()
			r.Close()
		}(r)
	}
}

// generateCode draws CodeLength uppercase letters. Caller holds m.mu.
func (m *Manager) generateCode() string {
	var sb strings.Builder
	sb.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		sb.WriteByte(codeAlphabet[m.rng.Intn(len(codeAlphabet))])
	}
	return sb.String()
}
