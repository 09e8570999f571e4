// Package event defines the server-originated events pushed to players,
// their recipient addressing rules, and the sequenced form used for replay.
package event

import (
	"encoding/json"

	"github.com/google/uuid"

	"codemafia/internal/game/player"
)

// Kind is the coarse event family an event content belongs to.
type Kind string

const (
	KindChat   Kind = "chat"
	KindGame   Kind = "game"
	KindRoom   Kind = "room"
	KindPlayer Kind = "player"
)

// Content is a single event payload. Implementations are immutable value
// types; Type is the wire tag written into the JSON envelope.
type Content interface {
	Kind() Kind
	Type() string
}

// Event pairs a payload with its recipient addressing rule.
type Event struct {
	Recipient Recipient
	Content   Content
}

// recipientScope discriminates the three addressing rules.
type recipientScope int

const (
	scopeAll recipientScope = iota
	scopeRoles
	scopePlayers
)

// Recipient is the addressing rule attached to an outgoing event: every
// player, an exact (team, title) role list, or an exact player ID list.
type Recipient struct {
	scope recipientScope
	roles []player.Role
	ids   []uuid.UUID
}

// ToAll addresses every registered player.
func ToAll() Recipient {
	return Recipient{scope: scopeAll}
}

// ToRoles addresses players whose current role is contained in the list.
func ToRoles(roles ...player.Role) Recipient {
	return Recipient{scope: scopeRoles, roles: roles}
}

// ToPlayers addresses players by exact ID membership.
func ToPlayers(ids ...uuid.UUID) Recipient {
	return Recipient{scope: scopePlayers, ids: ids}
}

// Matches reports whether the event addressed by this recipient should be
// delivered to the player with the given ID and current role.
//
// Postcondition: Role-scoped recipients never match a player without a role.
func (r Recipient) Matches(id uuid.UUID, role *player.Role) bool {
	switch r.scope {
	case scopeAll:
		return true
	case scopePlayers:
		for _, want := range r.ids {
			if want == id {
				return true
			}
		}
		return false
	case scopeRoles:
		if role == nil {
			return false
		}
		for _, want := range r.roles {
			if want == *role {
				return true
			}
		}
		return false
	}
	return false
}

// MatchesPlayer is Matches applied to a live player record, evaluated
// against the player's role at call time.
func (r Recipient) MatchesPlayer(p *player.Player) bool {
	return r.Matches(p.ID(), p.Role())
}

// Sequenced is an event tagged with the monotonically increasing sequence
// number assigned by the dispatcher at cache-append time.
type Sequenced struct {
	Seq   int
	Event Event
}

// envelope is the wire form of an event content.
type envelope struct {
	Type string  `json:"type"`
	Data Content `json:"data"`
}

// Marshal serializes a content value into its {type, data} wire envelope.
func Marshal(c Content) ([]byte, error) {
	return json.Marshal(envelope{Type: c.Type(), Data: c})
}

// MarshalJSON writes the sequenced wire form: {seq, event: {type, data}}.
func (s Sequenced) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Seq   int      `json:"seq"`
		Event envelope `json:"event"`
	}{
		Seq:   s.Seq,
		Event: envelope{Type: s.Event.Content.Type(), Data: s.Event.Content},
	})
}
