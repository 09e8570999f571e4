package engine

import (
	"github.com/google/uuid"

	"codemafia/internal/game/player"
)

// TeamTurn is one entry in the coordinator rotation.
type TeamTurn struct {
	Team        player.Team
	Coordinator uuid.UUID
}

// TurnStateMachine holds the cyclic coordinator ordering. It is built once
// at game start by interleaving each team's non-spymaster players, red
// before blue, in stable join order within a team. The sequence never
// shrinks; advancing wraps modulo its length.
type TurnStateMachine struct {
	coordinators []TeamTurn
	index        int
}

// NewTurnStateMachine builds the rotation from the given players. Players
// without a role and spymasters are skipped. An empty rotation is valid:
// turns can then never advance.
func NewTurnStateMachine(players []*player.Player) *TurnStateMachine {
	var red, blue []TeamTurn
	for _, p := range players {
		role := p.Role()
		if role == nil || !role.Coordinates() {
			continue
		}
		turn := TeamTurn{Team: role.Team, Coordinator: p.ID()}
		switch role.Team {
		case player.TeamRed:
			red = append(red, turn)
		case player.TeamBlue:
			blue = append(blue, turn)
		}
	}
	return &TurnStateMachine{coordinators: interleave(red, blue)}
}

// interleave alternates entries from a and b one at a time, starting with a.
// The shorter list is simply exhausted; no padding.
func interleave(a, b []TeamTurn) []TeamTurn {
	out := make([]TeamTurn, 0, len(a)+len(b))
	for i := 0; i < len(a) || i < len(b); i++ {
		if i < len(a) {
			out = append(out, a[i])
		}
		if i < len(b) {
			out = append(out, b[i])
		}
	}
	return out
}

// Len returns the rotation length.
func (m *TurnStateMachine) Len() int { return len(m.coordinators) }

// Current returns the active turn without mutating state. Repeated calls
// return the same pair until Advance is called.
//
// Postcondition: ok is false only when the rotation is empty.
func (m *TurnStateMachine) Current() (TeamTurn, bool) {
	if len(m.coordinators) == 0 {
		return TeamTurn{}, false
	}
	return m.coordinators[m.index%len(m.coordinators)], true
}

// Advance consumes the active turn: it returns the pair at the current
// index, then increments the index. The observable sequence repeats forever
// with period Len.
//
// Postcondition: ok is false only when the rotation is empty; an empty
// rotation never advances.
func (m *TurnStateMachine) Advance() (TeamTurn, bool) {
	if len(m.coordinators) == 0 {
		return TeamTurn{}, false
	}
	turn := m.coordinators[m.index%len(m.coordinators)]
	m.index++
	return turn, true
}
