package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"codemafia/internal/game/player"
)

// rosterFor builds a registry with the given number of allies per team plus
// one spymaster each, returning the registry and the join-ordered ally IDs
// per team.
func rosterFor(t *testing.T, redAllies, blueAllies int) (*player.Registry, []*player.Player, []*player.Player) {
	t.Helper()
	reg := player.NewRegistry()

	var red, blue []*player.Player
	for i := 0; i < redAllies; i++ {
		p := reg.Add(fmt.Sprintf("red-%d", i), player.NewConn(4))
		require.NoError(t, reg.AssignTeam(p.ID(), player.TeamRed, false))
		red = append(red, p)
	}
	for i := 0; i < blueAllies; i++ {
		p := reg.Add(fmt.Sprintf("blue-%d", i), player.NewConn(4))
		require.NoError(t, reg.AssignTeam(p.ID(), player.TeamBlue, false))
		blue = append(blue, p)
	}

	redSpy := reg.Add("red-spymaster", player.NewConn(4))
	require.NoError(t, reg.AssignTeam(redSpy.ID(), player.TeamRed, true))
	blueSpy := reg.Add("blue-spymaster", player.NewConn(4))
	require.NoError(t, reg.AssignTeam(blueSpy.ID(), player.TeamBlue, true))

	return reg, red, blue
}

func TestRotationInterleavesRedThenBlue(t *testing.T) {
	reg, red, blue := rosterFor(t, 3, 3)
	m := NewTurnStateMachine(reg.Snapshot())

	require.Equal(t, 6, m.Len())
	want := []TeamTurn{
		{Team: player.TeamRed, Coordinator: red[0].ID()},
		{Team: player.TeamBlue, Coordinator: blue[0].ID()},
		{Team: player.TeamRed, Coordinator: red[1].ID()},
		{Team: player.TeamBlue, Coordinator: blue[1].ID()},
		{Team: player.TeamRed, Coordinator: red[2].ID()},
		{Team: player.TeamBlue, Coordinator: blue[2].ID()},
	}
	for i, w := range want {
		got, ok := m.Advance()
		require.True(t, ok)
		assert.Equal(t, w, got, "rotation position %d", i)
	}
}

func TestRotationExhaustsLongerTeam(t *testing.T) {
	reg, red, blue := rosterFor(t, 3, 1)
	m := NewTurnStateMachine(reg.Snapshot())

	require.Equal(t, 4, m.Len())
	want := []TeamTurn{
		{Team: player.TeamRed, Coordinator: red[0].ID()},
		{Team: player.TeamBlue, Coordinator: blue[0].ID()},
		{Team: player.TeamRed, Coordinator: red[1].ID()},
		{Team: player.TeamRed, Coordinator: red[2].ID()},
	}
	for _, w := range want {
		got, ok := m.Advance()
		require.True(t, ok)
		assert.Equal(t, w, got)
	}
}

func TestRotationSkipsSpymastersAndRoleless(t *testing.T) {
	reg, _, _ := rosterFor(t, 1, 1)
	reg.Add("spectator", player.NewConn(4))

	m := NewTurnStateMachine(reg.Snapshot())
	assert.Equal(t, 2, m.Len())
}

func TestRotationIncludesUndercover(t *testing.T) {
	reg, red, _ := rosterFor(t, 2, 0)
	require.NoError(t, reg.SetTitle(red[0].ID(), player.TitleUndercover))

	m := NewTurnStateMachine(reg.Snapshot())
	assert.Equal(t, 2, m.Len())
}

func TestCurrentIsStableUntilAdvance(t *testing.T) {
	reg, red, _ := rosterFor(t, 2, 2)
	m := NewTurnStateMachine(reg.Snapshot())

	first, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, red[0].ID(), first.Coordinator)

	again, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, first, again)

	consumed, ok := m.Advance()
	require.True(t, ok)
	assert.Equal(t, first, consumed)

	next, ok := m.Current()
	require.True(t, ok)
	assert.NotEqual(t, first, next)
}

func TestEmptyRotationNeverAdvances(t *testing.T) {
	m := NewTurnStateMachine(nil)

	assert.Equal(t, 0, m.Len())
	_, ok := m.Current()
	assert.False(t, ok)
	_, ok = m.Advance()
	assert.False(t, ok)
}

// TestRotationIsCyclic verifies that the rotation repeats with period Len
// for any team sizes and number of advances.
func TestRotationIsCyclic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		redAllies := rapid.IntRange(1, 5).Draw(t, "red")
		blueAllies := rapid.IntRange(1, 5).Draw(t, "blue")

		reg := player.NewRegistry()
		for i := 0; i < redAllies; i++ {
			p := reg.Add(fmt.Sprintf("red-%d", i), player.NewConn(4))
			require.NoError(t, reg.AssignTeam(p.ID(), player.TeamRed, false))
		}
		for i := 0; i < blueAllies; i++ {
			p := reg.Add(fmt.Sprintf("blue-%d", i), player.NewConn(4))
			require.NoError(t, reg.AssignTeam(p.ID(), player.TeamBlue, false))
		}

		m := NewTurnStateMachine(reg.Snapshot())
		period := m.Len()
		require.Equal(t, redAllies+blueAllies, period)

		var firstCycle []TeamTurn
		for i := 0; i < period; i++ {
			turn, ok := m.Advance()
			require.True(t, ok)
			firstCycle = append(firstCycle, turn)
		}

		steps := rapid.IntRange(0, 3*period).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			turn, ok := m.Advance()
			require.True(t, ok)
			assert.Equal(t, firstCycle[i%period], turn)
		}
	})
}
