package player

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAddAssignsFreshIDs(t *testing.T) {
	r := NewRegistry()
	a := r.Add("alice", NewConn(4))
	b := r.Add("bob", NewConn(4))

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, "alice", a.Name())
	assert.Equal(t, StatusConnected, a.Status())
	assert.Nil(t, a.Role())
	assert.Equal(t, 2, r.Count())
}

func TestRegistryFirstPlayerIsOwner(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Owner()
	assert.False(t, ok)

	a := r.Add("alice", NewConn(4))
	r.Add("bob", NewConn(4))

	owner, ok := r.Owner()
	require.True(t, ok)
	assert.Equal(t, a.ID(), owner)
}

func TestRegistryGetUnknownID(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get(uuid.New())
	assert.ErrorIs(t, err, ErrDoesNotExist)
}

func TestRegistryAssignTeam(t *testing.T) {
	r := NewRegistry()
	a := r.Add("alice", NewConn(4))

	require.NoError(t, r.AssignTeam(a.ID(), TeamBlue, false))
	role := a.Role()
	require.NotNil(t, role)
	assert.Equal(t, TeamBlue, role.Team)
	assert.Equal(t, TitleAlly, role.Title)

	// Re-joining as spymaster replaces the whole role.
	require.NoError(t, r.AssignTeam(a.ID(), TeamRed, true))
	role = a.Role()
	assert.Equal(t, TeamRed, role.Team)
	assert.Equal(t, TitleSpymaster, role.Title)
}

func TestRegistrySetTitleRequiresRole(t *testing.T) {
	r := NewRegistry()
	a := r.Add("alice", NewConn(4))

	assert.Error(t, r.SetTitle(a.ID(), TitleUndercover))

	require.NoError(t, r.AssignTeam(a.ID(), TeamRed, false))
	require.NoError(t, r.SetTitle(a.ID(), TitleUndercover))

	role := a.Role()
	assert.Equal(t, TeamRed, role.Team)
	assert.Equal(t, TitleUndercover, role.Title)
}

func TestRegistrySnapshotJoinOrder(t *testing.T) {
	r := NewRegistry()
	names := []string{"alice", "bob", "carol", "dave"}
	for _, n := range names {
		r.Add(n, NewConn(4))
	}

	snap := r.Snapshot()
	require.Len(t, snap, len(names))
	for i, p := range snap {
		assert.Equal(t, names[i], p.Name())
	}
}

func TestRegistryDisconnectKeepsEntry(t *testing.T) {
	r := NewRegistry()
	a := r.Add("alice", NewConn(4))
	require.NoError(t, r.AssignTeam(a.ID(), TeamBlue, false))

	require.NoError(t, r.SetStatus(a.ID(), StatusDisconnected))
	assert.Equal(t, StatusDisconnected, a.Status())
	assert.NotNil(t, a.Role())
	assert.Equal(t, 1, r.Count())
}

func TestRegistryRebindReconnects(t *testing.T) {
	r := NewRegistry()
	old := NewConn(4)
	a := r.Add("alice", old)
	require.NoError(t, r.SetStatus(a.ID(), StatusDisconnected))
	require.NoError(t, old.Close())

	fresh := NewConn(4)
	require.NoError(t, r.Rebind(a.ID(), fresh))

	assert.Equal(t, StatusConnected, a.Status())
	require.NoError(t, a.Push([]byte("hello")))
	assert.Equal(t, []byte("hello"), <-fresh.Events())
}

func TestRoleVisibilityAndCoordination(t *testing.T) {
	tests := []struct {
		title       RoleTitle
		fullBoard   bool
		coordinates bool
	}{
		{TitleAlly, false, true},
		{TitleSpymaster, true, false},
		{TitleUndercover, true, true},
	}
	for _, tt := range tests {
		role := Role{Team: TeamBlue, Title: tt.title}
		assert.Equal(t, tt.fullBoard, role.SeesFullBoard(), string(tt.title))
		assert.Equal(t, tt.coordinates, role.Coordinates(), string(tt.title))
	}
}

func TestTeamOpponent(t *testing.T) {
	assert.Equal(t, TeamRed, TeamBlue.Opponent())
	assert.Equal(t, TeamBlue, TeamRed.Opponent())
}

func TestRoleReturnsCopy(t *testing.T) {
	r := NewRegistry()
	a := r.Add("alice", NewConn(4))
	require.NoError(t, r.AssignTeam(a.ID(), TeamBlue, false))

	role := a.Role()
	role.Team = TeamRed
	assert.Equal(t, TeamBlue, a.Role().Team)
}
