package event

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codemafia/internal/game/player"
)

func TestToAllMatchesEveryone(t *testing.T) {
	r := ToAll()
	assert.True(t, r.Matches(uuid.New(), nil))
	assert.True(t, r.Matches(uuid.New(), &player.Role{Team: player.TeamRed, Title: player.TitleSpymaster}))
}

func TestToPlayersMatchesByID(t *testing.T) {
	target := uuid.New()
	r := ToPlayers(target)

	assert.True(t, r.Matches(target, nil))
	assert.False(t, r.Matches(uuid.New(), nil))
}

func TestToRolesMatchesExactRole(t *testing.T) {
	r := ToRoles(
		player.Role{Team: player.TeamBlue, Title: player.TitleAlly},
		player.Role{Team: player.TeamRed, Title: player.TitleAlly},
	)

	blueAlly := &player.Role{Team: player.TeamBlue, Title: player.TitleAlly}
	redAlly := &player.Role{Team: player.TeamRed, Title: player.TitleAlly}
	blueSpymaster := &player.Role{Team: player.TeamBlue, Title: player.TitleSpymaster}

	assert.True(t, r.Matches(uuid.New(), blueAlly))
	assert.True(t, r.Matches(uuid.New(), redAlly))
	assert.False(t, r.Matches(uuid.New(), blueSpymaster))
}

func TestToRolesNeverMatchesRolelessPlayer(t *testing.T) {
	r := ToRoles(player.Role{Team: player.TeamBlue, Title: player.TitleAlly})
	assert.False(t, r.Matches(uuid.New(), nil))
}

func TestMatchesPlayerUsesCurrentRole(t *testing.T) {
	reg := player.NewRegistry()
	p := reg.Add("alice", player.NewConn(4))

	r := ToRoles(player.Role{Team: player.TeamBlue, Title: player.TitleAlly})
	assert.False(t, r.MatchesPlayer(p))

	require.NoError(t, reg.AssignTeam(p.ID(), player.TeamBlue, false))
	assert.True(t, r.MatchesPlayer(p))
}

func TestMarshalEnvelope(t *testing.T) {
	data, err := Marshal(ChatMessage{Sender: "alice", Text: "hello"})
	require.NoError(t, err)

	var decoded struct {
		Type string `json:"type"`
		Data struct {
			Sender string `json:"sender"`
			Text   string `json:"text"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "chat.message", decoded.Type)
	assert.Equal(t, "alice", decoded.Data.Sender)
	assert.Equal(t, "hello", decoded.Data.Text)
}

func TestSequencedMarshalJSON(t *testing.T) {
	s := Sequenced{
		Seq: 7,
		Event: Event{
			Recipient: ToAll(),
			Content:   GameStarted{},
		},
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded struct {
		Seq   int `json:"seq"`
		Event struct {
			Type string `json:"type"`
		} `json:"event"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 7, decoded.Seq)
	assert.Equal(t, "room.game_started", decoded.Event.Type)
}

func TestRosterOmitsRolelessPlayers(t *testing.T) {
	reg := player.NewRegistry()
	alice := reg.Add("alice", player.NewConn(4))
	reg.Add("spectator", player.NewConn(4))
	require.NoError(t, reg.AssignTeam(alice.ID(), player.TeamRed, true))

	roster := Roster(reg.Snapshot())
	require.Len(t, roster, 1)
	assert.Equal(t, "alice", roster[0].Name)
	assert.Equal(t, alice.ID().String(), roster[0].ID)
	assert.Equal(t, "red", roster[0].Team)
	assert.True(t, roster[0].IsSpymaster)
}

func TestEventTypeTags(t *testing.T) {
	tests := []struct {
		content Content
		kind    Kind
		tag     string
	}{
		{ChatMessage{}, KindChat, "chat.message"},
		{RoomState{}, KindRoom, "room.state"},
		{GameStarted{}, KindRoom, "room.game_started"},
		{SetIDCookie{}, KindPlayer, "player.set_id_cookie"},
		{FastForward{}, KindPlayer, "player.fast_forward"},
		{Board{}, KindGame, "game.board"},
		{WordClicked{}, KindGame, "game.word_clicked"},
		{WordSuggested{}, KindGame, "game.word_suggested"},
		{WordHint{}, KindGame, "game.word_hint"},
		{Turn{}, KindGame, "game.turn"},
		{GameEnded{}, KindGame, "game.ended"},
		{GameState{}, KindGame, "game.state"},
		{RoleUpdated{}, KindGame, "game.role_updated"},
		{InsufficientPlayers{}, KindGame, "game.insufficient_players"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, tt.content.Kind(), tt.tag)
		assert.Equal(t, tt.tag, tt.content.Type())
	}
}
