package room

import (
	"github.com/google/uuid"

	"codemafia/internal/game/engine"
	"codemafia/internal/game/player"
)

// NewPlayer registers a first-time joiner and replies with the created
// player record.
type NewPlayer struct {
	Name  string
	Conn  *player.Conn
	Reply chan<- *player.Player
}

// SessionConnection looks up a prior session by player ID; the reply is nil
// when the player is unknown to this room.
type SessionConnection struct {
	ID    uuid.UUID
	Reply chan<- *player.Player
}

// UpdatePlayer rebinds a reconnecting player's outbound conn and marks them
// connected.
type UpdatePlayer struct {
	ID   uuid.UUID
	Conn *player.Conn
}

// PlayerDisconnected marks a player disconnected. Their registry entry and
// role are retained for resume.
type PlayerDisconnected struct {
	ID uuid.UUID
}

// LifecycleMessage is the union of session lifecycle messages; exactly one
// field is non-nil.
type LifecycleMessage struct {
	NewPlayer    *NewPlayer
	Session      *SessionConnection
	Update       *UpdatePlayer
	Disconnected *PlayerDisconnected
}

// Chat is a player chat line, relayed verbatim to the whole room.
type Chat struct {
	Sender string
	Text   string
}

// JoinTeam assigns the player to a team, as spymaster or ally.
type JoinTeam struct {
	Player      uuid.UUID
	Team        player.Team
	IsSpymaster bool
}

// StartGame creates the game engine and starts play.
type StartGame struct{}

// Message is the union of gameplay-channel messages; exactly one field is
// set. Game actions are forwarded to the engine over the bridge.
type Message struct {
	Chat      *Chat
	JoinTeam  *JoinTeam
	StartGame *StartGame
	Game      engine.Action
}
