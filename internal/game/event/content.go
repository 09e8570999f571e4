package event

// Chat, room, and player event payloads. Game payloads live in game.go.

// ChatMessage relays a player's chat line to the room.
type ChatMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

func (ChatMessage) Kind() Kind   { return KindChat }
func (ChatMessage) Type() string { return "chat.message" }

// PlayerOnTeam is one roster entry in a RoomState event.
type PlayerOnTeam struct {
	Name        string `json:"name"`
	ID          string `json:"id"`
	Team        string `json:"team"`
	IsSpymaster bool   `json:"is_spymaster"`
}

// RoomState is the authoritative team-roster view, broadcast to everyone
// after each lifecycle or team change.
type RoomState struct {
	Players []PlayerOnTeam `json:"players"`
}

func (RoomState) Kind() Kind   { return KindRoom }
func (RoomState) Type() string { return "room.state" }

// GameStarted announces that the room owner has started the game.
type GameStarted struct{}

func (GameStarted) Kind() Kind   { return KindRoom }
func (GameStarted) Type() string { return "room.game_started" }

// SetIDCookie instructs a single client to persist its player ID for
// session resume.
type SetIDCookie struct {
	ID string `json:"id"`
}

func (SetIDCookie) Kind() Kind   { return KindPlayer }
func (SetIDCookie) Type() string { return "player.set_id_cookie" }

// FastForward carries the sequenced replay range sent to a reconnecting
// player.
type FastForward struct {
	Events []Sequenced `json:"events"`
}

func (FastForward) Kind() Kind   { return KindPlayer }
func (FastForward) Type() string { return "player.fast_forward" }
