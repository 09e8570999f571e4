package player

// Team is one of the two competing sides.
type Team string

const (
	TeamBlue Team = "blue"
	TeamRed  Team = "red"
)

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamBlue {
		return TeamRed
	}
	return TeamBlue
}

// RoleTitle is a player's in-game title within their team.
type RoleTitle string

const (
	TitleAlly       RoleTitle = "ally"
	TitleSpymaster  RoleTitle = "spymaster"
	TitleUndercover RoleTitle = "undercover"
)

// Role is a plain (team, title) value pair. It is immutable; role changes
// replace the whole value.
type Role struct {
	Team  Team      `json:"team"`
	Title RoleTitle `json:"title"`
}

// SeesFullBoard reports whether this role receives the unhidden board
// projection. Spymasters and undercover operatives see every word's color.
func (r Role) SeesFullBoard() bool {
	return r.Title == TitleSpymaster || r.Title == TitleUndercover
}

// Coordinates reports whether this role is eligible to take coordinator
// turns. Spymasters never coordinate.
func (r Role) Coordinates() bool {
	return r.Title == TitleAlly || r.Title == TitleUndercover
}

// Status is a player's connection state. Disconnected players keep their
// registry entry and role so they can resume.
type Status string

const (
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)
