package event

import "codemafia/internal/game/player"

// Roster builds the RoomState entries for every player that has joined a
// team, in the given order. Players without a role are omitted.
func Roster(players []*player.Player) []PlayerOnTeam {
	out := make([]PlayerOnTeam, 0, len(players))
	for _, p := range players {
		role := p.Role()
		if role == nil {
			continue
		}
		out = append(out, PlayerOnTeam{
			Name:        p.Name(),
			ID:          p.ID().String(),
			Team:        string(role.Team),
			IsSpymaster: role.Title == player.TitleSpymaster,
		})
	}
	return out
}
