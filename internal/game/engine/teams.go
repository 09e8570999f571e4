package engine

import (
	"context"

	"go.uber.org/zap"

	"codemafia/internal/game/event"
	"codemafia/internal/game/player"
)

// completeTeams validates the roster, promotes one undercover operative per
// team, and announces the resulting roles. An insufficient roster is
// reported to the room but does not block the start; the owner chose to
// start and the warning is theirs to heed.
func (e *Engine) completeTeams(ctx context.Context) {
	players := e.registry.Snapshot()

	var numBlue, numRed, numSpymasters int
	for _, p := range players {
		role := p.Role()
		if role == nil {
			continue
		}
		switch role.Team {
		case player.TeamBlue:
			numBlue++
		case player.TeamRed:
			numRed++
		}
		if role.Title == player.TitleSpymaster {
			numSpymasters++
		}
	}

	if numBlue < MinPlayersPerTeam || numRed < MinPlayersPerTeam || numSpymasters < MinSpymasters {
		e.log.Warn("starting game with insufficient roster",
			zap.Int("blue", numBlue),
			zap.Int("red", numRed),
			zap.Int("spymasters", numSpymasters),
		)
		e.send(ctx, event.Event{
			Recipient: event.ToAll(),
			Content:   event.InsufficientPlayers{},
		})
	}

	e.assignUndercover(players, player.TeamRed)
	e.assignUndercover(players, player.TeamBlue)

	e.announceRoles(ctx)
}

// assignUndercover promotes one randomly chosen eligible (non-spymaster)
// player on the given team to undercover. Selection is a single bounded
// draw over the precomputed eligible set; with no candidates the team
// simply plays without an undercover operative.
func (e *Engine) assignUndercover(players []*player.Player, team player.Team) {
	var eligible []*player.Player
	for _, p := range players {
		role := p.Role()
		if role == nil || role.Team != team || role.Title != player.TitleAlly {
			continue
		}
		eligible = append(eligible, p)
	}

	if len(eligible) == 0 {
		e.log.Warn("no eligible undercover candidate",
			zap.String("team", string(team)),
		)
		return
	}

	chosen := eligible[e.rng.Intn(len(eligible))]
	if err := e.registry.SetTitle(chosen.ID(), player.TitleUndercover); err != nil {
		e.log.Error("promoting undercover operative",
			zap.String("player_id", chosen.ID().String()),
			zap.Error(err),
		)
	}
}

// announceRoles sends each role group its title. Recipients are matched
// against current roles at delivery time, so the undercover promotions
// above are already in effect.
func (e *Engine) announceRoles(ctx context.Context) {
	e.send(ctx, event.Event{
		Recipient: event.ToRoles(
			player.Role{Team: player.TeamBlue, Title: player.TitleAlly},
			player.Role{Team: player.TeamRed, Title: player.TitleAlly},
		),
		Content: event.RoleUpdated{Title: player.TitleAlly},
	})

	e.send(ctx, event.Event{
		Recipient: event.ToRoles(
			player.Role{Team: player.TeamBlue, Title: player.TitleUndercover},
			player.Role{Team: player.TeamRed, Title: player.TitleUndercover},
		),
		Content: event.RoleUpdated{Title: player.TitleUndercover},
	})
}

// sendBoardProjections sends the hidden projection to allies and the full
// projection to spymasters and undercover operatives on both teams.
func (e *Engine) sendBoardProjections(ctx context.Context) {
	e.send(ctx, event.Event{
		Recipient: event.ToRoles(
			player.Role{Team: player.TeamBlue, Title: player.TitleAlly},
			player.Role{Team: player.TeamRed, Title: player.TitleAlly},
		),
		Content: event.Board{Board: e.board.HiddenProjection()},
	})

	e.send(ctx, event.Event{
		Recipient: event.ToRoles(
			player.Role{Team: player.TeamBlue, Title: player.TitleSpymaster},
			player.Role{Team: player.TeamRed, Title: player.TitleSpymaster},
			player.Role{Team: player.TeamBlue, Title: player.TitleUndercover},
			player.Role{Team: player.TeamRed, Title: player.TitleUndercover},
		),
		Content: event.Board{Board: e.board.VisibleProjection()},
	})
}
