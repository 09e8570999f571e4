package engine

import (
	"context"

	"go.uber.org/zap"

	"codemafia/internal/game/board"
	"codemafia/internal/game/event"
	"codemafia/internal/game/player"
)

// handleWordClicked validates and applies a coordinator's word reveal.
// Rejections are logged and dropped without any event or state change.
func (e *Engine) handleWordClicked(ctx context.Context, a WordClicked) {
	if a.Index < 0 || a.Index >= board.NumWords {
		e.log.Debug("word click with invalid index",
			zap.Int("index", a.Index),
			zap.String("player_id", a.Player.String()),
		)
		return
	}

	turn, ok := e.turns.Current()
	if !ok || turn.Coordinator != a.Player {
		e.log.Debug("word click from a player who is not the current coordinator",
			zap.String("player_id", a.Player.String()),
		)
		return
	}

	color, err := e.board.Click(a.Index)
	if err != nil {
		e.log.Debug("word click rejected",
			zap.Int("index", a.Index),
			zap.String("player_id", a.Player.String()),
			zap.Error(err),
		)
		return
	}

	e.send(ctx, event.Event{
		Recipient: event.ToAll(),
		Content:   event.WordClicked{Index: a.Index, Color: color},
	})

	e.checkWinCondition(ctx, turn.Team, color)
}

// handleWordSuggested relays an ally's suggestion. A suggestion from the
// wrong team is logged as a soft warning but still forwarded.
func (e *Engine) handleWordSuggested(ctx context.Context, a WordSuggested) {
	p, err := e.registry.Get(a.Player)
	if err != nil {
		e.log.Warn("word suggestion from unknown player",
			zap.String("player_id", a.Player.String()),
		)
		return
	}
	role := p.Role()
	if role == nil {
		e.log.Warn("word suggestion from player without a role",
			zap.String("player_id", a.Player.String()),
		)
		return
	}

	if turn, ok := e.turns.Current(); ok && role.Team != turn.Team {
		e.log.Warn("word suggestion from off-turn team",
			zap.String("player_id", a.Player.String()),
			zap.String("team", string(role.Team)),
		)
	}

	e.send(ctx, event.Event{
		Recipient: event.ToAll(),
		Content:   event.WordSuggested{Suggestor: p.Name(), Index: a.Index},
	})
}

// handleWordHint relays a spymaster's hint. A hint from the wrong team or a
// non-spymaster is logged as a soft warning but still forwarded.
func (e *Engine) handleWordHint(ctx context.Context, a WordHint) {
	p, err := e.registry.Get(a.Player)
	if err != nil {
		e.log.Warn("word hint from unknown player",
			zap.String("player_id", a.Player.String()),
		)
		return
	}
	role := p.Role()
	if role == nil {
		e.log.Warn("word hint from player without a role",
			zap.String("player_id", a.Player.String()),
		)
		return
	}

	hintTeam := role.Team
	if turn, ok := e.turns.Current(); ok {
		hintTeam = turn.Team
		if role.Team != turn.Team || role.Title != player.TitleSpymaster {
			e.log.Warn("word hint from wrong spymaster",
				zap.String("player_id", a.Player.String()),
				zap.String("team", string(role.Team)),
				zap.String("title", string(role.Title)),
			)
		}
	}

	e.send(ctx, event.Event{
		Recipient: event.ToAll(),
		Content:   event.WordHint{Team: hintTeam, Hint: a.Hint},
	})
}

// checkWinCondition runs after every successful click. Clicking the black
// word hands the win to the opposing team; exhausting a color's words wins
// for the clicking team.
func (e *Engine) checkWinCondition(ctx context.Context, clickingTeam player.Team, color board.WordType) {
	switch color {
	case board.TypeBlack:
		e.endGame(ctx, clickingTeam.Opponent(), event.WinBlackWordSelected)
	case board.TypeBlue:
		e.blueClicked++
		if e.blueClicked == board.NumBlue {
			e.endGame(ctx, clickingTeam, event.WinWordsCompleted)
		}
	case board.TypeRed:
		e.redClicked++
		if e.redClicked == board.NumRed {
			e.endGame(ctx, clickingTeam, event.WinWordsCompleted)
		}
	}
}

func (e *Engine) endGame(ctx context.Context, winner player.Team, condition event.WinCondition) {
	e.stage = StageEnded
	e.log.Info("game ended",
		zap.String("winner", string(winner)),
		zap.String("condition", string(condition)),
	)
	e.send(ctx, event.Event{
		Recipient: event.ToAll(),
		Content:   event.GameEnded{Winner: winner, Condition: condition},
	})
}
