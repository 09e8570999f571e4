// Package engine runs a single game to completion: team assembly, the
// coordinator rotation, word reveals, and win detection. An Engine is owned
// by its room and reachable only over the bridge channel; it shares no
// mutable state with the room loop beyond the concurrency-safe registry.
package engine

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"codemafia/internal/game/board"
	"codemafia/internal/game/event"
	"codemafia/internal/game/player"
)

// BridgeBuffer is the capacity of the room-to-game action channel.
const BridgeBuffer = 8

// Roster minimums checked at team completion. Falling short produces an
// InsufficientPlayers warning but does not block the game.
const (
	MinPlayersPerTeam = 4
	MinSpymasters     = 2
)

// Stage is the engine's lifecycle stage.
type Stage string

const (
	StageForming Stage = "forming"
	StagePlaying Stage = "playing"
	StageEnded   Stage = "ended"
)

// EventSink accepts events for fan-out to players. Satisfied by
// dispatch.Dispatcher.
type EventSink interface {
	Send(ctx context.Context, evt event.Event) error
}

// Engine is the per-game state machine.
type Engine struct {
	log      *zap.Logger
	board    *board.Board
	registry *player.Registry
	sink     EventSink
	actions  <-chan Action
	rng      *rand.Rand

	stage Stage
	turns *TurnStateMachine

	// Separate per-color click counters, each compared against its own
	// threshold.
	blueClicked int
	redClicked  int
}

// New creates an Engine in the Forming stage.
//
// Precondition: all arguments must be non-nil; b must be a fresh board.
func New(log *zap.Logger, b *board.Board, registry *player.Registry, sink EventSink, actions <-chan Action, rng *rand.Rand) *Engine {
	return &Engine{
		log:      log,
		board:    b,
		registry: registry,
		sink:     sink,
		actions:  actions,
		rng:      rng,
		stage:    StageForming,
	}
}

// Init performs the one-time game start sequence: team completion, role
// announcements, board projections, and the first turn.
//
// Postcondition: The engine is in the Playing stage.
func (e *Engine) Init(ctx context.Context) {
	e.completeTeams(ctx)
	e.sendBoardProjections(ctx)
	e.initTurns(ctx)
	e.stage = StagePlaying
}

// Run consumes bridge actions until the channel is closed. It is the
// engine's goroutine body; all engine state is touched only from here after
// Init.
func (e *Engine) Run(ctx context.Context) {
	for action := range e.actions {
		e.handle(ctx, action)
	}
	e.log.Debug("engine bridge closed, game loop exiting")
}

func (e *Engine) handle(ctx context.Context, action Action) {
	// Once the game has ended only state snapshots are served.
	if e.stage == StageEnded {
		if req, ok := action.(StateRequest); ok {
			e.handleStateRequest(ctx, req)
			return
		}
		e.log.Debug("dropping action after game end")
		return
	}

	switch a := action.(type) {
	case WordClicked:
		e.handleWordClicked(ctx, a)
	case WordSuggested:
		e.handleWordSuggested(ctx, a)
	case WordHint:
		e.handleWordHint(ctx, a)
	case EndTurn:
		e.handleEndTurn(ctx)
	case StateRequest:
		e.handleStateRequest(ctx, a)
	default:
		e.log.Warn("unknown game action")
	}
}

// Stage returns the engine's current lifecycle stage.
func (e *Engine) Stage() Stage { return e.stage }

func (e *Engine) send(ctx context.Context, evt event.Event) {
	if err := e.sink.Send(ctx, evt); err != nil {
		e.log.Warn("submitting game event",
			zap.String("event_type", evt.Content.Type()),
			zap.Error(err),
		)
	}
}

// initTurns builds the coordinator rotation over ally and undercover
// players and announces the first turn. With no eligible coordinators the
// rotation is empty and no Turn event is sent.
func (e *Engine) initTurns(ctx context.Context) {
	e.turns = NewTurnStateMachine(e.registry.Snapshot())

	turn, ok := e.turns.Current()
	if !ok {
		e.log.Warn("no eligible coordinators, turns will never advance")
		return
	}
	e.broadcastTurn(ctx, turn)
}

func (e *Engine) handleEndTurn(ctx context.Context) {
	if _, ok := e.turns.Advance(); !ok {
		e.log.Debug("end turn ignored: empty coordinator rotation")
		return
	}
	turn, _ := e.turns.Current()
	e.broadcastTurn(ctx, turn)
}

func (e *Engine) broadcastTurn(ctx context.Context, turn TeamTurn) {
	e.send(ctx, event.Event{
		Recipient: event.ToAll(),
		Content: event.Turn{
			Team:        turn.Team,
			Coordinator: turn.Coordinator.String(),
		},
	})
}

func (e *Engine) handleStateRequest(ctx context.Context, req StateRequest) {
	p, err := e.registry.Get(req.Player)
	if err != nil {
		e.log.Warn("state request from unknown player",
			zap.String("player_id", req.Player.String()),
		)
		return
	}

	role := p.Role()
	full := role != nil && role.SeesFullBoard()

	var turn event.Turn
	if current, ok := e.turns.Current(); ok {
		turn = event.Turn{Team: current.Team, Coordinator: current.Coordinator.String()}
	}

	e.send(ctx, event.Event{
		Recipient: event.ToPlayers(req.Player),
		Content: event.GameState{
			Turn:    turn,
			Board:   e.board.ProjectionFor(full),
			Players: event.Roster(e.registry.Snapshot()),
		},
	})
}
