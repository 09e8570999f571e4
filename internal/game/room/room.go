// Package room provides the per-room actor that owns the player registry,
// the event dispatcher, and the active game engine, plus the room-code
// keyed manager.
package room

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"codemafia/internal/game/dispatch"
	"codemafia/internal/game/engine"
	"codemafia/internal/game/event"
	"codemafia/internal/game/player"
	"codemafia/internal/game/wordbank"
)

const (
	lifecycleBuffer = 16
	gameplayBuffer  = 32
)

// ErrRoomClosed is returned by sends after the room has been torn down.
var ErrRoomClosed = errors.New("room closed")

// Room is a single game session. Its two inbound channels are each consumed
// by one goroutine, so all room state mutation is sequential per channel;
// different rooms run fully in parallel.
type Room struct {
	code     string
	log      *zap.Logger
	bank     *wordbank.Bank
	registry *player.Registry
	cache    *dispatch.Cache
	events   *dispatch.Dispatcher

	lifecycle chan LifecycleMessage
	gameplay  chan Message

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	mu         sync.Mutex
	bridge     chan engine.Action
	lastActive time.Time

	rng *rand.Rand
}

// NewRoom creates a room and starts its lifecycle and gameplay consumers.
//
// Precondition: log and bank must be non-nil; code must be non-empty.
func NewRoom(log *zap.Logger, code string, bank *wordbank.Bank) *Room {
	registry := player.NewRegistry()
	cache := dispatch.NewCache()

	r := &Room{
		code:       code,
		log:        log.With(zap.String("room", code)),
		bank:       bank,
		registry:   registry,
		cache:      cache,
		events:     dispatch.New(log.With(zap.String("room", code)), registry, cache),
		lifecycle:  make(chan LifecycleMessage, lifecycleBuffer),
		gameplay:   make(chan Message, gameplayBuffer),
		done:       make(chan struct{}),
		lastActive: time.Now(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	r.wg.Add(2)
	go r.runLifecycle()
	go r.runGameplay()
	return r
}

// Code returns the room's join code.
func (r *Room) Code() string { return r.code }

// LastActive returns the time of the last processed inbound message.
func (r *Room) LastActive() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActive
}

// GameActive reports whether a game engine has been started.
func (r *Room) GameActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bridge != nil
}

// SendLifecycle submits a session lifecycle message.
//
// Postcondition: Returns ErrRoomClosed after Close, or ctx's error. On a nil
// return the message is consumed: its reply channel, if any, receives either
// the handler's answer or nil when the room shuts down first.
func (r *Room) SendLifecycle(ctx context.Context, msg LifecycleMessage) error {
	select {
	case r.lifecycle <- msg:
		// A closed done can still lose the race above to a buffered send.
		// Re-checking here means a nil return implies the message landed
		// before Close, so the consumer or its exit drain will see it.
		select {
		case <-r.done:
			return ErrRoomClosed
		default:
			return nil
		}
	case <-r.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendGameplay submits a gameplay message.
//
// Postcondition: Returns ErrRoomClosed after Close, or ctx's error.
func (r *Room) SendGameplay(ctx context.Context, msg Message) error {
	select {
	case r.gameplay <- msg:
		select {
		case <-r.done:
			return ErrRoomClosed
		default:
			return nil
		}
	case <-r.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Replay returns the cached events after fromSeq that match the player's
// current role, for reconnect fast-forward.
//
// Postcondition: Returns dispatch.ErrNoSuchRange when the range is invalid,
// or player.ErrDoesNotExist for an unknown player; the caller then falls
// back to a full state snapshot.
func (r *Room) Replay(id uuid.UUID, fromSeq int) ([]event.Sequenced, error) {
	p, err := r.registry.Get(id)
	if err != nil {
		return nil, err
	}
	return r.cache.QueryFrom(fromSeq, p.ID(), p.Role())
}

// Close tears the room down: both consumers stop, the bridge closes (ending
// the engine goroutine), the dispatcher drains, and every player's outbound
// conn closes so connection write pumps terminate.
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
	r.wg.Wait()
	r.events.Close()
	for _, p := range r.registry.Snapshot() {
		_ = p.CloseConn()
	}
}

func (r *Room) touch() {
	r.mu.Lock()
	r.lastActive = time.Now()
	r.mu.Unlock()
}

func (r *Room) runLifecycle() {
	defer r.wg.Done()
	for {
		select {
		case msg := <-r.lifecycle:
			r.touch()
			r.handleLifecycle(msg)
		case <-r.done:
			r.drainLifecycle()
			return
		}
	}
}

// drainLifecycle answers messages that were enqueued before Close so no
// caller is left blocked on a reply. Reply channels are buffered, so a nil
// answer never blocks even when the sender already gave up.
func (r *Room) drainLifecycle() {
	for {
		select {
		case msg := <-r.lifecycle:
			switch {
			case msg.NewPlayer != nil:
				msg.NewPlayer.Reply <- nil
			case msg.Session != nil:
				msg.Session.Reply <- nil
			}
		default:
			return
		}
	}
}

// handleLifecycle mutates the registry, notifies the affected player, and
// follows up with the authoritative roster broadcast.
func (r *Room) handleLifecycle(msg LifecycleMessage) {
	switch {
	case msg.NewPlayer != nil:
		p := r.registry.Add(msg.NewPlayer.Name, msg.NewPlayer.Conn)
		r.log.Info("player joined",
			zap.String("player_id", p.ID().String()),
			zap.String("name", p.Name()),
		)
		r.sendIDCookie(p.ID())
		msg.NewPlayer.Reply <- p

	case msg.Session != nil:
		p, err := r.registry.Get(msg.Session.ID)
		if err != nil {
			r.log.Debug("session lookup for unknown player",
				zap.String("player_id", msg.Session.ID.String()),
			)
			msg.Session.Reply <- nil
			return
		}
		r.sendIDCookie(p.ID())
		msg.Session.Reply <- p

	case msg.Update != nil:
		if err := r.registry.Rebind(msg.Update.ID, msg.Update.Conn); err != nil {
			r.log.Warn("rebinding player connection",
				zap.String("player_id", msg.Update.ID.String()),
				zap.Error(err),
			)
			return
		}
		r.log.Info("player reconnected",
			zap.String("player_id", msg.Update.ID.String()),
		)
		r.sendIDCookie(msg.Update.ID)

	case msg.Disconnected != nil:
		if err := r.registry.SetStatus(msg.Disconnected.ID, player.StatusDisconnected); err != nil {
			r.log.Warn("marking player disconnected",
				zap.String("player_id", msg.Disconnected.ID.String()),
				zap.Error(err),
			)
			return
		}
		r.log.Info("player disconnected",
			zap.String("player_id", msg.Disconnected.ID.String()),
		)
	}

	r.broadcastRoomState()
}

func (r *Room) runGameplay() {
	defer r.wg.Done()
	defer func() {
		r.mu.Lock()
		if r.bridge != nil {
			close(r.bridge)
		}
		r.mu.Unlock()
	}()

	for {
		select {
		case msg := <-r.gameplay:
			r.touch()
			r.handleGameplay(msg)
		case <-r.done:
			return
		}
	}
}

func (r *Room) handleGameplay(msg Message) {
	switch {
	case msg.Chat != nil:
		r.send(event.Event{
			Recipient: event.ToAll(),
			Content:   event.ChatMessage{Sender: msg.Chat.Sender, Text: msg.Chat.Text},
		})

	case msg.JoinTeam != nil:
		if err := r.registry.AssignTeam(msg.JoinTeam.Player, msg.JoinTeam.Team, msg.JoinTeam.IsSpymaster); err != nil {
			r.log.Warn("join team for unknown player",
				zap.String("player_id", msg.JoinTeam.Player.String()),
				zap.Error(err),
			)
			return
		}
		r.broadcastRoomState()

	case msg.StartGame != nil:
		r.startGame()

	case msg.Game != nil:
		r.forwardGameAction(msg.Game)
	}
}

// startGame builds a fresh board, wires the bridge, and launches the engine
// goroutine. A second StartGame while a game is active is ignored.
func (r *Room) startGame() {
	if r.GameActive() {
		r.log.Debug("start game ignored: game already active")
		return
	}

	b, err := r.bank.NewBoard()
	if err != nil {
		r.log.Error("generating board", zap.Error(err))
		return
	}

	bridge := make(chan engine.Action, engine.BridgeBuffer)
	eng := engine.New(r.log, b, r.registry, r.events, bridge, r.rng)
	eng.Init(context.Background())

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		eng.Run(context.Background())
	}()

	r.mu.Lock()
	r.bridge = bridge
	r.mu.Unlock()

	r.log.Info("game started")
	r.send(event.Event{
		Recipient: event.ToAll(),
		Content:   event.GameStarted{},
	})
}

func (r *Room) forwardGameAction(action engine.Action) {
	r.mu.Lock()
	bridge := r.bridge
	r.mu.Unlock()

	if bridge == nil {
		r.log.Debug("dropping game action: no active game")
		return
	}
	select {
	case bridge <- action:
	case <-r.done:
	}
}

func (r *Room) send(evt event.Event) {
	if err := r.events.Send(context.Background(), evt); err != nil {
		r.log.Warn("submitting event",
			zap.String("event_type", evt.Content.Type()),
			zap.Error(err),
		)
	}
}

func (r *Room) sendIDCookie(id uuid.UUID) {
	r.send(event.Event{
		Recipient: event.ToPlayers(id),
		Content:   event.SetIDCookie{ID: id.String()},
	})
}

func (r *Room) broadcastRoomState() {
	r.send(event.Event{
		Recipient: event.ToAll(),
		Content:   event.RoomState{Players: event.Roster(r.registry.Snapshot())},
	})
}
