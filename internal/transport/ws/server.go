// Package ws exposes the room core over HTTP and WebSocket using
// gorilla/websocket.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"codemafia/internal/config"
	"codemafia/internal/game/engine"
	"codemafia/internal/game/event"
	"codemafia/internal/game/player"
	"codemafia/internal/game/room"
)

// cookieName is the cookie carrying a player's ID for session resume.
const cookieName = "player_id"

// Server terminates HTTP and WebSocket traffic and forwards it to rooms.
// It implements the lifecycle Service contract.
type Server struct {
	log   *zap.Logger
	rooms *room.Manager
	cfg   config.ServerConfig

	httpSrv  *http.Server
	upgrader websocket.Upgrader
}

// NewServer wires the HTTP routes for room creation, first-time joins, and
// session resumes.
func NewServer(log *zap.Logger, rooms *room.Manager, cfg config.ServerConfig) *Server {
	s := &Server{
		log:   log,
		rooms: rooms,
		cfg:   cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients are served from arbitrary dev origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /create", s.handleCreate)
	mux.HandleFunc("GET /game/join/{code}", s.handleJoin)
	mux.HandleFunc("GET /game/session/{code}", s.handleSession)

	s.httpSrv = &http.Server{
		Addr:    cfg.Addr(),
		Handler: mux,
	}
	return s
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	s.log.Info("listening", zap.String("addr", s.cfg.Addr()))
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully drains in-flight HTTP requests. Live WebSockets close
// when their rooms close.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.log.Warn("shutting down http server", zap.Error(err))
	}
}

// handleCreate allocates a room and returns its join code.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	created := s.rooms.Create()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"code": created.Code()})
}

// handleJoin upgrades a first-time joiner and registers them with the room.
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}

	target, err := s.rooms.Lookup(r.PathValue("code"))
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("upgrading join connection", zap.Error(err))
		return
	}

	out := player.NewConn(player.DefaultConnBuffer)
	reply := make(chan *player.Player, 1)
	if err := target.SendLifecycle(r.Context(), room.LifecycleMessage{
		NewPlayer: &room.NewPlayer{Name: name, Conn: out, Reply: reply},
	}); err != nil {
		s.log.Warn("registering player", zap.Error(err))
		_ = ws.Close()
		return
	}
	p := <-reply
	if p == nil {
		// Room shut down before the join was handled.
		_ = ws.Close()
		return
	}

	newClient(s.log, target, p, out, ws).run(context.Background())
}

// handleSession upgrades a returning player identified by their ID cookie,
// rebinds their outbound conn, and fast-forwards missed events when the
// client supplies a valid from_seq.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	target, err := s.rooms.Lookup(r.PathValue("code"))
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	cookie, err := r.Cookie(cookieName)
	if err != nil {
		http.Error(w, "missing player id", http.StatusBadRequest)
		return
	}
	playerID, err := uuid.Parse(cookie.Value)
	if err != nil {
		http.Error(w, "invalid player id", http.StatusBadRequest)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("upgrading session connection", zap.Error(err))
		return
	}

	reply := make(chan *player.Player, 1)
	if err := target.SendLifecycle(r.Context(), room.LifecycleMessage{
		Session: &room.SessionConnection{ID: playerID, Reply: reply},
	}); err != nil {
		s.log.Warn("resuming session", zap.Error(err))
		_ = ws.Close()
		return
	}
	p := <-reply
	if p == nil {
		_ = ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unknown player"))
		_ = ws.Close()
		return
	}

	out := player.NewConn(player.DefaultConnBuffer)
	if err := target.SendLifecycle(r.Context(), room.LifecycleMessage{
		Update: &room.UpdatePlayer{ID: p.ID(), Conn: out},
	}); err != nil {
		s.log.Warn("rebinding session conn", zap.Error(err))
		_ = ws.Close()
		return
	}

	s.catchUp(r, target, p, out)

	newClient(s.log, target, p, out, ws).run(context.Background())
}

// catchUp replays missed events onto the fresh conn, falling back to a full
// state snapshot when the requested range cannot be served.
func (s *Server) catchUp(r *http.Request, target *room.Room, p *player.Player, out *player.Conn) {
	fromSeq, ok := parseFromSeq(r.URL.Query().Get("from_seq"))
	if ok {
		missed, err := target.Replay(p.ID(), fromSeq)
		if err == nil {
			payload, merr := event.Marshal(event.FastForward{Events: missed})
			if merr == nil {
				if perr := out.Push(payload); perr != nil {
					s.log.Debug("pushing fast forward", zap.Error(perr))
				}
				return
			}
			s.log.Warn("marshaling fast forward", zap.Error(merr))
		} else {
			s.log.Debug("replay unavailable, falling back to snapshot",
				zap.Int("from_seq", fromSeq),
				zap.Error(err),
			)
		}
	}

	if !target.GameActive() {
		// RoomState was already rebroadcast by the rebind; nothing more to send.
		return
	}
	if err := target.SendGameplay(r.Context(), room.Message{
		Game: engine.StateRequest{Player: p.ID()},
	}); err != nil {
		s.log.Debug("requesting state snapshot", zap.Error(err))
	}
}

func parseFromSeq(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
