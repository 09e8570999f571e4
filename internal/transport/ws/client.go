package ws

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"codemafia/internal/game/player"
	"codemafia/internal/game/room"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// client pumps frames between one WebSocket and one room. The read pump
// decodes inbound frames into gameplay messages; the write pump drains the
// player's outbound event channel.
type client struct {
	log    *zap.Logger
	room   *room.Room
	player *player.Player
	out    *player.Conn
	ws     *websocket.Conn
}

func newClient(log *zap.Logger, r *room.Room, p *player.Player, out *player.Conn, ws *websocket.Conn) *client {
	return &client{
		log: log.With(
			zap.String("room", r.Code()),
			zap.String("player_id", p.ID().String()),
		),
		room:   r,
		player: p,
		out:    out,
		ws:     ws,
	}
}

// run serves the connection until either pump fails, then reports the
// disconnect to the room.
func (c *client) run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)

	if err := c.room.SendLifecycle(ctx, room.LifecycleMessage{
		Disconnected: &room.PlayerDisconnected{ID: c.player.ID()},
	}); err != nil {
		c.log.Debug("reporting disconnect", zap.Error(err))
	}
}

func (c *client) readPump(ctx context.Context) {
	defer c.out.Close()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("reading frame", zap.Error(err))
			}
			return
		}

		msg, err := decodeMessage(raw, c.player.ID(), c.player.Name())
		if err != nil {
			c.log.Warn("dropping client frame", zap.Error(err))
			continue
		}
		if err := c.room.SendGameplay(ctx, msg); err != nil {
			c.log.Debug("submitting gameplay message", zap.Error(err))
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case data, ok := <-c.out.Events():
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Debug("writing frame", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
