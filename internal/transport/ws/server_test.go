package ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"codemafia/internal/config"
	"codemafia/internal/game/room"
	"codemafia/internal/game/wordbank"
)

func testServer(t *testing.T) (*httptest.Server, *room.Manager) {
	t.Helper()

	words := make([]string, 60)
	for i := range words {
		words[i] = fmt.Sprintf("word-%d", i)
	}
	bank, err := wordbank.NewBank(words, 25)
	require.NoError(t, err)

	rooms := room.NewManager(zaptest.NewLogger(t), bank, config.RoomsConfig{
		IdleTTL:         time.Hour,
		JanitorInterval: time.Minute,
	})
	t.Cleanup(rooms.Stop)

	srv := NewServer(zaptest.NewLogger(t), rooms, config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ShutdownTimeout: time.Second,
	})

	ts := httptest.NewServer(srv.httpSrv.Handler)
	t.Cleanup(ts.Close)
	return ts, rooms
}

func createRoom(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(ts.URL+"/create", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var payload struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.Code, room.CodeLength)
	return payload.Code
}

func wsURL(ts *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + path
}

// readUntil reads frames until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, wanted string) json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %s", wanted)

		var env struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &env))
		if env.Type == wanted {
			return env.Data
		}
	}
}

func TestCreateEndpoint(t *testing.T) {
	ts, rooms := testServer(t)
	code := createRoom(t, ts)

	_, err := rooms.Lookup(code)
	assert.NoError(t, err)
}

func TestJoinRequiresName(t *testing.T) {
	ts, _ := testServer(t)
	code := createRoom(t, ts)

	resp, err := http.Get(ts.URL + "/game/join/" + code)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestJoinUnknownRoom(t *testing.T) {
	ts, _ := testServer(t)

	resp, err := http.Get(ts.URL + "/game/join/ZZZZ?name=alice")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestJoinDeliversCookieAndRoomState(t *testing.T) {
	ts, _ := testServer(t)
	code := createRoom(t, ts)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/game/join/"+code+"?name=alice"), nil)
	require.NoError(t, err)
	defer conn.Close()

	cookie := readUntil(t, conn, "player.set_id_cookie")
	var payload struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(cookie, &payload))
	assert.NotEmpty(t, payload.ID)

	readUntil(t, conn, "room.state")
}

func TestJoinTeamRoundTrip(t *testing.T) {
	ts, _ := testServer(t)
	code := createRoom(t, ts)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/game/join/"+code+"?name=alice"), nil)
	require.NoError(t, err)
	defer conn.Close()
	readUntil(t, conn, "player.set_id_cookie")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"room.join_team","data":{"team":"red","is_spymaster":false}}`)))

	var roster struct {
		Players []struct {
			Name string `json:"name"`
			Team string `json:"team"`
		} `json:"players"`
	}
	for len(roster.Players) == 0 {
		data := readUntil(t, conn, "room.state")
		require.NoError(t, json.Unmarshal(data, &roster))
	}
	require.Len(t, roster.Players, 1)
	assert.Equal(t, "alice", roster.Players[0].Name)
	assert.Equal(t, "red", roster.Players[0].Team)
}

func TestSessionResumeWithReplay(t *testing.T) {
	ts, _ := testServer(t)
	code := createRoom(t, ts)

	first, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/game/join/"+code+"?name=alice"), nil)
	require.NoError(t, err)

	cookie := readUntil(t, first, "player.set_id_cookie")
	var payload struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(cookie, &payload))

	// Generate cached traffic, then drop the first connection.
	require.NoError(t, first.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"chat.message","data":{"text":"before the drop"}}`)))
	readUntil(t, first, "chat.message")
	require.NoError(t, first.Close())

	header := http.Header{}
	header.Set("Cookie", cookieName+"="+payload.ID)
	second, _, err := websocket.DefaultDialer.Dial(
		wsURL(ts, "/game/session/"+code+"?from_seq=0"), header)
	require.NoError(t, err)
	defer second.Close()

	data := readUntil(t, second, "player.fast_forward")
	var ff struct {
		Events []struct {
			Seq   int `json:"seq"`
			Event struct {
				Type string `json:"type"`
			} `json:"event"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(data, &ff))
	require.NotEmpty(t, ff.Events)
	for _, evt := range ff.Events {
		assert.Greater(t, evt.Seq, 0)
	}
}

func TestSessionRequiresCookie(t *testing.T) {
	ts, _ := testServer(t)
	code := createRoom(t, ts)

	resp, err := http.Get(ts.URL + "/game/session/" + code)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionUnknownPlayerClosesSocket(t *testing.T) {
	ts, _ := testServer(t)
	code := createRoom(t, ts)

	header := http.Header{}
	header.Set("Cookie", cookieName+"=4495be54-0d35-4049-a5d7-86e57a47d8c7")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/game/session/"+code), header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation))
}
