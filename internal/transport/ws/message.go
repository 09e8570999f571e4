package ws

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"codemafia/internal/game/engine"
	"codemafia/internal/game/player"
	"codemafia/internal/game/room"
)

// Client message types accepted over the WebSocket.
const (
	typeChatMessage   = "chat.message"
	typeJoinTeam      = "room.join_team"
	typeStartGame     = "room.start_game"
	typeWordClicked   = "game.word_clicked"
	typeWordSuggested = "game.word_suggested"
	typeWordHint      = "game.word_hint"
	typeEndTurn       = "game.end_turn"
	typeCurrentState  = "game.current_state"
)

// clientMessage is the inbound wire envelope, mirroring the outbound
// event envelope.
type clientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type chatPayload struct {
	Text string `json:"text"`
}

type joinTeamPayload struct {
	Team        player.Team `json:"team"`
	IsSpymaster bool        `json:"is_spymaster"`
}

type wordIndexPayload struct {
	Index int `json:"index"`
}

type wordHintPayload struct {
	Hint string `json:"hint"`
}

// decodeMessage translates a raw client frame into a room gameplay message.
// The sender's identity always comes from the authenticated connection,
// never from the payload.
//
// Postcondition: Returns an error for unknown types and malformed payloads;
// the caller logs and drops the frame.
func decodeMessage(raw []byte, playerID uuid.UUID, playerName string) (room.Message, error) {
	var env clientMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return room.Message{}, fmt.Errorf("decoding message envelope: %w", err)
	}

	switch env.Type {
	case typeChatMessage:
		var p chatPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return room.Message{}, fmt.Errorf("decoding chat payload: %w", err)
		}
		return room.Message{Chat: &room.Chat{Sender: playerName, Text: p.Text}}, nil

	case typeJoinTeam:
		var p joinTeamPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return room.Message{}, fmt.Errorf("decoding join team payload: %w", err)
		}
		if p.Team != player.TeamBlue && p.Team != player.TeamRed {
			return room.Message{}, fmt.Errorf("unknown team %q", p.Team)
		}
		return room.Message{JoinTeam: &room.JoinTeam{
			Player:      playerID,
			Team:        p.Team,
			IsSpymaster: p.IsSpymaster,
		}}, nil

	case typeStartGame:
		return room.Message{StartGame: &room.StartGame{}}, nil

	case typeWordClicked:
		var p wordIndexPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return room.Message{}, fmt.Errorf("decoding word clicked payload: %w", err)
		}
		return room.Message{Game: engine.WordClicked{Player: playerID, Index: p.Index}}, nil

	case typeWordSuggested:
		var p wordIndexPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return room.Message{}, fmt.Errorf("decoding word suggested payload: %w", err)
		}
		return room.Message{Game: engine.WordSuggested{Player: playerID, Index: p.Index}}, nil

	case typeWordHint:
		var p wordHintPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return room.Message{}, fmt.Errorf("decoding word hint payload: %w", err)
		}
		return room.Message{Game: engine.WordHint{Player: playerID, Hint: p.Hint}}, nil

	case typeEndTurn:
		return room.Message{Game: engine.EndTurn{}}, nil

	case typeCurrentState:
		return room.Message{Game: engine.StateRequest{Player: playerID}}, nil

	default:
		return room.Message{}, fmt.Errorf("unknown message type %q", env.Type)
	}
}
