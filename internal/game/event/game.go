package event

import (
	"codemafia/internal/game/board"
	"codemafia/internal/game/player"
)

// Game event payloads.

// InsufficientPlayers warns the room that the roster does not meet the
// minimum team sizes. The game proceeds regardless.
type InsufficientPlayers struct{}

func (InsufficientPlayers) Kind() Kind   { return KindGame }
func (InsufficientPlayers) Type() string { return "game.insufficient_players" }

// Board carries a role-appropriate board projection.
type Board struct {
	Board board.Opaque `json:"board"`
}

func (Board) Kind() Kind   { return KindGame }
func (Board) Type() string { return "game.board" }

// RoleUpdated informs a role group of their (possibly new) title.
type RoleUpdated struct {
	Title player.RoleTitle `json:"title"`
}

func (RoleUpdated) Kind() Kind   { return KindGame }
func (RoleUpdated) Type() string { return "game.role_updated" }

// WordHint relays a spymaster's hint for the current turn.
type WordHint struct {
	Team player.Team `json:"team"`
	Hint string      `json:"hint"`
}

func (WordHint) Kind() Kind   { return KindGame }
func (WordHint) Type() string { return "game.word_hint" }

// WordClicked announces a successful word reveal.
type WordClicked struct {
	Index int            `json:"index"`
	Color board.WordType `json:"color"`
}

func (WordClicked) Kind() Kind   { return KindGame }
func (WordClicked) Type() string { return "game.word_clicked" }

// WordSuggested relays an ally's suggestion to click a word.
type WordSuggested struct {
	Suggestor string `json:"suggestor"`
	Index     int    `json:"index"`
}

func (WordSuggested) Kind() Kind   { return KindGame }
func (WordSuggested) Type() string { return "game.word_suggested" }

// Turn announces the active turn and its coordinator.
type Turn struct {
	Team        player.Team `json:"team"`
	Coordinator string      `json:"coordinator"`
}

func (Turn) Kind() Kind   { return KindGame }
func (Turn) Type() string { return "game.turn" }

// WinCondition is the reason a game ended.
type WinCondition string

const (
	WinBlackWordSelected WinCondition = "black_word_selected"
	WinWordsCompleted    WinCondition = "words_completed"
)

// GameEnded announces the winner and why.
type GameEnded struct {
	Winner    player.Team  `json:"winner"`
	Condition WinCondition `json:"condition"`
}

func (GameEnded) Kind() Kind   { return KindGame }
func (GameEnded) Type() string { return "game.ended" }

// GameState is the full current-state snapshot sent to a single player when
// sequence replay is not possible.
type GameState struct {
	Turn    Turn           `json:"turn"`
	Board   board.Opaque   `json:"board"`
	Players []PlayerOnTeam `json:"players"`
}

func (GameState) Kind() Kind   { return KindGame }
func (GameState) Type() string { return "game.state" }
