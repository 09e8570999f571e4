package engine

import "github.com/google/uuid"

// Action is a decoded gameplay action forwarded to the engine over the
// room-to-game bridge.
type Action interface {
	isAction()
}

// WordClicked is a coordinator's attempt to reveal a word.
type WordClicked struct {
	Player uuid.UUID
	Index  int
}

// WordSuggested is an ally's suggestion to click a word.
type WordSuggested struct {
	Player uuid.UUID
	Index  int
}

// WordHint is a spymaster's hint for their team's turn.
type WordHint struct {
	Player uuid.UUID
	Hint   string
}

// EndTurn passes the turn to the next coordinator in the rotation.
type EndTurn struct{}

// StateRequest asks for a full current-state snapshot, used as the
// reconnect fallback when sequence replay is not possible.
type StateRequest struct {
	Player uuid.UUID
}

func (WordClicked) isAction()   {}
func (WordSuggested) isAction() {}
func (WordHint) isAction()      {}
func (EndTurn) isAction()       {}
func (StateRequest) isAction()  {}
