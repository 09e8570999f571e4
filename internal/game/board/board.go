// Package board provides the 25-word game board, its color invariant, and
// the role-dependent projections sent to clients.
package board

import (
	"errors"
	"fmt"
	"math/rand"
)

// WordType is the hidden color of a board word.
type WordType string

const (
	TypeBlack  WordType = "black"
	TypeNormal WordType = "normal"
	TypeBlue   WordType = "blue"
	TypeRed    WordType = "red"
)

// Color distribution over the 25 words. The clicking thresholds for the win
// condition are the blue and red counts.
const (
	NumWords  = 25
	NumBlack  = 1
	NumBlue   = 8
	NumRed    = 9
	NumNormal = NumWords - NumBlack - NumBlue - NumRed
)

// Word is a single board cell. Clicked is monotonic: it transitions
// false to true exactly once and never back.
type Word struct {
	Text    string
	Type    WordType
	Clicked bool
}

// Board is exactly NumWords words with the fixed color distribution.
type Board struct {
	words []Word
}

// ErrAlreadyClicked is returned when a word has already been revealed.
var ErrAlreadyClicked = errors.New("word already clicked")

// ErrIndexOutOfRange is returned for word indices outside [0, NumWords).
var ErrIndexOutOfRange = errors.New("word index out of range")

// New builds a board from exactly NumWords texts, assigning colors randomly:
// 1 black, 8 blue, 9 red, and the remainder normal.
//
// Precondition: texts must contain exactly NumWords entries; rng must be non-nil.
// Postcondition: Every word starts unclicked and the color counts hold.
func New(texts []string, rng *rand.Rand) (*Board, error) {
	if len(texts) != NumWords {
		return nil, fmt.Errorf("board requires %d words, got %d", NumWords, len(texts))
	}

	types := make([]WordType, 0, NumWords)
	for i := 0; i < NumBlack; i++ {
		types = append(types, TypeBlack)
	}
	for i := 0; i < NumBlue; i++ {
		types = append(types, TypeBlue)
	}
	for i := 0; i < NumRed; i++ {
		types = append(types, TypeRed)
	}
	for i := 0; i < NumNormal; i++ {
		types = append(types, TypeNormal)
	}
	rng.Shuffle(len(types), func(i, j int) {
		types[i], types[j] = types[j], types[i]
	})

	words := make([]Word, NumWords)
	for i, text := range texts {
		words[i] = Word{Text: text, Type: types[i]}
	}
	return &Board{words: words}, nil
}

// Len returns the number of words on the board.
func (b *Board) Len() int { return len(b.words) }

// At returns the word at the given index.
func (b *Board) At(index int) (Word, error) {
	if index < 0 || index >= len(b.words) {
		return Word{}, ErrIndexOutOfRange
	}
	return b.words[index], nil
}

// Click marks the word at index as clicked and returns its true color.
//
// Postcondition: Returns ErrIndexOutOfRange or ErrAlreadyClicked without
// mutating any state; on success the word's Clicked flag is set.
func (b *Board) Click(index int) (WordType, error) {
	if index < 0 || index >= len(b.words) {
		return "", ErrIndexOutOfRange
	}
	if b.words[index].Clicked {
		return "", ErrAlreadyClicked
	}
	b.words[index].Clicked = true
	return b.words[index].Type, nil
}

// Count returns how many words of the given type exist on the board.
func (b *Board) Count(t WordType) int {
	n := 0
	for _, w := range b.words {
		if w.Type == t {
			n++
		}
	}
	return n
}
