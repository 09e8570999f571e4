package board

// OpaqueWord is the client-facing view of a single word. Color is nil while
// the word's true color is hidden from the recipient.
type OpaqueWord struct {
	Text  string    `json:"text"`
	Color *WordType `json:"color,omitempty"`
}

// Opaque is the client-facing view of the whole board.
type Opaque struct {
	Words []OpaqueWord `json:"words"`
}

// HiddenProjection derives the ally view: a word's true color is revealed
// only once it has been clicked.
func (b *Board) HiddenProjection() Opaque {
	words := make([]OpaqueWord, len(b.words))
	for i, w := range b.words {
		ow := OpaqueWord{Text: w.Text}
		if w.Clicked {
			t := w.Type
			ow.Color = &t
		}
		words[i] = ow
	}
	return Opaque{Words: words}
}

// VisibleProjection derives the spymaster/undercover view: every word's true
// color is revealed unconditionally.
func (b *Board) VisibleProjection() Opaque {
	words := make([]OpaqueWord, len(b.words))
	for i, w := range b.words {
		t := w.Type
		words[i] = OpaqueWord{Text: w.Text, Color: &t}
	}
	return Opaque{Words: words}
}

// ProjectionFor returns the projection appropriate for a role's board
// visibility. fullVisibility corresponds to Role.SeesFullBoard.
func (b *Board) ProjectionFor(fullVisibility bool) Opaque {
	if fullVisibility {
		return b.VisibleProjection()
	}
	return b.HiddenProjection()
}
