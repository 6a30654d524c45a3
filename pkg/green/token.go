package green

// Token is a leaf carrying source text plus its leading and trailing
// trivia. Tokens have no child slots; trivia is reached through Leading
// and Trailing.
type Token struct {
	nodeBase
	text     string
	leading  Node
	trailing Node
}

// NewToken creates a token. leading and trailing are trivia, a list of
// trivia, or nil.
func NewToken(kind Kind, text string, leading, trailing Node) *Token {
	return newToken(kind, text, orNil(leading), orNil(trailing), false, nil)
}

// NewMissingToken creates a zero-width token standing in for expected
// text that was absent from the source.
func NewMissingToken(kind Kind, leading, trailing Node) *Token {
	return newToken(kind, "", orNil(leading), orNil(trailing), true, nil)
}

func newToken(kind Kind, text string, leading, trailing Node, missing bool, e *extra) *Token {
	t := &Token{
		nodeBase: nodeBase{kind: kind, fullWidth: len(text)},
		text:     text,
		leading:  leading,
		trailing: trailing,
	}
	if missing {
		t.flags |= flagMissing
	}
	t.adopt(leading)
	t.adopt(trailing)
	t.setExtra(e, t.flags&inheritedFlags)
	return t
}

func (t *Token) IsToken() bool { return true }

func (t *Token) SlotCount() int { return 0 }

func (t *Token) Slot(i int) Node {
	slotPanic(i, 0)
	return nil
}

func (t *Token) SlotOffset(i int) int {
	slotPanic(i, 0)
	return 0
}

// Text returns the token text without trivia.
func (t *Token) Text() string { return t.text }

// Width returns the width of the token text without trivia.
func (t *Token) Width() int { return len(t.text) }

// Leading returns the leading trivia, or nil.
func (t *Token) Leading() Node { return t.leading }

// Trailing returns the trailing trivia, or nil.
func (t *Token) Trailing() Node { return t.trailing }

// LeadingWidth returns the width of the leading trivia.
func (t *Token) LeadingWidth() int { return width(t.leading) }

// TrailingWidth returns the width of the trailing trivia.
func (t *Token) TrailingWidth() int { return width(t.trailing) }

// WithLeading returns a copy of t with different leading trivia.
func (t *Token) WithLeading(leading Node) *Token {
	return newToken(t.kind, t.text, orNil(leading), t.trailing, t.IsMissing(), t.extra)
}

// WithTrailing returns a copy of t with different trailing trivia.
func (t *Token) WithTrailing(trailing Node) *Token {
	return newToken(t.kind, t.text, t.leading, orNil(trailing), t.IsMissing(), t.extra)
}

func (t *Token) withExtra(e *extra) Node {
	return newToken(t.kind, t.text, t.leading, t.trailing, t.IsMissing(), e)
}

// Trivia is leaf text that carries no syntactic meaning, such as
// whitespace, line breaks and comments.
type Trivia struct {
	nodeBase
	text string
}

// NewTrivia creates a trivia leaf.
func NewTrivia(kind Kind, text string) *Trivia {
	return &Trivia{
		nodeBase: nodeBase{kind: kind, fullWidth: len(text)},
		text:     text,
	}
}

func (t *Trivia) IsTrivia() bool { return true }

func (t *Trivia) SlotCount() int { return 0 }

func (t *Trivia) Slot(i int) Node {
	slotPanic(i, 0)
	return nil
}

func (t *Trivia) SlotOffset(i int) int {
	slotPanic(i, 0)
	return 0
}

// Text returns the trivia text.
func (t *Trivia) Text() string { return t.text }

func (t *Trivia) withExtra(e *extra) Node {
	c := *t
	c.setExtra(e, 0)
	return &c
}
