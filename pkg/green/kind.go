package green

import (
	"strconv"
	"sync"
)

// Kind classifies the syntactic construct a node represents.
type Kind uint16

// Reserved kinds shared by every grammar.
const (
	KindNone Kind = iota

	// KindList marks a transparent grouping node whose children are spliced
	// into the parent's logical child sequence.
	KindList

	// Trivia kinds.
	KindWhitespace
	KindEndOfLine
	KindComment
	KindSkippedText

	KindEndOfFile

	// KindFirstGrammar is the first kind available to producers.
	KindFirstGrammar Kind = 64
)

//nolint:gochecknoglobals // Kind names are registered once by producers at init time.
var (
	kindNamesMu sync.RWMutex
	kindNames   = map[Kind]string{
		KindNone:        "None",
		KindList:        "List",
		KindWhitespace:  "Whitespace",
		KindEndOfLine:   "EndOfLine",
		KindComment:     "Comment",
		KindSkippedText: "SkippedText",
		KindEndOfFile:   "EndOfFile",
	}
)

// RegisterKind associates a display name with a grammar kind.
// Reserved kinds cannot be renamed.
func RegisterKind(kind Kind, name string) {
	if kind < KindFirstGrammar {
		return
	}
	kindNamesMu.Lock()
	kindNames[kind] = name
	kindNamesMu.Unlock()
}

// String returns the registered name, or Kind(n) for unknown kinds.
func (k Kind) String() string {
	kindNamesMu.RLock()
	name, ok := kindNames[k]
	kindNamesMu.RUnlock()
	if ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsTrivia reports whether k is one of the reserved trivia kinds.
func (k Kind) IsTrivia() bool {
	return k >= KindWhitespace && k <= KindSkippedText
}
