package green

import (
	"slices"
	"sort"
)

// WithSlot returns a copy of the internal node n with slot i replaced.
// All other children are shared with n. It panics if n is a token or
// trivia, or if i is out of range.
func WithSlot(n Node, i int, child Node) Node {
	checkSlot(i, n.SlotCount())
	children := slots(n)
	children[i] = orNil(child)
	return newNode(n.Kind(), children, isIndexed(n), n.base().extra)
}

// WithDiagnostics returns a copy of n whose own diagnostics are replaced.
func WithDiagnostics(n Node, diags ...Diagnostic) Node {
	if n == nil {
		return nil
	}
	return n.withExtra(newExtra(slices.Clone(diags), n.Annotations()))
}

// AddDiagnostics returns a copy of n with diags appended to its own
// diagnostics.
func AddDiagnostics(n Node, diags ...Diagnostic) Node {
	if n == nil || len(diags) == 0 {
		return n
	}
	merged := append(slices.Clone(n.Diagnostics()), diags...)
	return n.withExtra(newExtra(merged, n.Annotations()))
}

// WithAnnotations returns a copy of n with annots added. Annotations
// already present (same ID) are not duplicated.
func WithAnnotations(n Node, annots ...Annotation) Node {
	if n == nil || len(annots) == 0 {
		return n
	}
	merged := slices.Clone(n.Annotations())
	for _, a := range annots {
		if !containsAnnotation(merged, a) {
			merged = append(merged, a)
		}
	}
	return n.withExtra(newExtra(n.Diagnostics(), merged))
}

// WithoutAnnotations returns a copy of n with the given annotations removed.
func WithoutAnnotations(n Node, annots ...Annotation) Node {
	if n == nil || len(n.Annotations()) == 0 {
		return n
	}
	kept := slices.DeleteFunc(slices.Clone(n.Annotations()), func(a Annotation) bool {
		return containsAnnotation(annots, a)
	})
	return n.withExtra(newExtra(n.Diagnostics(), kept))
}

// HasAnnotation reports whether a is attached to n itself.
func HasAnnotation(n Node, a Annotation) bool {
	return n != nil && containsAnnotation(n.Annotations(), a)
}

func containsAnnotation(list []Annotation, a Annotation) bool {
	return slices.ContainsFunc(list, func(x Annotation) bool { return x.ID == a.ID })
}

// FirstToken returns the first token under n, or nil.
func FirstToken(n Node) *Token {
	if n == nil {
		return nil
	}
	if tok, ok := n.(*Token); ok {
		return tok
	}
	for i := range n.SlotCount() {
		if tok := FirstToken(n.Slot(i)); tok != nil {
			return tok
		}
	}
	return nil
}

// LastToken returns the last token under n, or nil.
func LastToken(n Node) *Token {
	if n == nil {
		return nil
	}
	if tok, ok := n.(*Token); ok {
		return tok
	}
	for i := n.SlotCount() - 1; i >= 0; i-- {
		if tok := LastToken(n.Slot(i)); tok != nil {
			return tok
		}
	}
	return nil
}

// LeadingTriviaWidth is the width of the first token's leading trivia.
func LeadingTriviaWidth(n Node) int {
	if tok := FirstToken(n); tok != nil {
		return tok.LeadingWidth()
	}
	return 0
}

// TrailingTriviaWidth is the width of the last token's trailing trivia.
func TrailingTriviaWidth(n Node) int {
	if tok := LastToken(n); tok != nil {
		return tok.TrailingWidth()
	}
	return 0
}

// SlotIndexAtOffset returns the index of the non-empty slot whose range
// contains offset (relative to n's full start), or -1 if none does.
func SlotIndexAtOffset(n Node, offset int) int {
	if n == nil || offset < 0 || offset >= n.FullWidth() {
		return -1
	}
	if idx, ok := n.(offsetIndexed); ok {
		offsets := idx.offsetTable()
		// Last slot starting at or before offset; zero-width slots share
		// the start of the next one, so walk forward past them.
		i := sort.Search(len(offsets), func(j int) bool { return offsets[j] > offset }) - 1
		for ; i < len(offsets); i++ {
			if w := width(n.Slot(i)); w > 0 && offset < offsets[i]+w {
				return i
			}
		}
		return -1
	}
	start := 0
	for i := range n.SlotCount() {
		w := width(n.Slot(i))
		if offset < start+w {
			return i
		}
		start += w
	}
	return -1
}
