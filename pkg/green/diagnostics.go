package green

import (
	"iter"
	"slices"

	"github.com/yaklabco/gosyntax/pkg/pool"
)

// PositionedDiagnostic is a diagnostic resolved to an absolute position.
type PositionedDiagnostic struct {
	Diagnostic

	// Position is the absolute start: the owning node's full start plus
	// Diagnostic.Offset.
	Position int
}

// initialStackCapacity covers typical tree depths without regrowth.
const initialStackCapacity = 8

type diagFrame struct {
	node      Node
	slotIndex int
	diagIndex int
	position  int
	childPos  int
}

type diagStack []diagFrame

func (s *diagStack) push(f diagFrame) {
	if len(*s) == cap(*s) {
		grown := make(diagStack, len(*s), max(2*cap(*s), initialStackCapacity))
		copy(grown, *s)
		*s = grown
	}
	*s = append(*s, f)
}

func (s *diagStack) pop() {
	(*s)[len(*s)-1] = diagFrame{}
	*s = (*s)[:len(*s)-1]
}

func (s *diagStack) top() *diagFrame {
	return &(*s)[len(*s)-1]
}

// DiagnosticEnumerator finds every diagnostic in a subtree, trivia
// included, using an explicit stack so that tree depth is bounded only by
// memory. Subtrees without diagnostics are never entered.
//
// Within each token, leading trivia diagnostics come first, then the
// token's own, then trailing trivia diagnostics. A node's own diagnostics
// precede those of its descendants.
type DiagnosticEnumerator struct {
	stack   diagStack
	current PositionedDiagnostic
}

// NewDiagnosticEnumerator starts a walk over root, whose full start is at
// the given absolute position. No stack is allocated when root carries no
// diagnostics.
func NewDiagnosticEnumerator(root Node, position int) DiagnosticEnumerator {
	var e DiagnosticEnumerator
	if root != nil && root.ContainsDiagnostics() {
		e.stack = make(diagStack, 0, initialStackCapacity)
		e.push(root, position)
	}
	return e
}

func (e *DiagnosticEnumerator) push(n Node, position int) {
	tok, ok := n.(*Token)
	if !ok {
		e.stack.push(diagFrame{node: n, position: position, childPos: position})
		return
	}

	// Pushed in reverse so leading trivia is visited first.
	if tr := tok.trailing; tr != nil && tr.ContainsDiagnostics() {
		pos := position + tok.LeadingWidth() + tok.Width()
		e.stack.push(diagFrame{node: tr, position: pos, childPos: pos})
	}
	if len(tok.Diagnostics()) > 0 {
		e.stack.push(diagFrame{node: tok, position: position})
	}
	if ld := tok.leading; ld != nil && ld.ContainsDiagnostics() {
		e.stack.push(diagFrame{node: ld, position: position, childPos: position})
	}
}

// Next advances to the next diagnostic and reports whether there was one.
func (e *DiagnosticEnumerator) Next() bool {
	for len(e.stack) > 0 {
		frame := e.stack.top()

		if diags := frame.node.Diagnostics(); frame.diagIndex < len(diags) {
			diag := diags[frame.diagIndex]
			frame.diagIndex++
			e.current = PositionedDiagnostic{Diagnostic: diag, Position: frame.position + diag.Offset}
			return true
		}

		descended := false
		for frame.slotIndex < frame.node.SlotCount() {
			child := frame.node.Slot(frame.slotIndex)
			frame.slotIndex++
			if child == nil {
				continue
			}
			childPos := frame.childPos
			frame.childPos += child.FullWidth()
			if !child.ContainsDiagnostics() {
				continue
			}
			// push may reallocate the stack; frame is not used afterwards.
			e.push(child, childPos)
			descended = true
			break
		}
		if !descended {
			e.stack.pop()
		}
	}
	e.current = PositionedDiagnostic{}
	return false
}

// Current returns the diagnostic at the enumerator's position.
func (e *DiagnosticEnumerator) Current() PositionedDiagnostic { return e.current }

// Any reports whether a remaining diagnostic satisfies match. It stops at
// the first match.
func (e *DiagnosticEnumerator) Any(match func(PositionedDiagnostic) bool) bool {
	for e.Next() {
		if match(e.Current()) {
			return true
		}
	}
	return false
}

// Diagnostics returns every diagnostic in the subtree rooted at n, which is
// assumed to start at position 0. Each iteration starts a fresh walk.
func Diagnostics(n Node) iter.Seq[PositionedDiagnostic] {
	return DiagnosticsAt(n, 0)
}

// DiagnosticsAt is Diagnostics for a subtree whose full start is position.
func DiagnosticsAt(n Node, position int) iter.Seq[PositionedDiagnostic] {
	return func(yield func(PositionedDiagnostic) bool) {
		e := NewDiagnosticEnumerator(n, position)
		for e.Next() {
			if !yield(e.Current()) {
				return
			}
		}
	}
}

// AnyDiagnostic reports whether any diagnostic under n satisfies match.
func AnyDiagnostic(n Node, match func(PositionedDiagnostic) bool) bool {
	e := NewDiagnosticEnumerator(n, 0)
	return e.Any(match)
}

//nolint:gochecknoglobals // Shared scratch sets for diagnostic code collection.
var codeSets = pool.NewSetPool[string](256)

// DiagnosticCodes returns the distinct diagnostic codes under n, sorted.
func DiagnosticCodes(n Node) []string {
	if n == nil || !n.ContainsDiagnostics() {
		return nil
	}

	lease := codeSets.Acquire()
	defer lease.Release()
	seen := lease.Value()

	codes := []string{}
	for d := range Diagnostics(n) {
		if _, ok := seen[d.Code]; ok {
			continue
		}
		seen[d.Code] = struct{}{}
		codes = append(codes, d.Code)
	}
	slices.Sort(codes)
	return codes
}
