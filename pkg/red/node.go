// Package red provides the position-aware, parent-linked view over green
// trees.
//
// A red node wraps one green node together with its absolute position and
// its parent. Children are materialized lazily on first access and cached,
// so repeated navigation from the same parent returns the same *Node.
// Wrapping the same green subtree under two different parents (for example
// before and after an edit that reused it) yields two distinct red nodes.
//
// Red trees are safe for concurrent reads. Two goroutines racing to
// materialize the same child both receive the single winning wrapper.
package red

import (
	"iter"
	"sync/atomic"

	"github.com/yaklabco/gosyntax/pkg/green"
	"github.com/yaklabco/gosyntax/pkg/text"
)

// Node is a red node.
type Node struct {
	green    green.Node
	parent   *Node
	position int

	// index is the slot index in parent, -1 for a root.
	index int

	// children caches materialized child wrappers, one entry per slot.
	children atomic.Pointer[[]atomic.Pointer[Node]]
}

// Root wraps a green tree as a red root at position 0.
func Root(g green.Node) *Node {
	if g == nil {
		return nil
	}
	return &Node{green: g, index: -1}
}

// Green returns the wrapped green node.
func (n *Node) Green() green.Node { return n.green }

// Kind returns the node kind.
func (n *Node) Kind() green.Kind { return n.green.Kind() }

// Position returns the absolute full start, leading trivia included.
func (n *Node) Position() int { return n.position }

// FullWidth returns the width including all trivia.
func (n *Node) FullWidth() int { return n.green.FullWidth() }

// FullSpan returns the absolute span including all trivia.
func (n *Node) FullSpan() text.Span {
	return text.NewSpan(n.position, n.green.FullWidth())
}

// Span returns the absolute span without the first token's leading trivia
// and the last token's trailing trivia.
func (n *Node) Span() text.Span {
	start := n.position + green.LeadingTriviaWidth(n.green)
	end := n.position + n.green.FullWidth() - green.TrailingTriviaWidth(n.green)
	if end < start {
		end = start
	}
	return text.Span{Start: start, End: end}
}

// Index returns the slot index of n within its raw parent, or -1.
func (n *Node) Index() int { return n.index }

// IsToken reports whether n wraps a token.
func (n *Node) IsToken() bool { return n.green.IsToken() }

// IsList reports whether n wraps a list node.
func (n *Node) IsList() bool { return n.green.IsList() }

// Token returns the wrapped token, or nil when n is not a token.
func (n *Node) Token() *green.Token {
	tok, _ := n.green.(*green.Token)
	return tok
}

// Text returns the token text for tokens and the full text otherwise.
func (n *Node) Text() string {
	if tok := n.Token(); tok != nil {
		return tok.Text()
	}
	return green.FullText(n.green)
}

func (n *Node) String() string {
	return green.FullText(n.green)
}

// Parent returns the nearest ancestor that is not a list, or nil for the
// root. Lists are transparent: list elements report the list's owner.
func (n *Node) Parent() *Node {
	p := n.parent
	for p != nil && p.green.IsList() {
		p = p.parent
	}
	return p
}

// RawParent returns the direct parent, which may be a list.
func (n *Node) RawParent() *Node { return n.parent }

// Root returns the root of the tree n belongs to.
func (n *Node) Root() *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// SlotCount returns the number of green slots.
func (n *Node) SlotCount() int { return n.green.SlotCount() }

func (n *Node) cache() []atomic.Pointer[Node] {
	if c := n.children.Load(); c != nil {
		return *c
	}
	fresh := make([]atomic.Pointer[Node], n.green.SlotCount())
	if n.children.CompareAndSwap(nil, &fresh) {
		return fresh
	}
	return *n.children.Load()
}

// Child returns the wrapper for slot i, or nil for an empty slot.
// It panics if i is outside [0, SlotCount()).
func (n *Node) Child(i int) *Node {
	g := n.green.Slot(i)
	if g == nil {
		return nil
	}

	slot := &n.cache()[i]
	if c := slot.Load(); c != nil {
		return c
	}
	child := &Node{
		green:    g,
		parent:   n,
		position: n.position + n.green.SlotOffset(i),
		index:    i,
	}
	if slot.CompareAndSwap(nil, child) {
		return child
	}
	return slot.Load()
}

// Children returns the logical children of n in order, with list slots
// flattened and empty slots skipped.
func (n *Node) Children() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for i := range n.green.SlotCount() {
			child := n.Child(i)
			if child == nil {
				continue
			}
			if !child.green.IsList() {
				if !yield(child) {
					return
				}
				continue
			}
			for j := range child.green.SlotCount() {
				if elem := child.Child(j); elem != nil && !yield(elem) {
					return
				}
			}
		}
	}
}

// ChildrenReversed is Children in reverse order.
func (n *Node) ChildrenReversed() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for i := n.green.SlotCount() - 1; i >= 0; i-- {
			child := n.Child(i)
			if child == nil {
				continue
			}
			if !child.green.IsList() {
				if !yield(child) {
					return
				}
				continue
			}
			for j := child.green.SlotCount() - 1; j >= 0; j-- {
				if elem := child.Child(j); elem != nil && !yield(elem) {
					return
				}
			}
		}
	}
}

// Ancestors returns the non-list ancestors of n, nearest first.
func (n *Node) Ancestors() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for p := n.Parent(); p != nil; p = p.Parent() {
			if !yield(p) {
				return
			}
		}
	}
}

// Diagnostics returns the diagnostics in n's subtree at absolute positions.
func (n *Node) Diagnostics() iter.Seq[green.PositionedDiagnostic] {
	return green.DiagnosticsAt(n.green, n.position)
}

// Replace returns the root of a new tree in which n's green node is
// replaced by g. Only the spine from n to the root is rebuilt; every other
// green subtree is shared with the original tree.
func (n *Node) Replace(g green.Node) *Node {
	for cur := n; cur.parent != nil; cur = cur.parent {
		g = green.WithSlot(cur.parent.green, cur.index, g)
	}
	return Root(g)
}
