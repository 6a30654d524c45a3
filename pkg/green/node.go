// Package green implements the immutable, position-free syntax tree.
//
// Green nodes store a kind, a full width (text plus surrounding trivia), and
// child slots. They carry no parent pointer and no absolute position, so a
// single subtree can be shared by any number of trees and survives
// incremental edits untouched. Edits produce new nodes that reuse unchanged
// children by reference.
//
// Three node categories exist:
//   - internal nodes, stored in arity-specialized variants (0, 1, 2, 3, many,
//     and many with precomputed offsets),
//   - tokens, which own their text and leading/trailing trivia,
//   - trivia, leaf text such as whitespace and comments.
//
// A node of kind KindList is a transparent grouping construct: the child
// enumerators splice its elements into the parent's child sequence.
package green

import (
	"errors"
	"fmt"
)

// ErrSlotOutOfRange is the panic value (wrapped) for invalid slot indices.
var ErrSlotOutOfRange = errors.New("slot index out of range")

// Node is an immutable green node. The set of implementations is closed:
// internal nodes created by NewNode/NewList, *Token and *Trivia.
//
// A nil Node represents an omitted optional construct.
type Node interface {
	// Kind identifies what construct this node represents.
	Kind() Kind

	// FullWidth is the width of the node's text including all trivia.
	FullWidth() int

	// SlotCount returns the number of child slots, nil slots included.
	SlotCount() int

	// Slot returns the i-th child, which may be nil.
	// It panics if i is outside [0, SlotCount()).
	Slot(i int) Node

	// SlotOffset returns the offset of slot i relative to this node's
	// full start. Only nodes with precomputed offsets answer in O(1).
	// It panics if i is outside [0, SlotCount()).
	SlotOffset(i int) int

	IsToken() bool
	IsTrivia() bool
	IsList() bool

	// IsMissing reports whether this is a zero-width token inserted by a
	// parser in place of expected but absent text.
	IsMissing() bool

	// ContainsDiagnostics reports whether this node or any descendant
	// (trivia included) carries diagnostics.
	ContainsDiagnostics() bool

	// ContainsAnnotations reports whether this node or any descendant
	// (trivia included) carries annotations.
	ContainsAnnotations() bool

	// Diagnostics returns the diagnostics attached to this node only.
	Diagnostics() []Diagnostic

	// Annotations returns the annotations attached to this node only.
	Annotations() []Annotation

	base() *nodeBase
	withExtra(e *extra) Node
}

type nodeFlags uint8

const (
	flagContainsDiagnostics nodeFlags = 1 << iota
	flagContainsAnnotations
	flagMissing
)

const inheritedFlags = flagContainsDiagnostics | flagContainsAnnotations

// nodeBase holds the fields shared by every node variant.
type nodeBase struct {
	kind      Kind
	flags     nodeFlags
	fullWidth int
	extra     *extra
}

func (b *nodeBase) Kind() Kind { return b.kind }

func (b *nodeBase) FullWidth() int { return b.fullWidth }

func (b *nodeBase) IsToken() bool { return false }

func (b *nodeBase) IsTrivia() bool { return false }

func (b *nodeBase) IsList() bool { return b.kind == KindList }

func (b *nodeBase) IsMissing() bool { return b.flags&flagMissing != 0 }

func (b *nodeBase) ContainsDiagnostics() bool { return b.flags&flagContainsDiagnostics != 0 }

func (b *nodeBase) ContainsAnnotations() bool { return b.flags&flagContainsAnnotations != 0 }

func (b *nodeBase) Diagnostics() []Diagnostic {
	if b.extra == nil {
		return nil
	}
	return b.extra.diagnostics
}

func (b *nodeBase) Annotations() []Annotation {
	if b.extra == nil {
		return nil
	}
	return b.extra.annotations
}

func (b *nodeBase) base() *nodeBase { return b }

// adopt accumulates a child's width and inherited flags.
func (b *nodeBase) adopt(child Node) {
	if child == nil {
		return
	}
	cb := child.base()
	b.fullWidth += cb.fullWidth
	b.flags |= cb.flags & inheritedFlags
}

// setExtra installs out-of-line data and recomputes the flags it drives.
// Flags inherited from children must already be present in childFlags.
func (b *nodeBase) setExtra(e *extra, childFlags nodeFlags) {
	b.extra = e
	b.flags = (b.flags & flagMissing) | childFlags
	if e != nil {
		if len(e.diagnostics) > 0 {
			b.flags |= flagContainsDiagnostics
		}
		if len(e.annotations) > 0 {
			b.flags |= flagContainsAnnotations
		}
	}
}

// slotFlags folds the inherited flags of every slot of n.
func slotFlags(n Node) nodeFlags {
	var flags nodeFlags
	for i := range n.SlotCount() {
		if child := n.Slot(i); child != nil {
			flags |= child.base().flags & inheritedFlags
		}
	}
	return flags
}

func width(n Node) int {
	if n == nil {
		return 0
	}
	return n.FullWidth()
}

// isNil reports whether n is nil, including typed nil pointers of the
// exported node types.
func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Token:
		return v == nil
	case *Trivia:
		return v == nil
	default:
		return false
	}
}

func slotPanic(i, count int) {
	panic(fmt.Errorf("%w: index %d, slot count %d", ErrSlotOutOfRange, i, count))
}

func checkSlot(i, count int) {
	if i < 0 || i >= count {
		slotPanic(i, count)
	}
}

// sumOffset computes the offset of slot i by summing preceding widths.
func sumOffset(n Node, i int) int {
	checkSlot(i, n.SlotCount())
	offset := 0
	for j := range i {
		offset += width(n.Slot(j))
	}
	return offset
}
