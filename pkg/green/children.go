package green

import "iter"

// ChildEnumerator walks the logical children of a node front to back.
// Nil slots are skipped and list slots are entered transparently, so the
// caller sees one flat sequence whether or not a list node is present.
//
// Current is only meaningful after Next has returned true.
type ChildEnumerator struct {
	node       Node
	childIndex int
	list       Node
	listIndex  int
	current    Node
}

// NewChildEnumerator returns an enumerator positioned before the first child.
func NewChildEnumerator(n Node) ChildEnumerator {
	return ChildEnumerator{node: n, childIndex: -1}
}

// Next advances to the next child and reports whether there was one.
func (e *ChildEnumerator) Next() bool {
	for {
		if e.list != nil {
			e.listIndex++
			if e.listIndex < e.list.SlotCount() {
				if child := e.list.Slot(e.listIndex); child != nil {
					e.current = child
					return true
				}
				continue
			}
			e.list = nil
		}

		if e.node == nil || e.childIndex+1 >= e.node.SlotCount() {
			e.current = nil
			return false
		}
		e.childIndex++

		child := e.node.Slot(e.childIndex)
		switch {
		case child == nil:
		case child.IsList():
			e.list = child
			e.listIndex = -1
		default:
			e.current = child
			return true
		}
	}
}

// Current returns the child at the enumerator's position.
func (e *ChildEnumerator) Current() Node { return e.current }

// ReversedChildEnumerator is the mirror image of ChildEnumerator: it yields
// exactly the reverse of the forward sequence.
type ReversedChildEnumerator struct {
	node       Node
	childIndex int
	list       Node
	listIndex  int
	current    Node
}

// NewReversedChildEnumerator returns an enumerator positioned after the
// last child.
func NewReversedChildEnumerator(n Node) ReversedChildEnumerator {
	count := 0
	if n != nil {
		count = n.SlotCount()
	}
	return ReversedChildEnumerator{node: n, childIndex: count}
}

// Next moves to the previous child and reports whether there was one.
func (e *ReversedChildEnumerator) Next() bool {
	for {
		if e.list != nil {
			e.listIndex--
			if e.listIndex >= 0 {
				if child := e.list.Slot(e.listIndex); child != nil {
					e.current = child
					return true
				}
				continue
			}
			e.list = nil
		}

		if e.childIndex <= 0 {
			e.current = nil
			return false
		}
		e.childIndex--

		child := e.node.Slot(e.childIndex)
		switch {
		case child == nil:
		case child.IsList():
			e.list = child
			e.listIndex = child.SlotCount()
		default:
			e.current = child
			return true
		}
	}
}

// Current returns the child at the enumerator's position.
func (e *ReversedChildEnumerator) Current() Node { return e.current }

// Children returns the flattened children of n in order.
func Children(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		e := NewChildEnumerator(n)
		for e.Next() {
			if !yield(e.Current()) {
				return
			}
		}
	}
}

// ChildrenReversed returns the flattened children of n in reverse order.
func ChildrenReversed(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		e := NewReversedChildEnumerator(n)
		for e.Next() {
			if !yield(e.Current()) {
				return
			}
		}
	}
}

// ChildCount returns the number of flattened children of n.
func ChildCount(n Node) int {
	count := 0
	e := NewChildEnumerator(n)
	for e.Next() {
		count++
	}
	return count
}
