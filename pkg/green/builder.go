package green

import (
	"errors"
	"fmt"

	"github.com/yaklabco/gosyntax/pkg/pool"
)

// ErrInvalidRange is returned for offset/length pairs outside their slice.
var ErrInvalidRange = errors.New("invalid range")

// maxPooledBuilderCapacity bounds the builders kept by the shared pool.
const maxPooledBuilderCapacity = 1024

// ListBuilder is an append-only scratch buffer for assembling list nodes
// bottom-up. It can be cleared and reused.
type ListBuilder struct {
	nodes []Node
}

// NewListBuilder creates a builder with room for capacity nodes.
func NewListBuilder(capacity int) *ListBuilder {
	return &ListBuilder{nodes: make([]Node, 0, capacity)}
}

// Count returns the number of nodes added so far.
func (b *ListBuilder) Count() int { return len(b.nodes) }

// At returns the i-th added node.
func (b *ListBuilder) At(i int) Node { return b.nodes[i] }

// Add appends n. Nil nodes are ignored so lists never carry placeholders.
func (b *ListBuilder) Add(n Node) {
	if isNil(n) {
		return
	}
	b.nodes = append(b.nodes, n)
}

// AddRange appends nodes[offset:offset+length].
func (b *ListBuilder) AddRange(nodes []Node, offset, length int) error {
	if offset < 0 || length < 0 || offset+length > len(nodes) {
		return fmt.Errorf("%w: offset %d, length %d, count %d", ErrInvalidRange, offset, length, len(nodes))
	}
	for _, n := range nodes[offset : offset+length] {
		b.Add(n)
	}
	return nil
}

// AddList appends the elements of a list node, or n itself when it is not
// a list.
func (b *ListBuilder) AddList(n Node) {
	if isNil(n) {
		return
	}
	if !n.IsList() {
		b.Add(n)
		return
	}
	for i := range n.SlotCount() {
		b.Add(n.Slot(i))
	}
}

// Clear empties the builder but keeps its storage.
func (b *ListBuilder) Clear() {
	clear(b.nodes)
	b.nodes = b.nodes[:0]
}

// ToList creates an immutable list from the added nodes: nil for none,
// the node itself for one, a List node otherwise.
func (b *ListBuilder) ToList() Node {
	return NewList(b.nodes...)
}

// ToNode creates an internal node of the given kind whose slots are the
// added nodes.
func (b *ListBuilder) ToNode(kind Kind) Node {
	return NewNode(kind, b.nodes...)
}

// TypedListBuilder restricts a ListBuilder to one node type. Storage is
// delegated to the untyped builder.
type TypedListBuilder[T Node] struct {
	builder *ListBuilder
}

// NewTypedListBuilder creates a typed builder with room for capacity nodes.
func NewTypedListBuilder[T Node](capacity int) TypedListBuilder[T] {
	return TypedListBuilder[T]{builder: NewListBuilder(capacity)}
}

// TypedOver wraps an existing untyped builder.
func TypedOver[T Node](b *ListBuilder) TypedListBuilder[T] {
	return TypedListBuilder[T]{builder: b}
}

func (b TypedListBuilder[T]) Count() int { return b.builder.Count() }

func (b TypedListBuilder[T]) Add(n T) { b.builder.Add(n) }

// At returns the i-th added node.
func (b TypedListBuilder[T]) At(i int) T {
	n, _ := b.builder.At(i).(T)
	return n
}

func (b TypedListBuilder[T]) Clear() { b.builder.Clear() }

func (b TypedListBuilder[T]) ToList() Node { return b.builder.ToList() }

// Untyped returns the underlying builder.
func (b TypedListBuilder[T]) Untyped() *ListBuilder { return b.builder }

//nolint:gochecknoglobals // Shared builder pool, safe for concurrent use.
var listBuilders = pool.New(
	func() *ListBuilder { return NewListBuilder(8) },
	func(b *ListBuilder) bool {
		if cap(b.nodes) > maxPooledBuilderCapacity {
			return false
		}
		b.Clear()
		return true
	},
)

// AcquireListBuilder checks a cleared builder out of the shared pool.
// Release the lease once the built list has been created.
func AcquireListBuilder() *pool.Lease[*ListBuilder] {
	return listBuilders.Acquire()
}
