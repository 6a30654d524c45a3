package green

import (
	"bytes"
	"io"
	"slices"

	"github.com/yaklabco/gosyntax/pkg/pool"
)

//nolint:gochecknoglobals // Shared scratch pools.
var (
	textBuffers = pool.NewBufferPool(64 * 1024)
	nodeStacks  = pool.NewSlicePool[Node](32, 4096)
	textStacks  = pool.NewSlicePool[textItem](32, 4096)
)

// FullText reconstructs the source text of n, trivia included.
func FullText(n Node) string {
	lease := textBuffers.Acquire()
	defer lease.Release()
	buf := lease.Value()
	appendText(buf, n)
	return buf.String()
}

// WriteFullText writes the source text of n to w.
func WriteFullText(w io.Writer, n Node) error {
	lease := textBuffers.Acquire()
	defer lease.Release()
	buf := lease.Value()
	appendText(buf, n)
	_, err := buf.WriteTo(w)
	return err
}

// textItem is pending work for appendText: a node to expand, or a token's
// own text once its leading trivia is written.
type textItem struct {
	node   Node
	text   string
	isText bool
}

// appendText writes leaves left to right using an explicit stack.
func appendText(buf *bytes.Buffer, root Node) {
	lease := textStacks.Acquire()
	defer lease.Release()
	stack := lease.Value()

	*stack = append(*stack, textItem{node: root})
	for len(*stack) > 0 {
		item := (*stack)[len(*stack)-1]
		*stack = (*stack)[:len(*stack)-1]
		if item.isText {
			buf.WriteString(item.text)
			continue
		}

		switch v := item.node.(type) {
		case nil:
		case *Trivia:
			buf.WriteString(v.text)
		case *Token:
			*stack = append(*stack,
				textItem{node: v.trailing},
				textItem{text: v.text, isText: true},
				textItem{node: v.leading},
			)
		default:
			for i := v.SlotCount() - 1; i >= 0; i-- {
				*stack = append(*stack, textItem{node: v.Slot(i)})
			}
		}
	}
}

// Equivalent reports whether a and b have the same shape, kinds, text,
// diagnostics and annotations.
func Equivalent(a, b Node) bool {
	pairs := [][2]Node{{a, b}}
	for len(pairs) > 0 {
		p := pairs[len(pairs)-1]
		pairs = pairs[:len(pairs)-1]

		x, y := p[0], p[1]
		if x == nil || y == nil {
			if x != nil || y != nil {
				return false
			}
			continue
		}
		if x == y {
			continue
		}
		if !sameShell(x, y) {
			return false
		}

		switch xv := x.(type) {
		case *Trivia:
			// sameShell compared the text.
		case *Token:
			yv, _ := y.(*Token)
			pairs = append(pairs, [2]Node{xv.trailing, yv.trailing}, [2]Node{xv.leading, yv.leading})
		default:
			for i := range x.SlotCount() {
				pairs = append(pairs, [2]Node{x.Slot(i), y.Slot(i)})
			}
		}
	}
	return true
}

// sameShell compares everything about x and y except their children.
func sameShell(x, y Node) bool {
	if x.Kind() != y.Kind() || x.FullWidth() != y.FullWidth() ||
		x.IsMissing() != y.IsMissing() || x.SlotCount() != y.SlotCount() ||
		x.IsToken() != y.IsToken() || x.IsTrivia() != y.IsTrivia() {
		return false
	}
	if !slices.Equal(x.Diagnostics(), y.Diagnostics()) || !slices.Equal(x.Annotations(), y.Annotations()) {
		return false
	}
	switch xv := x.(type) {
	case *Trivia:
		yv, ok := y.(*Trivia)
		return ok && xv.text == yv.text
	case *Token:
		yv, ok := y.(*Token)
		return ok && xv.text == yv.text
	}
	return true
}

// AnnotatedNodes returns the nodes under n (n included, trivia included)
// carrying an annotation of the given kind, in pre-order.
func AnnotatedNodes(n Node, kind string) []Node {
	if n == nil || !n.ContainsAnnotations() {
		return nil
	}

	lease := nodeStacks.Acquire()
	defer lease.Release()
	stack := lease.Value()

	var found []Node
	*stack = append(*stack, n)
	for len(*stack) > 0 {
		cur := (*stack)[len(*stack)-1]
		*stack = (*stack)[:len(*stack)-1]

		if slices.ContainsFunc(cur.Annotations(), func(a Annotation) bool { return a.Kind == kind }) {
			found = append(found, cur)
		}

		// Children are pushed in reverse to pop in document order.
		if tok, ok := cur.(*Token); ok {
			for _, t := range []Node{tok.trailing, tok.leading} {
				if t != nil && t.ContainsAnnotations() {
					*stack = append(*stack, t)
				}
			}
			continue
		}
		for i := cur.SlotCount() - 1; i >= 0; i-- {
			if child := cur.Slot(i); child != nil && child.ContainsAnnotations() {
				*stack = append(*stack, child)
			}
		}
	}
	return found
}
