package pretty

import (
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/gosyntax/pkg/green"
	"github.com/yaklabco/gosyntax/pkg/red"
)

const (
	treeIndent  = "  "
	ellipsis    = "..."
	minTextRoom = 12
)

// MaxTreeDepth is the deepest level RenderTree prints; subtrees below it
// are replaced by a single elision line.
const MaxTreeDepth = 256

// TreeOptions controls RenderTree.
type TreeOptions struct {
	// ShowTrivia prints each token's leading and trailing trivia pieces.
	ShowTrivia bool

	// Width bounds line length; token text is shortened to fit. Zero means
	// DefaultWidth.
	Width int
}

// RenderTree writes an indented outline of root. List nodes are flattened
// into their parents.
func (s *Styles) RenderTree(w io.Writer, root *red.Node, opts TreeOptions) error {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if root == nil {
		return nil
	}

	var b strings.Builder
	s.renderNode(&b, root, 0, opts)
	_, err := io.WriteString(w, b.String())
	return err
}

func (s *Styles) renderNode(b *strings.Builder, n *red.Node, depth int, opts TreeOptions) {
	indent := strings.Repeat(treeIndent, depth)
	b.WriteString(s.Guide.Render(indent))
	b.WriteString(s.Kind.Render(n.Kind().String()))
	b.WriteByte(' ')

	if !n.IsToken() {
		b.WriteString(s.Span.Render(n.FullSpan().String()))
		s.writeExtra(b, n.Green())
		b.WriteByte('\n')
		if depth+1 > MaxTreeDepth && n.SlotCount() > 0 {
			b.WriteString(s.Guide.Render(indent+treeIndent) + s.Dim.Render(ellipsis+" deeper levels elided") + "\n")
			return
		}
		for child := range n.Children() {
			s.renderNode(b, child, depth+1, opts)
		}
		return
	}

	tok := n.Token()
	b.WriteString(s.Span.Render(n.Span().String()))
	b.WriteByte(' ')
	if tok.IsMissing() {
		b.WriteString(s.Missing.Render("<missing>"))
	} else {
		room := opts.Width - len(indent) - len(n.Kind().String()) - len(n.Span().String()) - 2
		b.WriteString(s.TokenText.Render(quote(tok.Text(), room)))
	}
	s.writeExtra(b, tok)
	b.WriteByte('\n')

	if opts.ShowTrivia {
		s.renderTrivia(b, "leading", tok.Leading(), depth+1, opts)
		s.renderTrivia(b, "trailing", tok.Trailing(), depth+1, opts)
	}
}

func (s *Styles) renderTrivia(b *strings.Builder, side string, trivia green.Node, depth int, opts TreeOptions) {
	indent := strings.Repeat(treeIndent, depth)
	for _, piece := range triviaPieces(trivia) {
		t, ok := piece.(*green.Trivia)
		if !ok {
			continue
		}
		label := side + " " + t.Kind().String()
		b.WriteString(s.Guide.Render(indent))
		b.WriteString(s.Trivia.Render(label))
		b.WriteByte(' ')
		b.WriteString(s.Trivia.Render(quote(t.Text(), opts.Width-len(indent)-len(label)-1)))
		s.writeExtra(b, t)
		b.WriteByte('\n')
	}
}

func (s *Styles) writeExtra(b *strings.Builder, n green.Node) {
	for _, a := range n.Annotations() {
		b.WriteByte(' ')
		b.WriteString(s.Annotation.Render("{" + a.Kind + "=" + a.Data + "}"))
	}
	for _, d := range n.Diagnostics() {
		b.WriteByte(' ')
		b.WriteString(s.severityStyle(d.Severity).Render("!" + d.Code))
	}
}

func triviaPieces(n green.Node) []green.Node {
	switch {
	case n == nil:
		return nil
	case n.IsList():
		pieces := make([]green.Node, 0, n.SlotCount())
		for piece := range green.Children(n) {
			pieces = append(pieces, piece)
		}
		return pieces
	default:
		return []green.Node{n}
	}
}

// quote returns s as a Go string literal no wider than room when possible.
func quote(s string, room int) string {
	q := strconv.Quote(s)
	room = max(room, minTextRoom)
	if len(q) <= room {
		return q
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		q = strconv.Quote(string(runes)) + ellipsis
		if len(q) <= room {
			break
		}
	}
	return q
}
