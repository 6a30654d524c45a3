// Package mdsyntax builds lossless green trees from Markdown using goldmark.
//
// Every byte of the input ends up in exactly one token or trivia piece, so
// the full text of a parsed tree equals the input. Block structure comes
// from goldmark; each source line of a leaf block becomes a token, and the
// bytes goldmark consumes as syntax (markers, fences, indentation, blank
// lines) are kept as trivia.
package mdsyntax

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/yaklabco/gosyntax/pkg/green"
	"github.com/yaklabco/gosyntax/pkg/red"
	"github.com/yaklabco/gosyntax/pkg/text"
)

// Supported Markdown flavors.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// ErrNotLossless is returned when a built tree does not cover its input.
var ErrNotLossless = errors.New("tree does not cover input")

// Options controls parsing.
type Options struct {
	// Flavor is FlavorCommonMark or FlavorGFM. Unknown values mean CommonMark.
	Flavor string

	// DetectLanguages annotates fenced code blocks that lack an info string
	// with a guessed language.
	DetectLanguages bool

	// TrailingWhitespace reports whitespace at the end of a line.
	TrailingWhitespace bool

	// HardTabs reports tab characters in whitespace trivia.
	HardTabs bool
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		Flavor:             FlavorGFM,
		DetectLanguages:    true,
		TrailingWhitespace: true,
		HardTabs:           true,
	}
}

// Document is a parsed Markdown file.
type Document struct {
	Path    string
	Content []byte
	Lines   *text.Lines
	Root    green.Node
}

// Red returns a fresh red root over the document tree.
func (d *Document) Red() *red.Node {
	return red.Root(d.Root)
}

// Position converts a byte offset to a line and column.
func (d *Document) Position(offset int) text.Position {
	return d.Lines.PositionAt(offset)
}

// Parser turns Markdown into green trees. It is safe for concurrent use.
type Parser struct {
	opts Options
	md   goldmark.Markdown
}

// New creates a parser.
func New(opts Options) *Parser {
	opts.Flavor = flavorOrDefault(opts.Flavor)
	return &Parser{opts: opts, md: newGoldmark(opts.Flavor)}
}

// Options returns the effective options.
func (p *Parser) Options() Options { return p.opts }

// Parse builds the tree for content.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	src := make([]byte, len(content))
	copy(src, content)

	gmDoc := p.md.Parser().Parse(gmtext.NewReader(src), parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	b := &treeBuilder{content: src, opts: p.opts}
	root := b.document(gmDoc)
	if root.FullWidth() != len(src) {
		return nil, fmt.Errorf("%w: width %d, input %d bytes", ErrNotLossless, root.FullWidth(), len(src))
	}

	return &Document{
		Path:    path,
		Content: src,
		Lines:   text.NewLines(src),
		Root:    root,
	}, nil
}

func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmark(flavor string) goldmark.Markdown {
	if flavor == FlavorGFM {
		return goldmark.New(goldmark.WithExtensions(extension.GFM))
	}
	return goldmark.New()
}

// treeBuilder walks the goldmark AST in document order. cursor is the first
// byte not yet owned by a token or its trivia.
type treeBuilder struct {
	content []byte
	opts    Options
	cursor  int
}

func (b *treeBuilder) document(doc ast.Node) green.Node {
	blocks := b.children(doc)
	eof := green.NewToken(green.KindEndOfFile, "", b.trivia(b.cursor, len(b.content)), nil)
	b.cursor = len(b.content)
	return green.NewNode(KindDocument, blocks, eof)
}

func (b *treeBuilder) children(n ast.Node) green.Node {
	lease := green.AcquireListBuilder()
	defer lease.Release()

	list := lease.Value()
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		list.Add(b.block(child))
	}
	return list.ToList()
}

func (b *treeBuilder) block(n ast.Node) green.Node {
	kind := blockKind(n)

	var node green.Node
	if isContainer(n) {
		node = green.NewNode(kind, b.children(n))
	} else {
		node = green.NewNode(kind, b.lines(n.Lines(), tokenKind(kind)))
	}
	return b.decorate(n, node)
}

func (b *treeBuilder) lines(segs *gmtext.Segments, kind green.Kind) green.Node {
	lease := green.AcquireListBuilder()
	defer lease.Release()

	list := lease.Value()
	for i := range segs.Len() {
		seg := segs.At(i)
		start, stop := max(seg.Start, b.cursor), min(seg.Stop, len(b.content))
		end := stop
		for end > start && isSpace(b.content[end-1]) {
			end--
		}
		if end <= start {
			continue
		}
		list.Add(b.token(kind, start, end))
	}
	return list.ToList()
}

func (b *treeBuilder) token(kind green.Kind, start, end int) *green.Token {
	leading := b.trivia(b.cursor, start)
	tail := b.lineEnd(end)
	trailing := b.trivia(end, tail)
	b.cursor = tail
	return green.NewToken(kind, string(b.content[start:end]), leading, trailing)
}

// lineEnd returns the end of the whitespace and line break following pos.
func (b *treeBuilder) lineEnd(pos int) int {
	c := b.content
	for pos < len(c) && (c[pos] == ' ' || c[pos] == '\t') {
		pos++
	}
	switch {
	case pos+1 < len(c) && c[pos] == '\r' && c[pos+1] == '\n':
		return pos + 2
	case pos < len(c) && c[pos] == '\n':
		return pos + 1
	}
	return pos
}

func (b *treeBuilder) decorate(n ast.Node, node green.Node) green.Node {
	switch gmn := n.(type) {
	case *ast.Heading:
		return green.WithAnnotations(node, green.NewAnnotation(AnnotationHeadingLevel, strconv.Itoa(gmn.Level)))

	case *ast.FencedCodeBlock:
		if lang := gmn.Language(b.content); len(lang) > 0 {
			return green.WithAnnotations(node, green.NewAnnotation(AnnotationLanguage, string(lang)))
		}
		offset, width := fenceOffset(node)
		node = green.WithDiagnostics(node, green.Diagnostic{
			Code:     CodeMissingLanguage,
			Severity: green.SeverityInfo,
			Message:  "fenced code block has no language",
			Offset:   offset,
			Width:    width,
		})
		if b.opts.DetectLanguages {
			lang := DetectLanguage(blockBody(gmn, b.content))
			if lang != LanguageText {
				node = green.WithAnnotations(node, green.NewAnnotation(AnnotationLanguage, lang))
			}
		}
	}
	return node
}

// fenceOffset locates the opening fence in the leading trivia of the
// block's first token. Blocks without content report their full start.
func fenceOffset(node green.Node) (offset, width int) {
	tok := green.FirstToken(node)
	if tok == nil || tok.Leading() == nil {
		return 0, 0
	}

	pieces := []green.Node{tok.Leading()}
	if tok.Leading().IsList() {
		pieces = slices.Collect(green.Children(tok.Leading()))
	}
	for _, piece := range pieces {
		if piece.Kind() == green.KindSkippedText {
			return offset, piece.FullWidth()
		}
		offset += piece.FullWidth()
	}
	return 0, 0
}

func blockBody(n ast.Node, content []byte) []byte {
	lines := n.Lines()
	var body []byte
	for i := range lines.Len() {
		seg := lines.At(i)
		body = append(body, seg.Value(content)...)
	}
	return body
}

func isContainer(n ast.Node) bool {
	first := n.FirstChild()
	return first != nil && first.Type() == ast.TypeBlock
}

func blockKind(n ast.Node) green.Kind {
	switch gmn := n.(type) {
	case *ast.Paragraph:
		return KindParagraph
	case *ast.Heading:
		return KindHeading
	case *ast.List:
		if gmn.IsOrdered() {
			return KindOrderedList
		}
		return KindBulletList
	case *ast.ListItem:
		return KindListItem
	case *ast.Blockquote:
		return KindBlockquote
	case *ast.FencedCodeBlock:
		return KindFencedCodeBlock
	case *ast.CodeBlock:
		return KindCodeBlock
	case *ast.ThematicBreak:
		return KindThematicBreak
	case *ast.HTMLBlock:
		return KindHTMLBlock
	case *ast.TextBlock:
		return KindTextBlock
	case *east.Table:
		return KindTable
	case *east.TableHeader:
		return KindTableHeader
	case *east.TableRow:
		return KindTableRow
	case *east.TableCell:
		return KindTableCell
	default:
		return KindBlock
	}
}

func tokenKind(block green.Kind) green.Kind {
	switch block {
	case KindCodeBlock, KindFencedCodeBlock:
		return KindCode
	case KindHTMLBlock:
		return KindHTML
	default:
		return KindText
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
