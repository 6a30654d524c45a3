package mdsyntax_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gosyntax/pkg/green"
	"github.com/yaklabco/gosyntax/pkg/mdsyntax"
	"github.com/yaklabco/gosyntax/pkg/red"
	"github.com/yaklabco/gosyntax/pkg/text"
)

func parse(t *testing.T, opts mdsyntax.Options, content string) *mdsyntax.Document {
	t.Helper()
	doc, err := mdsyntax.New(opts).Parse(context.Background(), "test.md", []byte(content))
	require.NoError(t, err)
	return doc
}

func kinds(n *red.Node) []green.Kind {
	var out []green.Kind
	for child := range n.Children() {
		out = append(out, child.Kind())
	}
	return out
}

func findKind(n *red.Node, kind green.Kind) *red.Node {
	if n.Kind() == kind {
		return n
	}
	for child := range n.Children() {
		if found := findKind(child, kind); found != nil {
			return found
		}
	}
	return nil
}

func diagnostics(doc *mdsyntax.Document) []green.PositionedDiagnostic {
	var out []green.PositionedDiagnostic
	for d := range green.Diagnostics(doc.Root) {
		out = append(out, d)
	}
	return out
}

var losslessInputs = map[string]string{
	"empty":             "",
	"blank lines":       "\n\n\n",
	"whitespace only":   "   \t \n",
	"no final newline":  "# Title\n\nparagraph",
	"atx headings":      "# One\n## Two ##\n###### Six\n",
	"setext heading":    "Title\n=====\n\nSub\n---\n",
	"paragraphs":        "first line\nsecond line\n\nnew paragraph  \nhard break\n",
	"bullet list":       "- one\n- two\n  - nested\n    - deeper\n- three\n",
	"ordered list":      "1. first\n2. second\n\n   continued\n10. tenth\n",
	"blockquote":        "> quoted\n> > nested\n>\n> after blank\n",
	"fenced code":       "```go\npackage main\n\nfunc main() {}\n```\n",
	"tilde fence":       "~~~\nplain\n~~~\n",
	"unclosed fence":    "```\nnever closed\n",
	"indented code":     "    code line\n\tcode with tab\n",
	"thematic breaks":   "---\n***\n_ _ _\n",
	"html block":        "<div>\n  <p>hi</p>\n</div>\n",
	"crlf":              "# Title\r\n\r\nbody line\r\nnext\r\n",
	"trailing tabs":     "text\t\n\tindented?\n",
	"table":             "| a | b |\n| - | :-: |\n| 1 | 2 |\n| 3 |\n",
	"task list":         "- [ ] todo\n- [x] done\n",
	"link definitions":  "[ref]: https://example.com\n\nsee [ref]\n",
	"unicode":           "# Überschrift\n\n日本語のテキスト\n",
	"mixed containers":  "> - item\n>   ```\n>   code\n>   ```\n",
	"lazy continuation": "> quote\ncontinued lazily\n",
}

func TestParse_Lossless(t *testing.T) {
	t.Parallel()

	for _, flavor := range []string{mdsyntax.FlavorCommonMark, mdsyntax.FlavorGFM} {
		for name, input := range losslessInputs {
			t.Run(flavor+"/"+name, func(t *testing.T) {
				t.Parallel()

				opts := mdsyntax.DefaultOptions()
				opts.Flavor = flavor
				doc := parse(t, opts, input)

				assert.Equal(t, input, green.FullText(doc.Root))
				assert.Equal(t, len(input), doc.Root.FullWidth())
				assert.Equal(t, mdsyntax.KindDocument, doc.Root.Kind())

				eof := red.Root(doc.Root).LastToken()
				require.NotNil(t, eof)
				assert.Equal(t, green.KindEndOfFile, eof.Kind())
				assert.Equal(t, len(input), eof.Span().Start)
			})
		}
	}
}

func TestParse_Structure(t *testing.T) {
	t.Parallel()

	doc := parse(t, mdsyntax.DefaultOptions(), "# Hello\n\nSome text.\n")
	root := doc.Red()

	assert.Equal(t, []green.Kind{mdsyntax.KindHeading, mdsyntax.KindParagraph, green.KindEndOfFile}, kinds(root))

	heading := root.Child(0).Child(0)
	require.Equal(t, mdsyntax.KindHeading, heading.Kind())
	assert.Equal(t, text.Span{Start: 2, End: 7}, heading.Span())
	require.Len(t, heading.Green().Annotations(), 1)
	assert.Equal(t, mdsyntax.AnnotationHeadingLevel, heading.Green().Annotations()[0].Kind)
	assert.Equal(t, "1", heading.Green().Annotations()[0].Data)

	hello := heading.FirstToken()
	assert.Equal(t, mdsyntax.KindText, hello.Kind())
	assert.Equal(t, "Hello", hello.Text())
	assert.Equal(t, "# ", green.FullText(hello.Token().Leading()))

	para := findKind(root, mdsyntax.KindParagraph)
	require.NotNil(t, para)
	assert.Equal(t, "Some text.", para.FirstToken().Text())
	assert.Equal(t, text.Position{Line: 3, Column: 1}, doc.Position(para.Span().Start))
	assert.Empty(t, diagnostics(doc))
}

func TestParse_OneTokenPerLine(t *testing.T) {
	t.Parallel()

	doc := parse(t, mdsyntax.DefaultOptions(), "alpha\nbeta\ngamma\n")
	para := findKind(doc.Red(), mdsyntax.KindParagraph)
	require.NotNil(t, para)

	var lines []string
	for tok := range para.DescendantTokens() {
		lines = append(lines, tok.Text())
	}
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, lines)
}

func TestParse_Containers(t *testing.T) {
	t.Parallel()

	doc := parse(t, mdsyntax.DefaultOptions(), "- one\n- two\n\n> quote\n\n---\n")
	root := doc.Red()

	assert.Equal(t, []green.Kind{
		mdsyntax.KindBulletList, mdsyntax.KindBlockquote, mdsyntax.KindThematicBreak, green.KindEndOfFile,
	}, kinds(root))

	list := findKind(root, mdsyntax.KindBulletList)
	require.NotNil(t, list)
	assert.Equal(t, []green.Kind{mdsyntax.KindListItem, mdsyntax.KindListItem}, kinds(list))

	two := root.FindToken(9)
	require.NotNil(t, two)
	assert.Equal(t, "two", two.Text())

	var ancestors []green.Kind
	for a := range two.Ancestors() {
		ancestors = append(ancestors, a.Kind())
	}
	assert.Equal(t, mdsyntax.KindListItem, ancestors[1])
	assert.Equal(t, mdsyntax.KindBulletList, ancestors[2])
	assert.Equal(t, mdsyntax.KindDocument, ancestors[len(ancestors)-1])

	ordered := parse(t, mdsyntax.DefaultOptions(), "1. a\n2. b\n")
	assert.NotNil(t, findKind(ordered.Red(), mdsyntax.KindOrderedList))
}

func TestParse_Flavor(t *testing.T) {
	t.Parallel()

	input := "| a | b |\n| - | - |\n| 1 | 2 |\n"

	gfm := parse(t, mdsyntax.Options{Flavor: mdsyntax.FlavorGFM}, input)
	table := findKind(gfm.Red(), mdsyntax.KindTable)
	require.NotNil(t, table)
	assert.NotNil(t, findKind(table, mdsyntax.KindTableCell))

	cm := parse(t, mdsyntax.Options{Flavor: mdsyntax.FlavorCommonMark}, input)
	assert.Nil(t, findKind(cm.Red(), mdsyntax.KindTable))
	assert.NotNil(t, findKind(cm.Red(), mdsyntax.KindParagraph))

	assert.Equal(t, mdsyntax.FlavorCommonMark, mdsyntax.New(mdsyntax.Options{Flavor: "rst"}).Options().Flavor)
}

func TestParse_TrailingWhitespace(t *testing.T) {
	t.Parallel()

	doc := parse(t, mdsyntax.DefaultOptions(), "text  \nmore\n")
	diags := diagnostics(doc)
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, mdsyntax.CodeTrailingWhitespace, d.Code)
	assert.Equal(t, green.SeverityWarning, d.Severity)
	assert.Equal(t, 4, d.Position)
	assert.Equal(t, 2, d.Width)
	assert.Equal(t, text.Position{Line: 1, Column: 5}, doc.Position(d.Position))

	assert.Equal(t, "text", doc.Red().FindToken(d.Position).Text(), "trailing trivia belongs to the line token")
}

func TestParse_HardTab(t *testing.T) {
	t.Parallel()

	doc := parse(t, mdsyntax.DefaultOptions(), "text\t\n")
	assert.Equal(t, []string{mdsyntax.CodeHardTab, mdsyntax.CodeTrailingWhitespace}, green.DiagnosticCodes(doc.Root))

	for _, d := range diagnostics(doc) {
		assert.Equal(t, 4, d.Position, d.Code)
	}
}

func TestParse_DiagnosticsDisabled(t *testing.T) {
	t.Parallel()

	doc := parse(t, mdsyntax.Options{Flavor: mdsyntax.FlavorGFM}, "text\t \nmore  \n")
	assert.Empty(t, diagnostics(doc))
	assert.False(t, doc.Root.ContainsDiagnostics())
}

func TestParse_FencedCode(t *testing.T) {
	t.Parallel()

	languageOf := func(n *red.Node) string {
		for _, a := range n.Green().Annotations() {
			if a.Kind == mdsyntax.AnnotationLanguage {
				return a.Data
			}
		}
		return ""
	}

	t.Run("info string", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, mdsyntax.DefaultOptions(), "```python\nprint(1)\n```\n")
		block := findKind(doc.Red(), mdsyntax.KindFencedCodeBlock)
		require.NotNil(t, block)
		assert.Equal(t, "python", languageOf(block))
		assert.Equal(t, mdsyntax.KindCode, block.FirstToken().Kind())
		assert.Empty(t, diagnostics(doc))
	})

	t.Run("detected", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, mdsyntax.DefaultOptions(), "# H\n\n```\npackage main\n```\n")
		block := findKind(doc.Red(), mdsyntax.KindFencedCodeBlock)
		require.NotNil(t, block)
		assert.Equal(t, "go", languageOf(block))

		diags := diagnostics(doc)
		require.Len(t, diags, 1)
		assert.Equal(t, mdsyntax.CodeMissingLanguage, diags[0].Code)
		assert.Equal(t, green.SeverityInfo, diags[0].Severity)
		assert.Equal(t, text.Position{Line: 3, Column: 1}, doc.Position(diags[0].Position), "points at the opening fence")
		assert.Equal(t, 3, diags[0].Width)

		annotated := green.AnnotatedNodes(doc.Root, mdsyntax.AnnotationLanguage)
		require.Len(t, annotated, 1)
		assert.Equal(t, mdsyntax.KindFencedCodeBlock, annotated[0].Kind())
	})

	t.Run("detection disabled", func(t *testing.T) {
		t.Parallel()

		opts := mdsyntax.DefaultOptions()
		opts.DetectLanguages = false
		doc := parse(t, opts, "```\npackage main\n```\n")
		block := findKind(doc.Red(), mdsyntax.KindFencedCodeBlock)
		require.NotNil(t, block)
		assert.Empty(t, languageOf(block))
		assert.Equal(t, []string{mdsyntax.CodeMissingLanguage}, green.DiagnosticCodes(doc.Root))
	})
}

func TestParse_CopiesInput(t *testing.T) {
	t.Parallel()

	input := []byte("# Title\n")
	doc, err := mdsyntax.New(mdsyntax.DefaultOptions()).Parse(context.Background(), "a.md", input)
	require.NoError(t, err)

	input[2] = 'X'
	assert.Equal(t, "# Title\n", string(doc.Content))
	assert.Equal(t, "# Title\n", green.FullText(doc.Root))
	assert.Equal(t, "a.md", doc.Path)
	assert.Equal(t, 2, doc.Lines.Count())
}

func TestParse_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mdsyntax.New(mdsyntax.DefaultOptions()).Parse(ctx, "a.md", []byte("x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestParser_ConcurrentUse(t *testing.T) {
	t.Parallel()

	parser := mdsyntax.New(mdsyntax.DefaultOptions())
	docs := make([]*mdsyntax.Document, 32)

	g, ctx := errgroup.WithContext(context.Background())
	for i := range docs {
		g.Go(func() error {
			content := fmt.Sprintf("# Doc %d\n\n- item %d\n", i, i)
			doc, err := parser.Parse(ctx, "", []byte(content))
			docs[i] = doc
			return err
		})
	}
	require.NoError(t, g.Wait())

	for i, doc := range docs {
		assert.Equal(t, fmt.Sprintf("# Doc %d\n\n- item %d\n", i, i), green.FullText(doc.Root))
	}
}

func TestKindNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Document", mdsyntax.KindDocument.String())
	assert.Equal(t, "FencedCodeBlock", mdsyntax.KindFencedCodeBlock.String())
	assert.Equal(t, "Code", mdsyntax.KindCode.String())
}
