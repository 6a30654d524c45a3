package red_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gosyntax/pkg/green"
	"github.com/yaklabco/gosyntax/pkg/red"
	"github.com/yaklabco/gosyntax/pkg/text"
)

const (
	kindRoot = green.KindFirstGrammar + 200 + iota
	kindStatement
	kindWord
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func tok(s string, leading, trailing string) *green.Token {
	var l, t green.Node
	if leading != "" {
		l = green.NewTrivia(green.KindWhitespace, leading)
	}
	if trailing != "" {
		t = green.NewTrivia(green.KindWhitespace, trailing)
	}
	return green.NewToken(kindWord, s, l, t)
}

// sample builds "  let x\nfoo bar baz\n" as
//
//	Root
//	  Statement("  let ", "x\n")
//	  List("foo ", "bar ", "baz\n")
//	  EndOfFile
func sample() green.Node {
	return green.NewNode(kindRoot,
		green.NewNode(kindStatement, tok("let", "  ", " "), tok("x", "", "\n")),
		green.NewList(tok("foo", "", " "), tok("bar", "", " "), tok("baz", "", "\n")),
		green.NewToken(green.KindEndOfFile, "", nil, nil),
	)
}

func tokenTexts(seq func(func(*red.Node) bool)) []string {
	var out []string
	for n := range seq {
		out = append(out, n.Text())
	}
	return out
}

func TestRoot(t *testing.T) {
	t.Parallel()

	assert.Nil(t, red.Root(nil))

	root := red.Root(sample())
	require.NotNil(t, root)
	assert.Equal(t, kindRoot, root.Kind())
	assert.Zero(t, root.Position())
	assert.Equal(t, -1, root.Index())
	assert.Nil(t, root.Parent())
	assert.Same(t, root, root.Root())
	assert.Equal(t, "  let x\nfoo bar baz\n", root.String())
	assert.Equal(t, text.Span{Start: 0, End: 20}, root.FullSpan())
	assert.Equal(t, text.Span{Start: 2, End: 20}, root.Span())
}

func TestChildPositions(t *testing.T) {
	t.Parallel()

	root := red.Root(sample())
	stmt := root.Child(0)
	list := root.Child(1)

	assert.Same(t, stmt, root.Child(0), "children are cached")
	assert.Equal(t, 0, stmt.Position())
	assert.Equal(t, text.Span{Start: 0, End: 8}, stmt.FullSpan())
	assert.Equal(t, text.Span{Start: 2, End: 7}, stmt.Span())

	let := stmt.Child(0)
	assert.True(t, let.IsToken())
	assert.Equal(t, "let", let.Text())
	assert.Equal(t, text.Span{Start: 2, End: 5}, let.Span())
	assert.Equal(t, 0, let.Index())

	assert.True(t, list.IsList())
	assert.Equal(t, 8, list.Position())
	bar := list.Child(1)
	assert.Equal(t, 12, bar.Position())
	assert.Equal(t, "bar", bar.Token().Text())
	assert.Same(t, list, bar.RawParent())
	assert.Same(t, root, bar.Parent(), "lists are skipped by Parent")
	assert.Same(t, root, bar.Root())

	eof := root.Child(2)
	assert.Equal(t, 20, eof.Position())
	assert.True(t, eof.Span().IsEmpty())
	assert.Nil(t, stmt.Token())
}

func TestChildren(t *testing.T) {
	t.Parallel()

	root := red.Root(sample())

	var kinds []green.Kind
	for child := range root.Children() {
		kinds = append(kinds, child.Kind())
	}
	assert.Equal(t, []green.Kind{kindStatement, kindWord, kindWord, kindWord, green.KindEndOfFile}, kinds)

	var reversed []green.Kind
	for child := range root.ChildrenReversed() {
		reversed = append(reversed, child.Kind())
	}
	assert.Equal(t, []green.Kind{green.KindEndOfFile, kindWord, kindWord, kindWord, kindStatement}, reversed)

	var first *red.Node
	for child := range root.Children() {
		first = child
		break
	}
	assert.Same(t, root.Child(0), first)
}

func TestChildren_SkipsNilAndEmptyLists(t *testing.T) {
	t.Parallel()

	emptyList := green.NewNode(green.KindList)
	root := red.Root(green.NewNode(kindRoot,
		nil, tok("a", "", " "), emptyList,
		green.NewNode(green.KindList, nil, tok("b", "", " "), nil),
		nil, tok("c", "", ""), emptyList,
	))

	var texts []string
	var positions []int
	for child := range root.Children() {
		texts = append(texts, child.Text())
		positions = append(positions, child.Position())
		assert.Same(t, root, child.Parent())
	}
	assert.Equal(t, []string{"a", "b", "c"}, texts)
	assert.Equal(t, []int{0, 2, 4}, positions)

	var reversed []string
	for child := range root.ChildrenReversed() {
		reversed = append(reversed, child.Text())
	}
	assert.Equal(t, []string{"c", "b", "a"}, reversed)
}

func TestAncestors(t *testing.T) {
	t.Parallel()

	root := red.Root(green.NewNode(kindRoot,
		green.NewList(
			green.NewNode(kindStatement, tok("a", "", "")),
			tok("b", "", ""),
		),
	))

	a := root.FindToken(0)
	require.NotNil(t, a)

	var kinds []green.Kind
	for n := range a.Ancestors() {
		kinds = append(kinds, n.Kind())
	}
	assert.Equal(t, []green.Kind{kindStatement, kindRoot}, kinds)
	assert.Empty(t, tokenTexts(root.Ancestors()))
}

func TestFindToken(t *testing.T) {
	t.Parallel()

	root := red.Root(sample())
	content := root.String()

	for offset := range len(content) {
		found := root.FindToken(offset)
		require.NotNil(t, found, "offset %d", offset)
		assert.True(t, found.IsToken())
		assert.True(t, found.FullSpan().Contains(offset), "offset %d in %s", offset, found.FullSpan())
	}

	assert.Equal(t, "let", root.FindToken(0).Text(), "leading trivia belongs to the token")
	assert.Equal(t, "let", root.FindToken(5).Text(), "trailing trivia belongs to the token")
	assert.Equal(t, "baz", root.FindToken(19).Text())
	assert.Nil(t, root.FindToken(20))
	assert.Nil(t, root.FindToken(-1))

	baz := root.FindToken(16)
	assert.Equal(t, "let", baz.FindToken(3).Text(), "search climbs to an ancestor")
}

func TestTokenNavigation(t *testing.T) {
	t.Parallel()

	root := red.Root(sample())
	want := []string{"let", "x", "foo", "bar", "baz", ""}

	assert.Equal(t, want, tokenTexts(root.DescendantTokens()))

	var forward []string
	for n := root.FirstToken(); n != nil; n = n.NextToken() {
		forward = append(forward, n.Text())
	}
	assert.Equal(t, want, forward)

	var backward []string
	for n := root.LastToken(); n != nil; n = n.PrevToken() {
		backward = append([]string{n.Text()}, backward...)
	}
	assert.Equal(t, want, backward)

	assert.Equal(t, []string{"let", "x"}, tokenTexts(root.Child(0).DescendantTokens()))
	assert.Equal(t, []string{"foo", "bar", "baz"}, tokenTexts(root.Child(1).DescendantTokens()))
}

func TestDiagnostics(t *testing.T) {
	t.Parallel()

	flagged := green.WithDiagnostics(tok("bar", "", " "), green.Diagnostic{
		Code: "d", Severity: green.SeverityWarning, Offset: 1, Width: 1,
	})
	root := red.Root(green.NewNode(kindRoot, tok("foo", "", " "), flagged))

	for _, n := range []*red.Node{root, root.Child(1)} {
		var positions []int
		for d := range n.Diagnostics() {
			positions = append(positions, d.Position)
		}
		assert.Equal(t, []int{5}, positions)
	}
	for d := range root.Child(0).Diagnostics() {
		t.Errorf("unexpected diagnostic %v", d)
	}
}

func TestReplace(t *testing.T) {
	t.Parallel()

	original := sample()
	root := red.Root(original)

	bar := root.FindToken(13)
	require.Equal(t, "bar", bar.Text())

	edited := bar.Replace(tok("quux", "", " "))
	assert.Equal(t, "  let x\nfoo quux baz\n", edited.String())
	assert.Equal(t, "  let x\nfoo bar baz\n", root.String(), "original tree is unchanged")

	assert.Same(t, original.Slot(0), edited.Green().Slot(0), "untouched subtrees are shared")
	assert.Same(t, original.Slot(1).Slot(0), edited.Green().Slot(1).Slot(0))
	assert.NotSame(t, root.Child(0), edited.Child(0), "red wrappers belong to their tree")
	assert.Equal(t, "baz", edited.FindToken(18).Text())

	same := root.Replace(original)
	assert.Same(t, original, same.Green())
}

func TestConcurrentMaterialization(t *testing.T) {
	t.Parallel()

	items := make([]green.Node, 64)
	for i := range items {
		items[i] = tok("w", "", " ")
	}
	root := red.Root(green.NewNode(kindRoot, green.NewList(items...)))

	const workers = 16
	results := make([][]*red.Node, workers)

	g, _ := errgroup.WithContext(context.Background())
	for w := range workers {
		g.Go(func() error {
			for n := range root.DescendantTokens() {
				results[w] = append(results[w], n)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for w := 1; w < workers; w++ {
		require.Len(t, results[w], len(items))
		for i := range results[w] {
			assert.Same(t, results[0][i], results[w][i], "worker %d token %d", w, i)
		}
	}
}
