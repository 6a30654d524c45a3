package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gosyntax/internal/ui/pretty"
	"github.com/yaklabco/gosyntax/pkg/green"
	"github.com/yaklabco/gosyntax/pkg/red"
)

const (
	kindDoc  green.Kind = 300
	kindWord green.Kind = 301
)

func init() {
	green.RegisterKind(kindDoc, "Doc")
	green.RegisterKind(kindWord, "Word")
}

func sampleTree() *red.Node {
	space := green.NewTrivia(green.KindWhitespace, " ")
	hello := green.NewToken(kindWord, "hello", nil, space)
	world := green.NewToken(kindWord, "world", nil, nil)
	root := green.NewNode(kindDoc, green.NewList(hello, world))
	return red.Root(root)
}

func TestRenderTree(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	require.NoError(t, pretty.NewStyles(false).RenderTree(&b, sampleTree(), pretty.TreeOptions{}))

	want := "Doc [0..11)\n" +
		"  Word [0..5) \"hello\"\n" +
		"  Word [6..11) \"world\"\n"
	assert.Equal(t, want, b.String())
}

func TestRenderTree_Trivia(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	opts := pretty.TreeOptions{ShowTrivia: true}
	require.NoError(t, pretty.NewStyles(false).RenderTree(&b, sampleTree(), opts))
	assert.Contains(t, b.String(), "    trailing Whitespace \" \"\n")
}

func TestRenderTree_ExtraAndMissing(t *testing.T) {
	t.Parallel()

	missing := green.NewMissingToken(kindWord, nil, nil)
	root := green.NewNode(kindDoc, missing)
	root = green.WithDiagnostics(root, green.Diagnostic{Code: "expected-word", Severity: green.SeverityError})
	root = green.WithAnnotations(root, green.NewAnnotation("note", "x"))

	var b strings.Builder
	require.NoError(t, pretty.NewStyles(false).RenderTree(&b, red.Root(root), pretty.TreeOptions{}))

	out := b.String()
	assert.Contains(t, out, "Doc [0..0) {note=x} !expected-word\n")
	assert.Contains(t, out, "Word [0..0) <missing>\n")
}

func TestRenderTree_TruncatesLongTokens(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 200)
	root := red.Root(green.NewNode(kindDoc, green.NewToken(kindWord, long, nil, nil)))

	var b strings.Builder
	require.NoError(t, pretty.NewStyles(false).RenderTree(&b, root, pretty.TreeOptions{Width: 40}))

	for _, line := range strings.Split(strings.TrimRight(b.String(), "\n"), "\n") {
		assert.LessOrEqual(t, len(line), 40)
	}
	assert.Contains(t, b.String(), "...")
}

func TestRenderTree_Nil(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	require.NoError(t, pretty.NewStyles(false).RenderTree(&b, nil, pretty.TreeOptions{}))
	assert.Empty(t, b.String())
}

func TestRenderTree_ElidesDeepLevels(t *testing.T) {
	t.Parallel()

	var n green.Node = green.NewToken(kindWord, "leaf", nil, nil)
	for range pretty.MaxTreeDepth + 50 {
		n = green.NewNode(kindDoc, n)
	}

	var b strings.Builder
	require.NoError(t, pretty.NewStyles(false).RenderTree(&b, red.Root(n), pretty.TreeOptions{}))

	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	assert.Len(t, lines, pretty.MaxTreeDepth+2)
	assert.Contains(t, lines[len(lines)-1], "deeper levels elided")
	assert.NotContains(t, b.String(), "leaf")
}
