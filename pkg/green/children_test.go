package green_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gosyntax/pkg/green"
)

func TestChildren_FlattensLists(t *testing.T) {
	t.Parallel()

	emptyList := green.NewNode(green.KindList)

	tests := []struct {
		name string
		node green.Node
		want []string
	}{
		{
			name: "nested lists",
			node: green.NewNode(kindStatement, word("a"), nil, green.NewList(words("b", "c")...),
				green.NewList(words("d", "e", "f")...), word("g")),
			want: []string{"a", "b", "c", "d", "e", "f", "g"},
		},
		{
			name: "nil slots and empty lists",
			node: green.NewNode(kindRoot, nil, word("a"), emptyList,
				green.NewNode(green.KindList, nil, word("b"), nil), nil, word("c"), emptyList),
			want: []string{"a", "b", "c"},
		},
		{
			name: "only empty lists",
			node: green.NewNode(kindRoot, emptyList, nil, emptyList),
			want: []string{},
		},
		{
			name: "singleton list collapsed",
			node: green.NewNode(kindRoot, green.NewList(word("a")), word("b")),
			want: []string{"a", "b"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := texts(collect(green.Children(tc.node)))
			assert.Equal(t, tc.want, got)
			assert.Equal(t, len(tc.want), green.ChildCount(tc.node))

			reversed := texts(collect(green.ChildrenReversed(tc.node)))
			slices.Reverse(reversed)
			assert.Equal(t, got, reversed)
		})
	}
}

func TestChildren_LotsList(t *testing.T) {
	t.Parallel()

	letters := make([]string, 25)
	for i := range letters {
		letters[i] = string(rune('a' + i))
	}
	list := green.NewList(words(letters...)...)
	n := green.NewNode(kindRoot, list)

	assert.Equal(t, letters, texts(collect(green.Children(n))))
	assert.Equal(t, 25, green.ChildCount(n))
	for i := range 25 {
		assert.Equal(t, i, list.SlotOffset(i))
	}
}

func TestChildren_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, collect(green.Children(nil)))
	assert.Empty(t, collect(green.ChildrenReversed(nil)))
	assert.Empty(t, collect(green.Children(word("x"))))
	assert.Empty(t, collect(green.Children(green.NewNode(kindStatement, nil, nil))))
	assert.Zero(t, green.ChildCount(nil))
}

func TestChildren_EarlyStop(t *testing.T) {
	t.Parallel()

	n := green.NewNode(kindStatement, words("a", "b", "c", "d")...)
	var seen []string
	for child := range green.Children(n) {
		seen = append(seen, green.FullText(child))
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestChildEnumerator(t *testing.T) {
	t.Parallel()

	n := green.NewNode(kindStatement, word("a"), green.NewList(words("b", "c")...))

	e := green.NewChildEnumerator(n)
	var got []string
	for e.Next() {
		got = append(got, green.FullText(e.Current()))
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.False(t, e.Next(), "exhausted enumerator stays exhausted")
	require.Nil(t, e.Current())

	r := green.NewReversedChildEnumerator(n)
	got = got[:0]
	for r.Next() {
		got = append(got, green.FullText(r.Current()))
	}
	assert.Equal(t, []string{"c", "b", "a"}, got)
}
