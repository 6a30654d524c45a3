package text_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gosyntax/pkg/text"
)

func TestSpan(t *testing.T) {
	t.Parallel()

	s := text.NewSpan(3, 4)
	assert.Equal(t, text.Span{Start: 3, End: 7}, s)
	assert.Equal(t, 4, s.Len())
	assert.False(t, s.IsEmpty())
	assert.True(t, text.Span{Start: 2, End: 2}.IsEmpty())
	assert.Equal(t, "[3..7)", s.String())

	assert.True(t, s.Contains(3))
	assert.True(t, s.Contains(6))
	assert.False(t, s.Contains(7))
	assert.False(t, s.Contains(2))

	assert.True(t, s.ContainsSpan(text.Span{Start: 4, End: 7}))
	assert.False(t, s.ContainsSpan(text.Span{Start: 4, End: 8}))
}

func TestPosition(t *testing.T) {
	t.Parallel()

	assert.True(t, text.Position{Line: 1, Column: 1}.IsValid())
	assert.False(t, text.Position{}.IsValid())
	assert.Equal(t, "12:4", text.Position{Line: 12, Column: 4}.String())
}

func TestLines(t *testing.T) {
	t.Parallel()

	content := []byte("ab\r\ncd\n\nlast")
	lines := text.NewLines(content)
	require.Equal(t, 4, lines.Count())

	info, ok := lines.Line(1)
	require.True(t, ok)
	assert.Equal(t, text.LineInfo{StartOffset: 0, NewlineStart: 2, EndOffset: 4}, info)

	_, ok = lines.Line(5)
	assert.False(t, ok)

	assert.Equal(t, "ab", string(lines.Content(1)))
	assert.Empty(t, lines.Content(3))
	assert.Equal(t, "last", string(lines.Content(4)))
	assert.Nil(t, lines.Content(0))

	tests := []struct {
		offset int
		want   text.Position
	}{
		{0, text.Position{Line: 1, Column: 1}},
		{3, text.Position{Line: 1, Column: 4}},
		{4, text.Position{Line: 2, Column: 1}},
		{7, text.Position{Line: 3, Column: 1}},
		{8, text.Position{Line: 4, Column: 1}},
		{12, text.Position{Line: 4, Column: 5}},
		{13, text.Position{}},
		{-1, text.Position{}},
	}
	for _, tc := range tests {
		got := lines.PositionAt(tc.offset)
		assert.Equal(t, tc.want, got, "offset %d", tc.offset)

		if tc.want.IsValid() {
			back, ok := lines.Offset(got)
			assert.True(t, ok)
			assert.Equal(t, tc.offset, back)
		}
	}

	_, ok = lines.Offset(text.Position{Line: 1, Column: 6})
	assert.False(t, ok)
	_, ok = lines.Offset(text.Position{Line: 2, Column: 0})
	assert.False(t, ok)
}

func TestLines_Empty(t *testing.T) {
	t.Parallel()

	lines := text.NewLines(nil)
	assert.Zero(t, lines.Count())
	assert.Equal(t, text.Position{}, lines.PositionAt(0))
}
