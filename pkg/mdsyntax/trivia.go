package mdsyntax

import (
	"bytes"

	"github.com/yaklabco/gosyntax/pkg/green"
)

// trivia splits content[start:end] into whitespace, line break and skipped
// text pieces. It returns nil for an empty range.
func (b *treeBuilder) trivia(start, end int) green.Node {
	if start >= end {
		return nil
	}

	lease := green.AcquireListBuilder()
	defer lease.Release()

	list := lease.Value()
	s := b.content[start:end]
	for i := 0; i < len(s); {
		j := i + 1
		switch c := s[i]; {
		case c == ' ' || c == '\t':
			for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
				j++
			}
			list.Add(b.whitespace(s[i:j], start+j))
		case c == '\n':
			list.Add(green.NewTrivia(green.KindEndOfLine, "\n"))
		case c == '\r' && j < len(s) && s[j] == '\n':
			j++
			list.Add(green.NewTrivia(green.KindEndOfLine, "\r\n"))
		default:
			for j < len(s) && !isTriviaBreak(s[j]) {
				j++
			}
			list.Add(green.NewTrivia(green.KindSkippedText, string(s[i:j])))
		}
		i = j
	}
	return list.ToList()
}

// whitespace builds a whitespace piece ending at the absolute offset next.
func (b *treeBuilder) whitespace(ws []byte, next int) green.Node {
	var node green.Node = green.NewTrivia(green.KindWhitespace, string(ws))

	if b.opts.TrailingWhitespace && b.endsLine(next) {
		node = green.AddDiagnostics(node, green.Diagnostic{
			Code:     CodeTrailingWhitespace,
			Severity: green.SeverityWarning,
			Message:  "trailing whitespace",
			Width:    len(ws),
		})
	}
	if b.opts.HardTabs {
		if tab := bytes.IndexByte(ws, '\t'); tab >= 0 {
			node = green.AddDiagnostics(node, green.Diagnostic{
				Code:     CodeHardTab,
				Severity: green.SeverityInfo,
				Message:  "hard tab character",
				Offset:   tab,
				Width:    1,
			})
		}
	}
	return node
}

func (b *treeBuilder) endsLine(pos int) bool {
	c := b.content
	switch {
	case pos >= len(c):
		return true
	case c[pos] == '\n':
		return true
	case c[pos] == '\r':
		return pos+1 < len(c) && c[pos+1] == '\n'
	}
	return false
}

func isTriviaBreak(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
