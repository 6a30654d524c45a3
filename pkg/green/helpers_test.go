package green_test

import (
	"github.com/yaklabco/gosyntax/pkg/green"
)

const (
	kindRoot = green.KindFirstGrammar + iota
	kindStatement
	kindWord
	kindPunct
)

func init() { //nolint:gochecknoinits // test kind names
	green.RegisterKind(kindRoot, "Root")
	green.RegisterKind(kindStatement, "Statement")
	green.RegisterKind(kindWord, "Word")
	green.RegisterKind(kindPunct, "Punct")
}

func ws(s string) *green.Trivia { return green.NewTrivia(green.KindWhitespace, s) }

func eol() *green.Trivia { return green.NewTrivia(green.KindEndOfLine, "\n") }

func word(s string) *green.Token { return green.NewToken(kindWord, s, nil, nil) }

// spaced is a word followed by a single space.
func spaced(s string) *green.Token { return green.NewToken(kindWord, s, nil, ws(" ")) }

func words(texts ...string) []green.Node {
	out := make([]green.Node, len(texts))
	for i, s := range texts {
		out[i] = word(s)
	}
	return out
}

func collect(seq func(func(green.Node) bool)) []green.Node {
	var out []green.Node
	for n := range seq {
		out = append(out, n)
	}
	return out
}

func texts(nodes []green.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = green.FullText(n)
	}
	return out
}
