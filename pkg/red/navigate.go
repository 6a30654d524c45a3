package red

import (
	"iter"

	"github.com/yaklabco/gosyntax/pkg/green"
)

// FindToken returns the token whose full span (trivia included) contains
// the absolute position. The search starts at n, or at the nearest
// ancestor containing position when n does not. It returns nil when the
// position is outside the tree.
func (n *Node) FindToken(position int) *Node {
	cur := n
	for !cur.FullSpan().Contains(position) {
		if cur.parent == nil {
			return nil
		}
		cur = cur.parent
	}

	for !cur.green.IsToken() {
		i := green.SlotIndexAtOffset(cur.green, position-cur.position)
		if i < 0 {
			return nil
		}
		cur = cur.Child(i)
	}
	return cur
}

// FirstToken returns the first token in n's subtree, or nil.
func (n *Node) FirstToken() *Node {
	if n.green.IsToken() {
		return n
	}
	for i := range n.green.SlotCount() {
		if child := n.Child(i); child != nil {
			if tok := child.FirstToken(); tok != nil {
				return tok
			}
		}
	}
	return nil
}

// LastToken returns the last token in n's subtree, or nil.
func (n *Node) LastToken() *Node {
	if n.green.IsToken() {
		return n
	}
	for i := n.green.SlotCount() - 1; i >= 0; i-- {
		if child := n.Child(i); child != nil {
			if tok := child.LastToken(); tok != nil {
				return tok
			}
		}
	}
	return nil
}

// NextToken returns the token following n in document order, or nil.
func (n *Node) NextToken() *Node {
	for cur := n; cur.parent != nil; cur = cur.parent {
		p := cur.parent
		for i := cur.index + 1; i < p.green.SlotCount(); i++ {
			if sibling := p.Child(i); sibling != nil {
				if tok := sibling.FirstToken(); tok != nil {
					return tok
				}
			}
		}
	}
	return nil
}

// PrevToken returns the token preceding n in document order, or nil.
func (n *Node) PrevToken() *Node {
	for cur := n; cur.parent != nil; cur = cur.parent {
		p := cur.parent
		for i := cur.index - 1; i >= 0; i-- {
			if sibling := p.Child(i); sibling != nil {
				if tok := sibling.LastToken(); tok != nil {
					return tok
				}
			}
		}
	}
	return nil
}

// DescendantTokens returns the tokens of n's subtree in document order.
func (n *Node) DescendantTokens() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		last := n.LastToken()
		for tok := n.FirstToken(); tok != nil; tok = tok.NextToken() {
			if !yield(tok) || tok == last {
				return
			}
		}
	}
}
