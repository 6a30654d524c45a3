package green

// LotsOfChildrenThreshold is the list length from which NewNode precomputes
// slot offsets. Any value keeps offsets correct; it only trades memory for
// O(1) SlotOffset on long lists.
const LotsOfChildrenThreshold = 10

type node0 struct {
	nodeBase
}

func (n *node0) SlotCount() int { return 0 }

func (n *node0) Slot(i int) Node {
	slotPanic(i, 0)
	return nil
}

func (n *node0) SlotOffset(i int) int {
	slotPanic(i, 0)
	return 0
}

func (n *node0) withExtra(e *extra) Node {
	c := *n
	c.setExtra(e, 0)
	return &c
}

type node1 struct {
	nodeBase
	child0 Node
}

func (n *node1) SlotCount() int { return 1 }

func (n *node1) Slot(i int) Node {
	checkSlot(i, 1)
	return n.child0
}

func (n *node1) SlotOffset(i int) int {
	checkSlot(i, 1)
	return 0
}

func (n *node1) withExtra(e *extra) Node {
	c := *n
	c.setExtra(e, slotFlags(&c))
	return &c
}

type node2 struct {
	nodeBase
	child0 Node
	child1 Node
}

func (n *node2) SlotCount() int { return 2 }

func (n *node2) Slot(i int) Node {
	switch i {
	case 0:
		return n.child0
	case 1:
		return n.child1
	default:
		slotPanic(i, 2)
		return nil
	}
}

func (n *node2) SlotOffset(i int) int {
	switch i {
	case 0:
		return 0
	case 1:
		return width(n.child0)
	default:
		slotPanic(i, 2)
		return 0
	}
}

func (n *node2) withExtra(e *extra) Node {
	c := *n
	c.setExtra(e, slotFlags(&c))
	return &c
}

type node3 struct {
	nodeBase
	child0 Node
	child1 Node
	child2 Node
}

func (n *node3) SlotCount() int { return 3 }

func (n *node3) Slot(i int) Node {
	switch i {
	case 0:
		return n.child0
	case 1:
		return n.child1
	case 2:
		return n.child2
	default:
		slotPanic(i, 3)
		return nil
	}
}

func (n *node3) SlotOffset(i int) int {
	switch i {
	case 0:
		return 0
	case 1:
		return width(n.child0)
	case 2:
		return width(n.child0) + width(n.child1)
	default:
		slotPanic(i, 3)
		return 0
	}
}

func (n *node3) withExtra(e *extra) Node {
	c := *n
	c.setExtra(e, slotFlags(&c))
	return &c
}

// nodeMany stores four or more children. SlotOffset is O(i).
type nodeMany struct {
	nodeBase
	children []Node
}

func (n *nodeMany) SlotCount() int { return len(n.children) }

func (n *nodeMany) Slot(i int) Node {
	checkSlot(i, len(n.children))
	return n.children[i]
}

func (n *nodeMany) SlotOffset(i int) int {
	return sumOffset(n, i)
}

func (n *nodeMany) withExtra(e *extra) Node {
	c := *n
	c.setExtra(e, slotFlags(&c))
	return &c
}

// nodeLots additionally caches the offset of every child.
// offsets[i] == sum(width(children[j]) for j < i), always derived at
// construction and never set independently.
type nodeLots struct {
	nodeMany
	offsets []int
}

func (n *nodeLots) SlotOffset(i int) int {
	checkSlot(i, len(n.children))
	return n.offsets[i]
}

func (n *nodeLots) withExtra(e *extra) Node {
	c := *n
	c.setExtra(e, slotFlags(&c))
	return &c
}

// offsetTable exposes the precomputed offsets for binary search.
func (n *nodeLots) offsetTable() []int { return n.offsets }

type offsetIndexed interface {
	offsetTable() []int
}

// NewNode creates an internal node, choosing the storage variant by the
// number of children. Nil children are kept as empty slots. The children
// slice is copied.
func NewNode(kind Kind, children ...Node) Node {
	indexed := kind == KindList && len(children) >= LotsOfChildrenThreshold
	return newNode(kind, children, indexed, nil)
}

// NewIndexedNode is NewNode for nodes known to be indexed frequently, such
// as top-level declaration lists: four or more children always get
// precomputed offsets.
func NewIndexedNode(kind Kind, children ...Node) Node {
	return newNode(kind, children, true, nil)
}

// NewList groups children into a list node. An empty input yields nil and
// a single child is returned as is, so consumers never see degenerate
// lists.
func NewList(children ...Node) Node {
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	default:
		return NewNode(KindList, children...)
	}
}

func newNode(kind Kind, children []Node, indexed bool, e *extra) Node {
	base := nodeBase{kind: kind}
	for _, c := range children {
		if !isNil(c) {
			base.adopt(c)
		}
	}
	base.setExtra(e, base.flags&inheritedFlags)

	switch len(children) {
	case 0:
		return &node0{nodeBase: base}
	case 1:
		return &node1{nodeBase: base, child0: orNil(children[0])}
	case 2:
		return &node2{nodeBase: base, child0: orNil(children[0]), child1: orNil(children[1])}
	case 3:
		return &node3{
			nodeBase: base,
			child0:   orNil(children[0]),
			child1:   orNil(children[1]),
			child2:   orNil(children[2]),
		}
	}

	owned := make([]Node, len(children))
	for i, c := range children {
		owned[i] = orNil(c)
	}
	many := nodeMany{nodeBase: base, children: owned}
	if !indexed {
		return &many
	}
	offsets := make([]int, len(owned))
	offset := 0
	for i, c := range owned {
		offsets[i] = offset
		offset += width(c)
	}
	return &nodeLots{nodeMany: many, offsets: offsets}
}

// orNil normalizes typed nil pointers to a nil interface.
func orNil(n Node) Node {
	if isNil(n) {
		return nil
	}
	return n
}

// isIndexed reports whether n uses precomputed offsets.
func isIndexed(n Node) bool {
	_, ok := n.(offsetIndexed)
	return ok
}

// slots copies the child slots of an internal node.
func slots(n Node) []Node {
	out := make([]Node, n.SlotCount())
	for i := range out {
		out[i] = n.Slot(i)
	}
	return out
}
