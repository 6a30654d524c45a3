package green

import (
	"errors"
	"fmt"
	"io"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/yaklabco/gosyntax/pkg/pool"
)

// ErrCorrupt is returned when persisted tree data cannot be decoded.
var ErrCorrupt = errors.New("corrupt tree data")

// Persisted trees start with this magic string followed by a format version.
const (
	persistMagic   = "GSYN"
	persistVersion = 1
)

// Record tags. Widths, flags and offset tables are derived data and are
// never written; they are recomputed when nodes are rebuilt on read.
const (
	tagNil uint64 = iota
	tagNode
	tagIndexedNode
	tagToken
	tagMissingToken
	tagTrivia
)

//nolint:gochecknoglobals // Shared string-table scratch maps.
var stringTables = pool.NewMapPool[string, uint64](16 * 1024)

// Encode serializes n, which may be nil.
func Encode(n Node) []byte {
	lease := stringTables.Acquire()
	defer lease.Release()

	enc := encoder{
		buf:     make([]byte, 0, 64+sizeHint(n)),
		strings: lease.Value(),
	}
	enc.buf = append(enc.buf, persistMagic...)
	enc.varint(persistVersion)
	enc.node(n)
	return enc.buf
}

func sizeHint(n Node) int {
	if n == nil {
		return 0
	}
	return n.FullWidth()
}

// WriteTo writes the serialized form of n to w.
func WriteTo(w io.Writer, n Node) (int64, error) {
	written, err := w.Write(Encode(n))
	if err != nil {
		return int64(written), fmt.Errorf("write tree: %w", err)
	}
	return int64(written), nil
}

// Decode rebuilds a tree serialized by Encode.
func Decode(data []byte) (Node, error) {
	if len(data) < len(persistMagic) || string(data[:len(persistMagic)]) != persistMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	dec := decoder{data: data[len(persistMagic):]}

	version, err := dec.varint()
	if err != nil {
		return nil, err
	}
	if version != persistVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, version)
	}

	n, err := dec.node()
	if err != nil {
		return nil, err
	}
	if len(dec.data) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(dec.data))
	}
	return n, nil
}

// ReadFrom reads a tree written by WriteTo.
func ReadFrom(r io.Reader) (Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}
	return Decode(data)
}

type encoder struct {
	buf     []byte
	strings map[string]uint64
}

func (e *encoder) varint(v uint64) {
	e.buf = protowire.AppendVarint(e.buf, v)
}

func (e *encoder) int(v int) {
	e.varint(uint64(v))
}

// signed writes v zigzag-encoded; diagnostic ranges are not validated and
// may be negative.
func (e *encoder) signed(v int) {
	e.varint(protowire.EncodeZigZag(int64(v)))
}

// string writes s once; later occurrences refer back to the first.
func (e *encoder) string(s string) {
	if idx, ok := e.strings[s]; ok {
		e.varint(idx + 1)
		return
	}
	e.strings[s] = uint64(len(e.strings))
	e.varint(0)
	e.buf = protowire.AppendString(e.buf, s)
}

// encodeFrame is a node whose header is written and whose children are
// being written. next counts children already visited; a token's children
// are its leading and trailing trivia.
type encodeFrame struct {
	node Node
	next int
}

// node writes the tree under root in pre-order with an explicit stack.
// Each record's extra data follows its last child.
func (e *encoder) node(root Node) {
	var stack []encodeFrame
	if e.open(root) {
		stack = append(stack, encodeFrame{node: root})
	}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		child, ok := encodeChild(top)
		if !ok {
			e.extra(top.node)
			stack[len(stack)-1] = encodeFrame{}
			stack = stack[:len(stack)-1]
			continue
		}
		if e.open(child) {
			stack = append(stack, encodeFrame{node: child})
		}
	}
}

// open writes the record header of n. It reports whether n has children
// still to be written; leaves are written completely.
func (e *encoder) open(n Node) bool {
	switch v := n.(type) {
	case nil:
		e.varint(tagNil)
		return false
	case *Trivia:
		e.varint(tagTrivia)
		e.varint(uint64(v.kind))
		e.string(v.text)
		e.extra(n)
		return false
	case *Token:
		if v.IsMissing() {
			e.varint(tagMissingToken)
			e.varint(uint64(v.kind))
		} else {
			e.varint(tagToken)
			e.varint(uint64(v.kind))
			e.string(v.text)
		}
		return true
	default:
		if isIndexed(n) {
			e.varint(tagIndexedNode)
		} else {
			e.varint(tagNode)
		}
		e.varint(uint64(n.Kind()))
		e.int(n.SlotCount())
		return true
	}
}

func encodeChild(f *encodeFrame) (Node, bool) {
	if tok, ok := f.node.(*Token); ok {
		f.next++
		switch f.next {
		case 1:
			return tok.leading, true
		case 2:
			return tok.trailing, true
		default:
			return nil, false
		}
	}
	if f.next >= f.node.SlotCount() {
		return nil, false
	}
	f.next++
	return f.node.Slot(f.next - 1), true
}

func (e *encoder) extra(n Node) {
	diags := n.Diagnostics()
	e.int(len(diags))
	for _, d := range diags {
		e.string(d.Code)
		e.string(string(d.Severity))
		e.string(d.Message)
		e.signed(d.Offset)
		e.signed(d.Width)
	}

	annots := n.Annotations()
	e.int(len(annots))
	for _, a := range annots {
		e.varint(a.ID)
		e.string(a.Kind)
		e.string(a.Data)
	}
}

type decoder struct {
	data    []byte
	strings []string
}

func (d *decoder) varint() (uint64, error) {
	v, n := protowire.ConsumeVarint(d.data)
	if n < 0 {
		return 0, fmt.Errorf("%w: %w", ErrCorrupt, protowire.ParseError(n))
	}
	d.data = d.data[n:]
	return v, nil
}

func (d *decoder) int() (int, error) {
	v, err := d.varint()
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: value %d out of range", ErrCorrupt, v)
	}
	return int(v), nil
}

func (d *decoder) signed() (int, error) {
	v, err := d.varint()
	if err != nil {
		return 0, err
	}
	s := protowire.DecodeZigZag(v)
	if s > math.MaxInt32 || s < math.MinInt32 {
		return 0, fmt.Errorf("%w: value %d out of range", ErrCorrupt, s)
	}
	return int(s), nil
}

// count reads an element count. Every element takes at least one byte, so
// counts larger than the remaining input are rejected before allocating.
func (d *decoder) count() (int, error) {
	v, err := d.int()
	if err != nil {
		return 0, err
	}
	if v > len(d.data) {
		return 0, fmt.Errorf("%w: count %d exceeds remaining input", ErrCorrupt, v)
	}
	return v, nil
}

func (d *decoder) kind() (Kind, error) {
	v, err := d.varint()
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint16 {
		return 0, fmt.Errorf("%w: kind %d out of range", ErrCorrupt, v)
	}
	return Kind(v), nil
}

func (d *decoder) string() (string, error) {
	ref, err := d.varint()
	if err != nil {
		return "", err
	}
	if ref > 0 {
		if ref > uint64(len(d.strings)) {
			return "", fmt.Errorf("%w: string reference %d out of range", ErrCorrupt, ref)
		}
		return d.strings[ref-1], nil
	}
	s, n := protowire.ConsumeString(d.data)
	if n < 0 {
		return "", fmt.Errorf("%w: %w", ErrCorrupt, protowire.ParseError(n))
	}
	d.data = d.data[n:]
	d.strings = append(d.strings, s)
	return s, nil
}

// decodeFrame is a token or internal node whose children are being read.
type decodeFrame struct {
	tag      uint64
	kind     Kind
	text     string
	children []Node
	want     int
}

// node reads one tree with an explicit stack, so nesting depth is bounded
// by the input size rather than the goroutine stack.
func (d *decoder) node() (Node, error) {
	var stack []decodeFrame
	for {
		n, frame, err := d.open()
		if err != nil {
			return nil, err
		}
		if frame != nil {
			if frame.want > 0 {
				stack = append(stack, *frame)
				// Every open record still needs at least two bytes for its extra counts.
				if 2*len(stack) > len(d.data) {
					return nil, fmt.Errorf("%w: nesting exceeds remaining input", ErrCorrupt)
				}
				continue
			}
			if n, err = d.close(frame); err != nil {
				return nil, err
			}
		}

		// n is complete: hand it to its parent and close every parent it completes.
		for {
			if len(stack) == 0 {
				return n, nil
			}
			top := &stack[len(stack)-1]
			top.children = append(top.children, n)
			if len(top.children) < top.want {
				break
			}
			if n, err = d.close(top); err != nil {
				return nil, err
			}
			stack[len(stack)-1] = decodeFrame{}
			stack = stack[:len(stack)-1]
		}
	}
}

// open reads a record header. Leaves are returned complete; tokens and
// internal nodes come back as a frame waiting for their children.
func (d *decoder) open() (Node, *decodeFrame, error) {
	tag, err := d.varint()
	if err != nil {
		return nil, nil, err
	}
	if tag == tagNil {
		return nil, nil, nil
	}

	kind, err := d.kind()
	if err != nil {
		return nil, nil, err
	}

	switch tag {
	case tagTrivia:
		text, err := d.string()
		if err != nil {
			return nil, nil, err
		}
		e, err := d.extra()
		if err != nil {
			return nil, nil, err
		}
		t := NewTrivia(kind, text)
		t.setExtra(e, 0)
		return t, nil, nil

	case tagToken, tagMissingToken:
		var text string
		if tag == tagToken {
			if text, err = d.string(); err != nil {
				return nil, nil, err
			}
		}
		return nil, &decodeFrame{tag: tag, kind: kind, text: text, children: make([]Node, 0, 2), want: 2}, nil

	case tagNode, tagIndexedNode:
		count, err := d.count()
		if err != nil {
			return nil, nil, err
		}
		return nil, &decodeFrame{tag: tag, kind: kind, children: make([]Node, 0, count), want: count}, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown record tag %d", ErrCorrupt, tag)
	}
}

// close reads the extra data that follows the children of f and builds its node.
func (d *decoder) close(f *decodeFrame) (Node, error) {
	e, err := d.extra()
	if err != nil {
		return nil, err
	}
	switch f.tag {
	case tagToken, tagMissingToken:
		return newToken(f.kind, f.text, f.children[0], f.children[1], f.tag == tagMissingToken, e), nil
	default:
		return newNode(f.kind, f.children, f.tag == tagIndexedNode, e), nil
	}
}

func (d *decoder) extra() (*extra, error) {
	var diags []Diagnostic
	count, err := d.count()
	if err != nil {
		return nil, err
	}
	for range count {
		var diag Diagnostic
		var severity string
		if diag.Code, err = d.string(); err != nil {
			return nil, err
		}
		if severity, err = d.string(); err != nil {
			return nil, err
		}
		diag.Severity = Severity(severity)
		if diag.Message, err = d.string(); err != nil {
			return nil, err
		}
		if diag.Offset, err = d.signed(); err != nil {
			return nil, err
		}
		if diag.Width, err = d.signed(); err != nil {
			return nil, err
		}
		diags = append(diags, diag)
	}

	var annots []Annotation
	if count, err = d.count(); err != nil {
		return nil, err
	}
	for range count {
		var a Annotation
		if a.ID, err = d.varint(); err != nil {
			return nil, err
		}
		if a.Kind, err = d.string(); err != nil {
			return nil, err
		}
		if a.Data, err = d.string(); err != nil {
			return nil, err
		}
		annots = append(annots, a)
	}
	return newExtra(diags, annots), nil
}
