package huffman

import (
	"bytes"
	"container/heap"
	"fmt"
	"io"
)

// noChild marks a missing left or right child in the node arena.
const noChild = int32(-1)

type node struct {
	freq   int
	symbol Symbol
	left   int32
	right  int32
}

func (n node) isLeaf() bool {
	return n.left == noChild && n.right == noChild
}

// Tree is a Huffman prefix-code tree.  Nodes live in a flat arena and refer to
// their children by index, so a deep tree built from a very skewed message
// costs no recursion.
//
// A Tree returned by Encode also remembers how many padding bits Encode
// appended; the decoding side needs this to strip the padding, so both ends of
// a link must share the same Tree.  A Tree is never modified after it is
// returned and is safe for concurrent use.
type Tree struct {
	nodes   []node
	root    int32
	padding int
}

// BuildTree builds a tree from a non-empty FrequencyTable.
//
// Leaves are seeded in ascending symbol order and ties between equal
// frequencies go to the node created first, so the same table always yields
// the same tree.  Each merge pops a and then b and creates a parent with a on
// the left and b on the right.
func BuildTree(freqs FrequencyTable) (*Tree, error) {
	if len(freqs) == 0 {
		return nil, ErrEmptyMessage
	}

	symbols := freqs.Symbols()
	t := &Tree{
		nodes: make([]node, 0, 2*len(symbols)-1),
		root:  noChild,
	}

	h := freqHeap{list: make([]indexAndFreq, 0, len(symbols))}
	for _, symbol := range symbols {
		index := t.push(node{freq: freqs[symbol], symbol: symbol, left: noChild, right: noChild})
		h.list = append(h.list, indexAndFreq{index, freqs[symbol]})
	}
	h.Init()

	for h.Len() > 1 {
		a := heap.Pop(&h).(indexAndFreq)
		b := heap.Pop(&h).(indexAndFreq)
		parent := t.push(node{freq: a.freq + b.freq, left: a.index, right: b.index})
		heap.Push(&h, indexAndFreq{parent, a.freq + b.freq})
	}

	t.root = heap.Pop(&h).(indexAndFreq).index
	return t, nil
}

func (t *Tree) push(n node) int32 {
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1)
}

// Padding is the number of zero bits appended by the Encode call that
// returned this tree.
func (t *Tree) Padding() int {
	return t.padding
}

// NumSymbols is the number of distinct symbols, i.e. leaves, in the tree.
func (t *Tree) NumSymbols() int {
	return (len(t.nodes) + 1) / 2
}

// Frequency is the total frequency at the root, i.e. the message length in
// symbols.
func (t *Tree) Frequency() int {
	return t.nodes[t.root].freq
}

// Dump writes a programmer-readable debugging dump of the tree's code table
// to the given writer.
func (t *Tree) Dump(w io.Writer) (int64, error) {
	codes := t.CodeTable()
	var buf bytes.Buffer
	buf.WriteString("Tree{\n")
	fmt.Fprintf(&buf, "\tNumSymbols() = %d\n", t.NumSymbols())
	fmt.Fprintf(&buf, "\tPadding() = %d\n", t.padding)
	for _, symbol := range codes.Symbols() {
		fmt.Fprintf(&buf, "\tEncode(%q) = %s\n", symbol, codes[symbol])
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// type indexAndFreq + type freqHeap {{{

type indexAndFreq struct {
	index int32
	freq  int
}

type freqHeap struct {
	list []indexAndFreq
}

func (h *freqHeap) Init() {
	heap.Init(h)
}

func (h *freqHeap) Len() int {
	return len(h.list)
}

func (h *freqHeap) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *freqHeap) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	if a.freq != b.freq {
		return a.freq < b.freq
	}
	return a.index < b.index
}

func (h *freqHeap) Push(x interface{}) {
	h.list = append(h.list, x.(indexAndFreq))
}

func (h *freqHeap) Pop() interface{} {
	last := len(h.list) - 1
	x := h.list[last]
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*freqHeap)(nil)

// }}}
