package huffman

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Code is the bit string assigned to one symbol.  The first element is the
// first bit sent.
type Code []bool

// String returns the quoted "0101" representation of this Code.
func (c Code) String() string {
	var sb strings.Builder
	for _, bit := range c {
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return strconv.Quote(sb.String())
}

// HasPrefix reports whether prefix is a prefix of c.
func (c Code) HasPrefix(prefix Code) bool {
	return len(prefix) <= len(c) && slices.Equal(c[:len(prefix)], prefix)
}

var _ fmt.Stringer = Code{}

// CodeTable maps every symbol of a message to its prefix code.
type CodeTable map[Symbol]Code

// Symbols returns the symbols of the table in ascending order.
func (ct CodeTable) Symbols() []Symbol {
	symbols := make([]Symbol, 0, len(ct))
	for symbol := range ct {
		symbols = append(symbols, symbol)
	}
	slices.Sort(symbols)
	return symbols
}

// CodeTable walks the tree depth first and records the path to every leaf; a
// step to the left appends a 0 and a step to the right appends a 1.
//
// A tree holding a single symbol has no edges at all, so that symbol is given
// the one bit code "0".
func (t *Tree) CodeTable() CodeTable {
	codes := make(CodeTable, t.NumSymbols())

	if root := t.nodes[t.root]; root.isLeaf() {
		codes[root.symbol] = Code{false}
		return codes
	}

	// The walk keeps its own stack, so a degenerate tree as deep as the
	// alphabet is large cannot exhaust the goroutine stack.  Each item
	// records how far we are through that node:
	//   x=0 → arrived, left child not yet visited
	//   x=1 → left child visited
	//   x=2 → both children visited

	type stackItem struct {
		index int32
		x     byte
	}

	stack := []stackItem{{index: t.root}}
	path := make(Code, 0, 16)

	visit := func(child int32, bit bool) {
		path = append(path, bit)
		if n := t.nodes[child]; n.isLeaf() {
			codes[n.symbol] = slices.Clone(path)
			path = path[:len(path)-1]
			return
		}
		stack = append(stack, stackItem{index: child})
	}

	for len(stack) != 0 {
		top := &stack[len(stack)-1]
		n := t.nodes[top.index]
		x := top.x
		top.x++
		switch x {
		case 0:
			visit(n.left, false)
		case 1:
			visit(n.right, true)
		case 2:
			stack = stack[:len(stack)-1]
			if len(stack) != 0 {
				path = path[:len(path)-1]
			}
		}
	}

	return codes
}
