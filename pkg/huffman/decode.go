package huffman

import (
	"fmt"
	"strings"
)

// Result is the outcome of decoding one received stream.
type Result struct {
	// Valid is false when the estimated loss reached Tolerance; Message is
	// empty in that case.
	Valid   bool
	Message string
	// Loss is the estimated fraction of data lost, 0 ≤ Loss ≤ 1.
	Loss float64
}

// LossPercent is Loss as a percentage.
func (r Result) LossPercent() float64 {
	return r.Loss * 100
}

// String renders the result for a human reader.
func (r Result) String() string {
	if !r.Valid {
		return fmt.Sprintf("Error: Invalid data detected. Data Loss: %.4f%%\n", r.LossPercent())
	}
	return fmt.Sprintf("Validated message:\n\n%s\nData Loss: %.4f%%\n", r.Message, r.LossPercent())
}

// Decode validates a received stream and, if its estimated loss is tolerable,
// strips the padding and checksum and decodes the payload.
//
// A stream that fails validation is not an error: it is reported through
// Result.Valid.  An error is returned only when a stream passed validation but
// its payload does not fit the tree.
func (t *Tree) Decode(bits []bool) (Result, error) {
	valid, loss := Validate(bits)
	if !valid {
		return Result{Loss: loss}, nil
	}

	end := len(bits) - ChecksumBits - t.padding
	if end < 0 {
		return Result{Loss: loss}, fmt.Errorf("%w: %d bits cannot hold %d padding bits and the checksum", ErrCorruptStream, len(bits), t.padding)
	}

	message, err := t.DecodeBits(bits[:end])
	if err != nil {
		return Result{Loss: loss}, err
	}
	return Result{Valid: true, Message: message, Loss: loss}, nil
}

// DecodeBits walks the tree from the root for every bit of payload, a 0 going
// left and a 1 going right, and emits a symbol each time it reaches a leaf.
// The payload must end exactly on a leaf.
func (t *Tree) DecodeBits(payload []bool) (string, error) {
	var sb strings.Builder
	sb.Grow(len(payload) / 2)

	root := t.nodes[t.root]
	if root.isLeaf() {
		for i, bit := range payload {
			if bit {
				return "", fmt.Errorf("%w: bit %d leaves a single symbol tree", ErrCorruptStream, i)
			}
			sb.WriteRune(root.symbol)
		}
		return sb.String(), nil
	}

	cur := t.root
	for i, bit := range payload {
		n := t.nodes[cur]
		if bit {
			cur = n.right
		} else {
			cur = n.left
		}
		if cur == noChild {
			return "", fmt.Errorf("%w: bit %d steps to a missing child", ErrCorruptStream, i)
		}
		if leaf := t.nodes[cur]; leaf.isLeaf() {
			sb.WriteRune(leaf.symbol)
			cur = t.root
		}
	}

	if cur != t.root {
		return "", fmt.Errorf("%w: payload ends inside a code", ErrCorruptStream)
	}
	return sb.String(), nil
}
