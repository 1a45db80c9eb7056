package huffman

import "errors"

var (
	ErrEmptyMessage   = errors.New("huffman: empty message")
	ErrInvalidMessage = errors.New("huffman: message is not valid UTF-8")
	ErrCorruptStream  = errors.New("huffman: corrupt stream")
)
