package huffman

import (
	"unicode/utf8"

	"github.com/chronos-tachyon/assert"
)

// Encode builds the tree for message and encodes message with it.
//
// The returned tree records the padding used for this stream and must be
// handed to whoever decodes it.  Symbols are runes, so message must be valid
// UTF-8.
func Encode(message string) (*Tree, []bool, error) {
	if !utf8.ValidString(message) {
		return nil, nil, ErrInvalidMessage
	}
	t, err := BuildTree(Frequencies(message))
	if err != nil {
		return nil, nil, err
	}
	bits, padding := EncodeBits(message, t.CodeTable())
	t.padding = padding
	return t, bits, nil
}

// EncodeBits expands message into a stream using codes.  It returns the stream
// and the number of zero padding bits placed between the payload and the
// checksum.
//
// Padding is 8 - (n % 8) for n payload bits, so a payload that is already
// byte aligned still gets a full byte of padding.
//
// Every symbol of message must be present in codes.
func EncodeBits(message string, codes CodeTable) ([]bool, int) {
	var checksum Checksum

	bits := make([]bool, 0, len(message)*4+8+ChecksumBits)
	for _, symbol := range message {
		code, found := codes[symbol]
		assert.Assertf(found, "symbol %q missing from code table", symbol)
		for _, bit := range code {
			bits = append(bits, bit)
			checksum.Update(bit)
		}
	}

	padding := 8 - len(bits)%8
	for i := 0; i < padding; i++ {
		bits = append(bits, false)
	}

	bits = append(bits, checksum.Bits()...)
	return bits, padding
}
