package capture

import "strings"

// BitSet8 is one byte of a packed frame.  Bit 0 is the most significant bit,
// the first bit on the line.
type BitSet8 byte

func (b *BitSet8) Set(pos int) {
	*b |= 0x80 >> pos
}

func (b *BitSet8) Clear(pos int) {
	*b &^= 0x80 >> pos
}

func (b BitSet8) IsSet(pos int) bool {
	return b&(0x80>>pos) != 0
}

func (b BitSet8) String() string {
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		if b.IsSet(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Pack packs bits into bytes, first bit in the most significant position.  A
// trailing partial byte is filled with zeros.
func Pack(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i := 0; i < len(out); i++ {
		var b BitSet8
		for j := 0; j < 8 && i*8+j < len(bits); j++ {
			if bits[i*8+j] {
				b.Set(j)
			}
		}
		out[i] = byte(b)
	}
	return out
}

// Unpack is the inverse of Pack for n bits.
func Unpack(data []byte, n int) []bool {
	n = min(n, len(data)*8)
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = BitSet8(data[i/8]).IsSet(i % 8)
	}
	return bits
}
