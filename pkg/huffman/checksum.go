package huffman

const (
	// ChecksumBits is the size of the trailing checksum.
	ChecksumBits = 32

	// MinStreamBits is one payload byte plus the checksum.
	MinStreamBits = 8 + ChecksumBits

	// Tolerance is the largest estimated loss that is still accepted.
	Tolerance = 0.005
)

// Checksum accumulates the weighted bit sum sent after the payload.  Each bit
// is weighted by its position within its byte, so the sum is the total of the
// payload bytes read least significant bit first.  The sum wraps at 32 bits.
type Checksum struct {
	sum       uint32
	byteIndex uint8
}

func (c *Checksum) Update(bit bool) {
	if bit {
		c.sum += 1 << c.byteIndex
	}
	if c.byteIndex == 7 {
		c.byteIndex = 0
	} else {
		c.byteIndex++
	}
}

func (c Checksum) Get() uint32 {
	return c.sum
}

// Bits returns the sum as 32 bits, least significant first.
func (c Checksum) Bits() []bool {
	bits := make([]bool, ChecksumBits)
	for i := range bits {
		bits[i] = (c.sum>>i)&1 == 1
	}
	return bits
}

// Validate estimates how much of a received stream was lost.
//
// The payload (everything before the last 32 bits) is summed byte by byte with
// the same weighting the sender used, and the result is compared with the
// trailing checksum.  The loss is 1 - min/max of the two; the stream is valid
// when the loss is below Tolerance.  Streams shorter than MinStreamBits are
// invalid with a loss of 0.  When both sums are 0 the stream is valid with a
// loss of 0.
func Validate(bits []bool) (valid bool, loss float64) {
	n := len(bits)
	if n < MinStreamBits {
		return false, 0
	}

	var sum uint32
	for i := 0; i < n-ChecksumBits; i += 8 {
		for j := 0; j < 8; j++ {
			if bits[i+j] {
				sum += 1 << j
			}
		}
	}

	var check uint32
	for i, bit := range bits[n-ChecksumBits:] {
		if bit {
			check += 1 << i
		}
	}

	lo, hi := min(sum, check), max(sum, check)
	if hi == 0 {
		return true, 0
	}
	loss = 1 - float64(lo)/float64(hi)
	return loss < Tolerance, loss
}
