package layers

import (
	"fmt"
	"time"

	"Lasernet/pkg/huffman"

	"github.com/google/uuid"
)

// Report describes one received frame.
type Report struct {
	ID      uuid.UUID
	Session uuid.UUID
	At      time.Time

	Result huffman.Result
	Bits   int // bits demodulated, including padding and checksum

	// Elapsed runs from the initiation pulse to the decoded message.
	Elapsed time.Duration
	KBps    float64

	// Err is set when a frame passed validation but could not be decoded.
	Err error
}

func (r Report) String() string {
	if r.Err != nil {
		return fmt.Sprintf("Error: %v. Data Loss: %.4f%%\n", r.Err, r.Result.LossPercent())
	}
	return r.Result.String()
}

// Stats is the timing line printed after a frame.
func (r Report) Stats() string {
	return fmt.Sprintf("Elapsed Time: %.6f s  Speed: %.4f KB/s  Bits: %d\n", r.Elapsed.Seconds(), r.KBps, r.Bits)
}

// throughput is decoded kilobytes per second.
func throughput(n int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(n) / 1000 / elapsed.Seconds()
}
