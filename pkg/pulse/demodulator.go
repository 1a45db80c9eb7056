package pulse

import (
	"Lasernet/pkg/device"

	"github.com/rs/zerolog/log"
)

// ErrLineClosed is returned once the input line has closed.
var ErrLineClosed = device.ErrLineClosed

// Demodulator turns the edges of an input line back into bit streams.
//
// It waits for an edge in the initiation band and then classifies every
// following edge by duration until one reaches the termination band.  Edges
// in the ambiguous band, which includes the gaps between pulses, are counted
// and dropped; the loss shows up only in the stream's fidelity estimate.
type Demodulator struct {
	Input device.Input
	Bands Bands

	// counters for the frame being received
	Dropped int
	Errors  int
}

// DetectInitiation blocks until an initiation pulse is seen.
func (d *Demodulator) DetectInitiation() error {
	for edge := range d.Input.Edges() {
		if edge.Err != nil {
			log.Debug().Str("component", "demodulator").Err(edge.Err).Msg("bad edge while waiting for a frame")
			continue
		}
		if d.Bands.IsInitiation(edge.Duration) {
			log.Debug().Str("component", "demodulator").Dur("duration", edge.Duration).Msg("initiation detected")
			return nil
		}
	}
	return ErrLineClosed
}

// Receive collects bits until a termination pulse is seen.  It must follow
// DetectInitiation.  If the line closes first, the bits collected so far are
// returned with ErrLineClosed.
func (d *Demodulator) Receive() ([]bool, error) {
	d.Dropped, d.Errors = 0, 0
	bits := make([]bool, 0, 256)

	for edge := range d.Input.Edges() {
		if edge.Err != nil {
			d.Errors++
			continue
		}
		switch kind := d.Bands.Classify(edge.Duration); kind {
		case Zero:
			bits = append(bits, false)
		case One:
			bits = append(bits, true)
		case Termination:
			log.Debug().Str("component", "demodulator").Int("bits", len(bits)).Int("dropped", d.Dropped).Int("errors", d.Errors).Msg("termination detected")
			return bits, nil
		default:
			d.Dropped++
		}
	}

	return bits, ErrLineClosed
}

// Demodulate waits for the next frame and returns its bits.
func (d *Demodulator) Demodulate() ([]bool, error) {
	if err := d.DetectInitiation(); err != nil {
		return nil, err
	}
	return d.Receive()
}
