package layers

import (
	"errors"
	"fmt"
	"time"

	"Lasernet/pkg/async"
	"Lasernet/pkg/device"
	"Lasernet/pkg/huffman"
	"Lasernet/pkg/pulse"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type LinkConfig struct {
	Timing   pulse.Timing
	Bands    *pulse.Bands // Timing.Bands() if nil
	Interval time.Duration

	Output device.Output
	Clock  device.Clock
	Input  device.Input

	Capture          FrameWriter
	ReportBufferSize int
	PinCPU           *int
}

// Link sends one message over and over while receiving whatever arrives on its
// input line.  Both sides share the Huffman tree built from the message, which
// is never modified after NewLink returns.
type Link struct {
	Session     uuid.UUID
	Tree        *huffman.Tree
	Transmitter *Transmitter
	Receiver    *Receiver
	Reports     chan Report

	stop async.Signal
}

// NewLink encodes message and prepares both loops.  Nothing is sent until
// Start.
func NewLink(message string, c LinkConfig) (*Link, error) {
	if err := c.Timing.Validate(); err != nil {
		return nil, err
	}
	bands := c.Timing.Bands()
	if c.Bands != nil {
		bands = *c.Bands
	}
	if err := bands.Validate(); err != nil {
		return nil, err
	}
	if c.Output == nil || c.Input == nil || c.Clock == nil {
		return nil, fmt.Errorf("layers: output, input and clock are required: %w", device.ErrLineUnavailable)
	}

	tree, bits, err := huffman.Encode(message)
	if err != nil {
		return nil, err
	}

	l := &Link{
		Session: uuid.New(),
		Tree:    tree,
		Reports: make(chan Report, c.ReportBufferSize),
	}
	l.Transmitter = &Transmitter{
		Modulator: &pulse.Modulator{Output: c.Output, Clock: c.Clock, Timing: c.Timing},
		Bits:      bits,
		Interval:  c.Interval,
		PinCPU:    c.PinCPU,
	}
	l.Receiver = &Receiver{
		Demodulator: &pulse.Demodulator{Input: c.Input, Bands: bands},
		Tree:        tree,
		Session:     l.Session,
		Capture:     c.Capture,
	}

	log.Info().Stringer("session", l.Session).Int("symbols", tree.NumSymbols()).Int("bits", len(bits)).
		Dur("frame", c.Timing.FrameDuration(bits)).Msg("link ready")
	return l, nil
}

// Start runs the transmit and receive loops concurrently.  Reports is closed
// when the receive loop ends.  The returned channel delivers the loops'
// combined error once both have ended.
func (l *Link) Start() <-chan error {
	stop := l.stop.Done()
	var txErr, rxErr error
	done := async.Gather0(
		async.Job(func() {
			txErr = l.Transmitter.Loop(stop)
		}),
		async.Job(func() {
			defer close(l.Reports)
			rxErr = l.Receiver.Loop(l.Reports, stop)
		}),
	)
	return async.Promise(func() error {
		<-done
		return errors.Join(txErr, rxErr)
	})
}

// Stop asks both loops to end after their current frame.  A receiver waiting
// for a frame ends only when its input line is closed.  Stop may be called
// before Start, in which case the transmitter sends nothing.
func (l *Link) Stop() {
	l.stop.Notify()
}
