package layers

import (
	"errors"
	"time"

	"Lasernet/pkg/huffman"
	"Lasernet/pkg/pulse"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FrameWriter records the raw bits of received frames.
type FrameWriter interface {
	WriteFrame(at time.Time, bits []bool) error
}

// Receiver waits for frames, validates them and decodes them with Tree.
type Receiver struct {
	Demodulator *pulse.Demodulator
	Tree        *huffman.Tree
	Session     uuid.UUID
	Capture     FrameWriter // optional
}

// ReceiveOnce blocks until a whole frame has been received.  Low fidelity and
// undecodable frames are reported, not returned as errors; the only error is
// the line closing.
func (r *Receiver) ReceiveOnce() (Report, error) {
	if err := r.Demodulator.DetectInitiation(); err != nil {
		return Report{}, err
	}
	start := time.Now()

	bits, err := r.Demodulator.Receive()
	if err != nil {
		return Report{}, err
	}

	if r.Capture != nil {
		if err := r.Capture.WriteFrame(start, bits); err != nil {
			log.Warn().Str("component", "receiver").Err(err).Msg("frame capture failed")
		}
	}

	result, err := r.Tree.Decode(bits)
	elapsed := time.Since(start)

	report := Report{
		ID:      uuid.New(),
		Session: r.Session,
		At:      start,
		Result:  result,
		Bits:    len(bits),
		Elapsed: elapsed,
		KBps:    throughput(len(result.Message), elapsed),
		Err:     err,
	}

	logger := log.With().Str("component", "receiver").Stringer("id", report.ID).Int("bits", report.Bits).Float64("loss", result.LossPercent()).Logger()
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("frame corrupt")
	case !result.Valid:
		logger.Warn().Msg("frame rejected")
	default:
		logger.Info().Dur("elapsed", elapsed).Float64("kbps", report.KBps).Msg("frame received")
	}
	return report, nil
}

// Loop publishes a Report for every frame until stop is closed or the line
// closes.  A Receiver blocked waiting for a frame only notices stop once the
// line closes or the frame ends.
func (r *Receiver) Loop(reports chan<- Report, stop <-chan struct{}) error {
	for {
		report, err := r.ReceiveOnce()
		if errors.Is(err, pulse.ErrLineClosed) {
			log.Debug().Str("component", "receiver").Msg("line closed")
			return nil
		}
		if err != nil {
			return err
		}

		select {
		case reports <- report:
		case <-stop:
			return nil
		}
	}
}
