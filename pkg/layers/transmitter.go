package layers

import (
	"errors"
	"time"

	"Lasernet/pkg/device"
	"Lasernet/pkg/pulse"

	"github.com/rs/zerolog/log"
)

// Transmitter repeatedly sends one encoded stream.
type Transmitter struct {
	Modulator *pulse.Modulator
	Bits      []bool
	Interval  time.Duration
	Clock     device.Clock // waits out Interval, Modulator.Clock if nil
	PinCPU    *int         // pins the loop's thread to this CPU

	Sent int
}

func (t *Transmitter) SendOnce() error {
	if err := t.Modulator.Modulate(t.Bits); err != nil {
		return err
	}
	t.Sent++
	return nil
}

// Loop sends a frame every Interval until stop is closed or the line closes.
// Any other line error ends the loop and is returned.
func (t *Transmitter) Loop(stop <-chan struct{}) error {
	clock := t.Clock
	if clock == nil {
		clock = t.Modulator.Clock
	}
	if t.PinCPU != nil {
		if err := device.PinThread(*t.PinCPU); err != nil {
			log.Warn().Str("component", "transmitter").Err(err).Msg("running unpinned")
		}
	}

	for {
		select {
		case <-stop:
			return nil
		default:
		}

		if err := t.SendOnce(); err != nil {
			if errors.Is(err, device.ErrLineClosed) {
				log.Debug().Str("component", "transmitter").Int("sent", t.Sent).Msg("line closed")
				return nil
			}
			log.Error().Str("component", "transmitter").Err(err).Msg("send failed")
			return err
		}
		log.Debug().Str("component", "transmitter").Int("sent", t.Sent).Msg("frame sent")

		clock.Sleep(t.Interval)
	}
}
