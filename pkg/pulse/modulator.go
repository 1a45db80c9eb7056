package pulse

import (
	"fmt"
	"sync/atomic"
	"time"

	"Lasernet/pkg/device"

	"github.com/rs/zerolog/log"
)

type ModulateStateEnum int32

const (
	Idle ModulateStateEnum = iota
	Initiating
	Transmitting
	Terminating
)

func (s ModulateStateEnum) String() string {
	switch s {
	case Initiating:
		return "initiating"
	case Transmitting:
		return "transmitting"
	case Terminating:
		return "terminating"
	default:
		return "idle"
	}
}

// Modulator sends bit streams as pulse width encoded frames: a short high
// pulse for 0 and a long one for 1, bracketed by initiation and termination
// pulses.
type Modulator struct {
	Output device.Output
	Clock  device.Clock
	Timing Timing

	state atomic.Int32
}

// State is the phase of the frame currently being sent.
func (m *Modulator) State() ModulateStateEnum {
	return ModulateStateEnum(m.state.Load())
}

func (m *Modulator) setState(s ModulateStateEnum) {
	log.Trace().Str("component", "modulator").Stringer("state", s).Msg("state change")
	m.state.Store(int32(s))
}

// Modulate sends one frame carrying bits and blocks until it has been sent.
// On error the line is left where it failed and the modulator returns to Idle.
func (m *Modulator) Modulate(bits []bool) (err error) {
	defer m.setState(Idle)

	hold := func(level device.Level, d time.Duration) error {
		if err := m.Output.SetLevel(level); err != nil {
			return fmt.Errorf("pulse: set line %v while %v: %w", level, m.State(), err)
		}
		if d > 0 {
			m.Clock.Sleep(d)
		}
		return nil
	}

	state := Initiating
	for state != Idle {
		m.setState(state)
		switch state {
		case Initiating:
			if err = hold(device.Low, m.Timing.Lead); err != nil {
				return
			}
			if err = hold(device.High, m.Timing.Initiation); err != nil {
				return
			}
			if err = hold(device.Low, m.Timing.Gap); err != nil {
				return
			}
			state = Transmitting

		case Transmitting:
			for _, bit := range bits {
				width := m.Timing.Zero
				if bit {
					width = m.Timing.One
				}
				if err = hold(device.High, width); err != nil {
					return
				}
				if err = hold(device.Low, m.Timing.Gap); err != nil {
					return
				}
			}
			state = Terminating

		case Terminating:
			if err = hold(device.High, m.Timing.Termination); err != nil {
				return
			}
			if err = hold(device.Low, 0); err != nil {
				return
			}
			if f, ok := m.Output.(device.Flusher); ok {
				f.Flush()
			}
			state = Idle
		}
	}

	log.Debug().Str("component", "modulator").Int("bits", len(bits)).Dur("frame", m.Timing.FrameDuration(bits)).Msg("frame sent")
	return nil
}
