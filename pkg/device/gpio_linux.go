//go:build linux

package device

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/warthog618/go-gpiocdev"
)

// GPIOOutput is a line of a GPIO character device driven as an output.
type GPIOOutput struct {
	line   *gpiocdev.Line
	closed atomic.Bool
}

// OpenGPIOOutput requests offset on chip (e.g. "gpiochip0") as an output,
// initially low.
func OpenGPIOOutput(chip string, offset int) (*GPIOOutput, error) {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0), gpiocdev.WithPullUp)
	if err != nil {
		return nil, fmt.Errorf("%w: %s:%d: %w", ErrLineUnavailable, chip, offset, err)
	}
	log.Debug().Str("component", "gpio").Str("chip", chip).Int("offset", offset).Msg("output line requested")
	return &GPIOOutput{line: line}, nil
}

func (o *GPIOOutput) SetLevel(level Level) error {
	if o.closed.Load() {
		return ErrLineClosed
	}
	return gpioError(o.line.SetValue(int(level)))
}

func (o *GPIOOutput) Close() error {
	o.closed.Store(true)
	return o.line.Close()
}

// gpioError maps the library's closed line error to ErrLineClosed, which ends
// a transmit loop quietly.
func gpioError(err error) error {
	if errors.Is(err, gpiocdev.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrLineClosed, err)
	}
	return err
}

// GPIOInput is a line of a GPIO character device watched for edges in both
// directions.  Durations come from the kernel's event timestamps.
type GPIOInput struct {
	line  *gpiocdev.Line
	edges chan Edge

	mu     sync.Mutex
	last   time.Duration
	closed bool
}

// OpenGPIOInput requests offset on chip as a pulled-up input reporting both
// edges.  bufferSize bounds the edges waiting to be consumed.
func OpenGPIOInput(chip string, offset int, bufferSize int) (*GPIOInput, error) {
	in := &GPIOInput{edges: make(chan Edge, bufferSize)}
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(in.handle))
	if err != nil {
		return nil, fmt.Errorf("%w: %s:%d: %w", ErrLineUnavailable, chip, offset, err)
	}
	log.Debug().Str("component", "gpio").Str("chip", chip).Int("offset", offset).Msg("input line requested")
	in.line = line
	return in, nil
}

func (in *GPIOInput) handle(evt gpiocdev.LineEvent) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return
	}
	d := evt.Timestamp - in.last
	in.last = evt.Timestamp
	select {
	case in.edges <- Edge{Duration: d}:
	default:
		log.Warn().Str("component", "gpio").Uint32("seqno", evt.Seqno).Msg("edge buffer full, edge dropped")
	}
}

func (in *GPIOInput) Edges() <-chan Edge {
	return in.edges
}

func (in *GPIOInput) Close() error {
	err := in.line.Close()
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.closed {
		in.closed = true
		close(in.edges)
	}
	return err
}
