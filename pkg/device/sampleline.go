package device

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// SampleLine drives and observes a digital line over a sample stream Device,
// e.g. an audio interface looped back through a cable.
//
// As an Output and Clock, SetLevel selects the level and Sleep stages that
// level for the requested time as a run of samples: Amplitude for High, 0 for
// Low.  Flush hands the staged samples to the device as one contiguous chunk,
// so a frame cannot be torn apart by the device running ahead of the
// transmitter.  The device sends silence whenever its queue is empty, so a Low
// hold with nothing staged is simply waited out.
//
// As an Input, every input sample whose magnitude exceeds Threshold reads as
// High.  Level changes are reported with the number of samples since the
// previous change converted to time with SampleRate.
type SampleLine struct {
	Device     Device
	SampleRate float64
	Amplitude  int32
	Threshold  int32

	OutputBufferSize int // chunks of queued output
	InputBufferSize  int // edges not yet consumed

	once   sync.Once
	stop   sync.Once
	closed atomic.Bool
	done   chan struct{}

	// output, owned by the transmitting goroutine
	level   Level
	staged  []int32
	pending chan []int32

	// output, owned by the device callback
	current []int32

	// input, owned by the device callback
	high  bool
	count int64
	edges chan Edge
}

func (l *SampleLine) init() {
	l.once.Do(func() {
		if l.Amplitude == 0 {
			l.Amplitude = 0x7fffffff
		}
		if l.Threshold == 0 {
			l.Threshold = l.Amplitude / 2
		}
		if l.OutputBufferSize == 0 {
			l.OutputBufferSize = 64
		}
		if l.InputBufferSize == 0 {
			l.InputBufferSize = 4096
		}
		l.pending = make(chan []int32, l.OutputBufferSize)
		l.edges = make(chan Edge, l.InputBufferSize)
		l.done = make(chan struct{})
	})
}

func (l *SampleLine) Open() {
	l.init()
	l.Device.Start(func(in, out []int32) {
		l.inputCallback(in)
		l.outputCallback(out)
	})
}

// Close stops the device and then ends the edge stream.  Later calls to
// SetLevel fail.
func (l *SampleLine) Close() {
	l.init()
	l.stop.Do(func() {
		l.closed.Store(true)
		close(l.done)
		l.Device.Stop()
		close(l.edges)
	})
}

func (l *SampleLine) SetLevel(level Level) error {
	l.init()
	if l.closed.Load() {
		return ErrLineClosed
	}
	l.level = level
	return nil
}

func (l *SampleLine) Sleep(d time.Duration) {
	l.init()
	if l.level == Low && len(l.staged) == 0 {
		time.Sleep(d)
		return
	}
	n := int(d.Seconds()*l.SampleRate + 0.5)
	var sample int32
	if l.level == High {
		sample = l.Amplitude
	}
	for range n {
		l.staged = append(l.staged, sample)
	}
}

// Flush queues the staged samples for output.  It blocks while the output
// queue is full, unless the line is closed.
func (l *SampleLine) Flush() {
	l.init()
	if len(l.staged) == 0 {
		return
	}
	select {
	case l.pending <- l.staged:
	case <-l.done:
	}
	l.staged = nil
}

func (l *SampleLine) Edges() <-chan Edge {
	l.init()
	return l.edges
}

func (l *SampleLine) inputCallback(in []int32) {
	for _, sample := range in {
		high := sample > l.Threshold || sample < -l.Threshold
		if high != l.high {
			d := time.Duration(float64(l.count) * float64(time.Second) / l.SampleRate)
			select {
			case l.edges <- Edge{Duration: d}:
			default:
				log.Warn().Str("component", "sampleline").Dur("duration", d).Msg("edge buffer full, edge dropped")
			}
			l.high = high
			l.count = 0
		}
		l.count++
	}
}

// try to consume the pending queue and write some data to out
func (l *SampleLine) outputCallback(out []int32) {
	i := 0
	for i < len(out) {
		if l.current == nil {
			select {
			case l.current = <-l.pending:
			default:
			}
		}
		if l.current == nil {
			break
		}

		n := copy(out[i:], l.current)
		l.current = l.current[n:]
		i += n

		if len(l.current) == 0 {
			l.current = nil
		}
	}

	for i < len(out) {
		out[i] = 0
		i += 1
	}
}
