package device

import (
	"errors"
	"time"
)

// Device is a sample stream device such as a sound card.  The callback is
// invoked with one buffer of input samples and one buffer to fill with output
// samples.
type Device interface {
	Start(callback func([]int32, []int32))
	Stop()
}

const BufferSize = 512

var (
	ErrLineUnavailable = errors.New("device: line unavailable")
	ErrLineClosed      = errors.New("device: line closed")
)

type Level int

const (
	Low Level = iota
	High
)

func (l Level) String() string {
	if l == High {
		return "high"
	}
	return "low"
}

// Edge is one transition observed on an input line.  Duration is the time
// since the previous transition; Err is set instead when the reading was
// malformed.
type Edge struct {
	Duration time.Duration
	Err      error
}

// Output drives a digital line.
type Output interface {
	SetLevel(level Level) error
}

// Input observes a digital line.  Edges returns a blocking stream of
// transitions that never restarts; it is closed only when the line is.
type Input interface {
	Edges() <-chan Edge
}

// Clock holds the current output level for a duration.
type Clock interface {
	Sleep(d time.Duration)
}

// EdgeChan is an Input fed directly by its owner.
type EdgeChan chan Edge

func (c EdgeChan) Edges() <-chan Edge {
	return c
}

// Durations returns an Input that yields the given durations and then closes.
func Durations(durations ...time.Duration) EdgeChan {
	c := make(EdgeChan, len(durations))
	for _, d := range durations {
		c <- Edge{Duration: d}
	}
	close(c)
	return c
}

// Flusher is implemented by outputs that stage levels and must be told when a
// frame is complete.
type Flusher interface {
	Flush()
}
