package pulse

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTiming = errors.New("pulse: invalid timing")
	ErrInvalidBands  = errors.New("pulse: invalid bands")
)

// Timing holds the high and low durations of a frame.
//
// A frame is: Lead low, Initiation high, Gap low, then for every bit Zero or
// One high followed by Gap low, and finally Termination high.
type Timing struct {
	Lead        time.Duration
	Initiation  time.Duration
	Gap         time.Duration
	Zero        time.Duration
	One         time.Duration
	Termination time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		Lead:        50 * time.Microsecond,
		Initiation:  500 * time.Microsecond,
		Gap:         50 * time.Microsecond,
		Zero:        10 * time.Microsecond,
		One:         25 * time.Microsecond,
		Termination: 1000 * time.Microsecond,
	}
}

// Scale returns the timing with every duration multiplied by factor, e.g. to
// fit a line with a coarser time resolution.
func (t Timing) Scale(factor int) Timing {
	f := time.Duration(factor)
	return Timing{
		Lead:        t.Lead * f,
		Initiation:  t.Initiation * f,
		Gap:         t.Gap * f,
		Zero:        t.Zero * f,
		One:         t.One * f,
		Termination: t.Termination * f,
	}
}

// Validate checks the ordering that lets a receiver tell every duration apart:
// Gap > One > Zero > 0 and Termination > Initiation > One.
func (t Timing) Validate() error {
	switch {
	case t.Zero <= 0:
		return fmt.Errorf("%w: zero pulse %v must be positive", ErrInvalidTiming, t.Zero)
	case t.One <= t.Zero:
		return fmt.Errorf("%w: one pulse %v must exceed zero pulse %v", ErrInvalidTiming, t.One, t.Zero)
	case t.Gap <= t.One:
		return fmt.Errorf("%w: gap %v must exceed one pulse %v", ErrInvalidTiming, t.Gap, t.One)
	case t.Initiation <= t.One:
		return fmt.Errorf("%w: initiation %v must exceed one pulse %v", ErrInvalidTiming, t.Initiation, t.One)
	case t.Initiation <= max(t.Gap, t.Lead):
		return fmt.Errorf("%w: initiation %v must exceed gap and lead", ErrInvalidTiming, t.Initiation)
	case t.Termination <= t.Initiation:
		return fmt.Errorf("%w: termination %v must exceed initiation %v", ErrInvalidTiming, t.Termination, t.Initiation)
	case t.Lead < 0:
		return fmt.Errorf("%w: lead %v is negative", ErrInvalidTiming, t.Lead)
	}
	return nil
}

// FrameDuration is how long it takes to send bits.
func (t Timing) FrameDuration(bits []bool) time.Duration {
	d := t.Lead + t.Initiation + t.Gap + t.Termination
	for _, bit := range bits {
		if bit {
			d += t.One
		} else {
			d += t.Zero
		}
		d += t.Gap
	}
	return d
}

// Bands places the classification thresholds halfway between neighbouring
// durations.  Gaps fall between the data and termination bands and are
// discarded by the receiver.
func (t Timing) Bands() Bands {
	return Bands{
		ShortMax:       (t.Zero + t.One) / 2,
		LongMax:        (t.One + t.Gap) / 2,
		InitiationMin:  (max(t.Gap, t.Lead) + t.Initiation) / 2,
		TerminationMin: (t.Initiation + t.Termination) / 2,
	}
}

// Kind is the classification of one edge duration.
type Kind int

const (
	Noise Kind = iota
	Zero
	One
	Ambiguous
	Initiation
	Termination
)

func (k Kind) String() string {
	switch k {
	case Zero:
		return "zero"
	case One:
		return "one"
	case Ambiguous:
		return "ambiguous"
	case Initiation:
		return "initiation"
	case Termination:
		return "termination"
	default:
		return "noise"
	}
}

// Bands are the duration thresholds a receiver classifies edges with.
//
//	(0, ShortMax]                   zero
//	(ShortMax, LongMax]             one
//	(LongMax, TerminationMin)       ambiguous
//	[TerminationMin, ∞)             termination
//	[InitiationMin, TerminationMin) initiation, while waiting for a frame
type Bands struct {
	ShortMax       time.Duration
	LongMax        time.Duration
	InitiationMin  time.Duration
	TerminationMin time.Duration
}

func (b Bands) Validate() error {
	if b.ShortMax <= 0 || b.LongMax <= b.ShortMax || b.InitiationMin <= b.LongMax || b.TerminationMin <= b.InitiationMin {
		return fmt.Errorf("%w: need 0 < short %v < long %v < initiation %v < termination %v",
			ErrInvalidBands, b.ShortMax, b.LongMax, b.InitiationMin, b.TerminationMin)
	}
	return nil
}

// IsInitiation reports whether d marks the start of a frame.
func (b Bands) IsInitiation(d time.Duration) bool {
	return d >= b.InitiationMin && d < b.TerminationMin
}

// Classify sorts a duration seen inside a frame.
func (b Bands) Classify(d time.Duration) Kind {
	switch {
	case d <= 0:
		return Noise
	case d <= b.ShortMax:
		return Zero
	case d <= b.LongMax:
		return One
	case d < b.TerminationMin:
		return Ambiguous
	default:
		return Termination
	}
}
