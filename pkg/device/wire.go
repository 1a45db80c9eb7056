package device

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Wire is an in-memory line that runs on virtual time: Sleep advances the
// clock instantly and every level change is reported on Edges with the
// virtual time elapsed since the previous one.  A Wire is an Output, an Input
// and a Clock at once, so a modulator and a demodulator can be connected
// without hardware.
//
// Jitter adds gaussian noise with the given standard deviation to every edge,
// and DropRate is the probability that an edge is lost, merging the segments
// on both sides of it.
type Wire struct {
	Jitter     time.Duration
	DropRate   float64
	Seed       uint64
	BufferSize int // capacity of the edge channel

	once     sync.Once
	mu       sync.Mutex
	rng      *rand.Rand
	now      time.Duration
	lastEdge time.Duration
	level    Level
	closed   bool
	edges    chan Edge
	done     chan struct{}
	stop     sync.Once
}

func (w *Wire) init() {
	w.once.Do(func() {
		if w.BufferSize == 0 {
			w.BufferSize = 4096
		}
		w.rng = rand.New(rand.NewSource(w.Seed))
		w.edges = make(chan Edge, w.BufferSize)
		w.done = make(chan struct{})
	})
}

func (w *Wire) SetLevel(level Level) error {
	w.init()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrLineClosed
	}
	if level == w.level {
		return nil
	}
	w.level = level

	if w.DropRate > 0 && w.rng.Float64() < w.DropRate {
		log.Trace().Str("component", "wire").Dur("at", w.now).Msg("edge dropped")
		return nil
	}

	d := w.now - w.lastEdge
	w.lastEdge = w.now
	if w.Jitter > 0 {
		d += time.Duration(w.rng.NormFloat64() * float64(w.Jitter))
		d = max(d, 0)
	}

	select {
	case w.edges <- Edge{Duration: d}:
		return nil
	case <-w.done:
		return ErrLineClosed
	}
}

func (w *Wire) Sleep(d time.Duration) {
	w.init()
	w.mu.Lock()
	w.now += d
	w.mu.Unlock()
}

// Now is the virtual time elapsed since the wire was created.
func (w *Wire) Now() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.now
}

func (w *Wire) Edges() <-chan Edge {
	w.init()
	return w.edges
}

// Close closes the edge stream; later calls to SetLevel fail.
func (w *Wire) Close() {
	w.init()
	w.stop.Do(func() {
		// unblocks a SetLevel waiting on a full channel before we take the lock
		close(w.done)
		w.mu.Lock()
		defer w.mu.Unlock()
		w.closed = true
		close(w.edges)
	})
}
