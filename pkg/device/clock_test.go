package device

import (
	"testing"
	"time"
)

func TestSpinClock(t *testing.T) {
	clock := SpinClock{SpinBelow: time.Millisecond}
	for _, d := range []time.Duration{50 * time.Microsecond, 3 * time.Millisecond} {
		start := time.Now()
		clock.Sleep(d)
		if elapsed := time.Since(start); elapsed < d {
			t.Errorf("expected to hold for %v, held %v", d, elapsed)
		}
	}
}

func TestClocks(t *testing.T) {
	wire := &Wire{}
	clock := Clocks{wire, SpinClock{}}

	start := time.Now()
	clock.Sleep(200 * time.Microsecond)
	if wire.Now() != 200*time.Microsecond {
		t.Errorf("expected the wire to advance 200µs, got %v", wire.Now())
	}
	if time.Since(start) < 200*time.Microsecond {
		t.Errorf("expected the wall clock to be held as well")
	}
}
