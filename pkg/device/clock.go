package device

import "time"

// SpinClock is a wall clock.  Holds shorter than SpinBelow are busy-waited
// because the scheduler cannot wake a goroutine with microsecond accuracy.
type SpinClock struct {
	SpinBelow time.Duration
}

func (c SpinClock) Sleep(d time.Duration) {
	deadline := time.Now().Add(d)
	spin := c.SpinBelow
	if spin == 0 {
		spin = time.Millisecond
	}
	if d > spin {
		time.Sleep(d - spin)
	}
	for time.Now().Before(deadline) {
	}
}

// Clocks holds on every clock in turn, e.g. a Wire paced by a SpinClock.
type Clocks []Clock

func (cs Clocks) Sleep(d time.Duration) {
	for _, c := range cs {
		c.Sleep(d)
	}
}
