//go:build linux

package device

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// PinThread locks the calling goroutine to its OS thread and that thread to
// cpu.  The goroutine stays locked for the rest of its life.
func PinThread(cpu int) error {
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("device: pin thread to cpu %d: %w", cpu, err)
	}
	return nil
}
