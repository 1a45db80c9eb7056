//go:build !linux

package device

import "runtime"

// PinThread locks the calling goroutine to its OS thread.  CPU affinity is
// only applied on linux.
func PinThread(cpu int) error {
	runtime.LockOSThread()
	return nil
}
