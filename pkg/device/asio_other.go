//go:build !windows

package device

import "fmt"

// NewASIOMono fails: ASIO drivers exist only on windows.
func NewASIOMono(name string, sampleRate float64, in, out int) (Device, error) {
	return nil, fmt.Errorf("%w: asio device %q requires windows", ErrLineUnavailable, name)
}
