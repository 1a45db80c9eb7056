package async

import "sync"

// Signal is a one-shot broadcast: Notify closes the channel returned by Done.
// The zero value is ready to use, Notify may come before anyone calls Done,
// and both are safe for concurrent use.
type Signal struct {
	init   sync.Once
	notify sync.Once
	ch     chan struct{}
}

func (s *Signal) channel() chan struct{} {
	s.init.Do(func() {
		s.ch = make(chan struct{})
	})
	return s.ch
}

// Done is closed once Notify has been called.
func (s *Signal) Done() <-chan struct{} {
	return s.channel()
}

// Notify reports whether this call was the one that fired the signal.
func (s *Signal) Notify() bool {
	ch := s.channel()
	fired := false
	s.notify.Do(func() {
		close(ch)
		fired = true
	})
	return fired
}
