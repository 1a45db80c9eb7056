package async

import (
	"sync"
	"testing"
	"time"
)

func TestSignal_Notify(t *testing.T) {
	var s Signal

	select {
	case <-s.Done():
		t.Fatal("Expected the signal to be pending")
	default:
	}

	if !s.Notify() {
		t.Errorf("Expected the first Notify to fire")
	}
	if s.Notify() {
		t.Errorf("Expected a second Notify to do nothing")
	}

	select {
	case <-s.Done():
	default:
		t.Error("Expected Done to be closed")
	}
}

func TestSignal_NotifyBeforeDone(t *testing.T) {
	var s Signal
	s.Notify()

	select {
	case <-s.Done():
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Expected a Notify before Done to be kept")
	}
}

func TestSignal_Concurrent(t *testing.T) {
	var s Signal

	const n = 16
	var wg sync.WaitGroup
	waiters := make([]<-chan struct{}, n)
	for i := range waiters {
		waiters[i] = Job(func() { <-s.Done() })
	}

	fired := make(chan bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fired <- s.Notify()
		}()
	}
	wg.Wait()
	close(fired)

	count := 0
	for f := range fired {
		if f {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected exactly one Notify to fire, got %d", count)
	}

	select {
	case <-Gather0(waiters...):
	case <-time.After(time.Second):
		t.Fatal("Expected every waiter to be released")
	}
}
