package device

import "time"

// Loopback is a Device whose input is its own output from the previous
// callback, like an interface with a cable from its output to its input.
type Loopback struct {
	CallbackRate float64 // callbacks per second, 0 means no limit
	BufferSize   int     // samples per callback, BufferSize if 0
	done         chan struct{}
	stopped      chan struct{}
}

func (d *Loopback) Start(callback func([]int32, []int32)) {
	size := d.BufferSize
	if size == 0 {
		size = BufferSize
	}
	d.done = make(chan struct{})
	d.stopped = make(chan struct{})
	go func() {
		defer close(d.stopped)

		var buf = make([][]int32, 2)
		buf[0] = alloci32(size)
		buf[1] = alloci32(size)

		swap := true
		update := func() {
			if swap {
				callback(buf[0], buf[1])
			} else {
				callback(buf[1], buf[0])
			}
			swap = !swap
		}

		if d.CallbackRate == 0 {
			for {
				select {
				case <-d.done:
					return
				default:
					update()
				}
			}
		} else {
			ticker := time.NewTicker(time.Duration(float64(time.Second) / d.CallbackRate))
			defer ticker.Stop()
			for {
				select {
				case <-d.done:
					return
				case <-ticker.C:
					update()
				}
			}
		}
	}()
}

// Stop returns once the callback will not be invoked again.
func (d *Loopback) Stop() {
	close(d.done)
	<-d.stopped
}
