package async

// Gather0 is closed once every channel in c is.
func Gather0(c ...<-chan struct{}) <-chan struct{} {
	return Job(func() {
		for _, f := range c {
			<-f
		}
	})
}

// First delivers the first value received from any of cs.  A closed channel
// counts as delivering its zero value.
func First[R any](cs ...<-chan R) <-chan R {
	out := make(chan R, len(cs))
	for _, c := range cs {
		go func() {
			out <- <-c
		}()
	}
	return out
}
