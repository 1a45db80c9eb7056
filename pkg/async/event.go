package async

import (
	"bufio"
	"os"
	"os/signal"
	"syscall"
)

// EnterKey is closed when a line is read from stdin.
func EnterKey() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		bufio.NewReader(os.Stdin).ReadBytes('\n')
		close(done)
	}()
	return done
}

// Exit is closed on the first SIGINT or SIGTERM.
func Exit() <-chan struct{} {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	return Job(func() {
		<-sig
		signal.Stop(sig)
	})
}
