//go:build unix

package main

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// handleSignals calls report on every SIGUSR1 for the rest of the process
// lifetime.
func handleSignals(report func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, unix.SIGUSR1)

	go func() {
		for range c {
			report()
		}
	}()
}
