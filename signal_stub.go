//go:build !unix

package main

// handleSignals is a no-op on non-POSIX systems, which have no SIGUSR1.
func handleSignals(report func()) {}
