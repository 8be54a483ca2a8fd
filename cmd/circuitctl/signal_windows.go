//go:build windows

package main

import (
	"os"
	"os/signal"
)

// notifySignals registers the shutdown signals for serve. Windows has no
// SIGTERM.
func notifySignals(ch chan<- os.Signal) {
	signal.Notify(ch, os.Interrupt)
}
