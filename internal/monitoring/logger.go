// Package monitoring holds the diagnostic logger shared by the minball
// packages.
package monitoring

import (
	"fmt"
	"log"
	"sync"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced by SetLogger so tests and embedders can capture or mute
// solver and pipeline output.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Capture collects formatted log lines. It is meant for tests that assert on
// what was logged.
type Capture struct {
	mu    sync.Mutex
	lines []string
}

// Logf records one formatted line.
func (c *Capture) Logf(format string, v ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, fmt.Sprintf(format, v...))
}

// Lines returns a copy of everything recorded so far.
func (c *Capture) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

// CaptureLogs routes Logf into a new Capture and returns it together with a
// function restoring the previous logger.
func CaptureLogs() (*Capture, func()) {
	prev := Logf
	c := &Capture{}
	Logf = c.Logf
	return c, func() { Logf = prev }
}
