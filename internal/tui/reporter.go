package tui

import (
	"fmt"
	"io"
	"sync"
)

// PlainReporter writes one line per Start and Stop. Used when the output is
// not a terminal.
type PlainReporter struct {
	w io.Writer
}

func NewPlainReporter(w io.Writer) *PlainReporter {
	return &PlainReporter{w: w}
}

func (r *PlainReporter) Start(msg string) { fmt.Fprintf(r.w, "%s\n", msg) }

// Update prints msg as its own line, prefixed to mark it as a sub-step.
func (r *PlainReporter) Update(msg string) { fmt.Fprintf(r.w, "  %s\n", msg) }

func (r *PlainReporter) Stop(msg string) {
	if msg != "" {
		fmt.Fprintf(r.w, "%s\n", msg)
	}
}

// Recorder keeps the sequence of reported messages as "start:", "update:"
// and "stop:" events. Tests substitute it for a terminal reporter.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *Recorder) Start(msg string)  { r.add("start:" + msg) }
func (r *Recorder) Update(msg string) { r.add("update:" + msg) }
func (r *Recorder) Stop(msg string)   { r.add("stop:" + msg) }

func (r *Recorder) add(event string) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

// Events returns a copy of the recorded messages.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}
