package tui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// StatusWriter prints a spinning status line to a writer between Start and
// Stop. It satisfies rustup.Reporter and may be started again after a Stop.
type StatusWriter struct {
	w          io.Writer
	mu         sync.Mutex
	message    string
	phaseStart time.Time
	done       chan struct{}
	running    bool
	wg         sync.WaitGroup
	interval   time.Duration
}

// NewStatusWriter returns an idle status writer for w.
func NewStatusWriter(w io.Writer) *StatusWriter {
	return &StatusWriter{w: w, interval: spinner.MiniDot.FPS}
}

// Start shows msg next to the spinner, starting the spinner if needed.
func (sw *StatusWriter) Start(msg string) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.message = msg
	sw.phaseStart = time.Now()
	if sw.running {
		return
	}
	sw.running = true
	sw.done = make(chan struct{})
	sw.wg.Add(1)
	go sw.loop(sw.done)
}

// Update changes the status message and resets the phase timer.
func (sw *StatusWriter) Update(msg string) {
	sw.mu.Lock()
	sw.message = msg
	sw.phaseStart = time.Now()
	sw.mu.Unlock()
}

// Stop clears the spinner line and prints msg in its place. Stop without a
// prior Start only prints msg.
func (sw *StatusWriter) Stop(msg string) {
	sw.mu.Lock()
	wasRunning := sw.running
	if sw.running {
		sw.running = false
		close(sw.done)
	}
	sw.mu.Unlock()
	sw.wg.Wait()

	if wasRunning {
		fmt.Fprint(sw.w, "\r\033[K")
	}
	if msg != "" {
		fmt.Fprintln(sw.w, msg)
	}
}

func (sw *StatusWriter) loop(done chan struct{}) {
	defer sw.wg.Done()
	frames := spinner.MiniDot.Frames
	tick := 0
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			sw.mu.Lock()
			msg := sw.message
			start := sw.phaseStart
			sw.mu.Unlock()

			frame := frames[tick%len(frames)]
			tick++
			fmt.Fprintf(sw.w, "\r\033[K%s %s (%s)", frame, msg, formatElapsed(time.Since(start)))
		}
	}
}

// formatElapsed formats a duration for display in the status line.
func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < 10*time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
