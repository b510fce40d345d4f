package tui

import (
	"context"
	"errors"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrInterrupted is returned when the user quits the view before the
// background work reported completion.
var ErrInterrupted = errors.New("interrupted")

// RunWithWork starts a bubbletea program for model, runs workFn in a goroutine
// and blocks until both the program and workFn have returned. workFn's send
// callback forwards messages to the program; a WorkDoneMsg is sent when workFn
// returns. If the program exits first, the context passed to workFn is
// cancelled.
func RunWithWork(ctx context.Context, in io.Reader, out io.Writer, model CheckModel, workFn func(ctx context.Context, send func(tea.Msg))) error {
	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))

	done := make(chan struct{})
	go func() {
		defer close(done)

		// Let bubbletea start its event loop and render the initial frame.
		if !pause(workCtx, 50*time.Millisecond) {
			return
		}

		workFn(workCtx, func(msg tea.Msg) {
			p.Send(msg)
			// Probes are quick; yield so each row change gets a frame.
			pause(workCtx, 20*time.Millisecond)
		})

		p.Send(WorkDoneMsg{})
	}()

	finalModel, err := p.Run()
	cancel()
	<-done

	if err != nil {
		return err
	}
	if m, ok := finalModel.(CheckModel); ok {
		if m.Interrupted() {
			return ErrInterrupted
		}
		if m.Err() != nil {
			return m.Err()
		}
	}
	return nil
}

// pause reports false when ctx ended before d elapsed.
func pause(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
