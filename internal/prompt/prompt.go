package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rlsboot/internal/tui"
)

// Prompter asks for consent and shows error diagnostics.
type Prompter interface {
	Ask(ctx context.Context, message, affirmative string) (string, error)
	ShowError(message string)
}

// Policy decides how consent questions are answered.
type Policy string

const (
	PolicyAsk Policy = "ask"
	PolicyYes Policy = "yes"
	PolicyNo  Policy = "no"
)

// ParsePolicy accepts ask, yes or no (case-insensitive); empty means ask.
func ParsePolicy(value string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(PolicyAsk):
		return PolicyAsk, nil
	case string(PolicyYes):
		return PolicyYes, nil
	case string(PolicyNo):
		return PolicyNo, nil
	default:
		return "", fmt.Errorf("unknown consent policy %q (want ask, yes or no)", value)
	}
}

// New picks a prompter for the policy and output mode. Interactive asking
// needs a terminal on in; otherwise questions are read line by line.
func New(policy Policy, mode tui.OutputMode, in io.Reader, out io.Writer) Prompter {
	switch policy {
	case PolicyYes:
		return &AutoPrompter{Grant: true, Out: out}
	case PolicyNo:
		return &AutoPrompter{Grant: false, Out: out}
	}
	if mode == tui.ModeTUI && tui.IsTerminal(in) {
		return &TUIPrompter{In: in, Out: out}
	}
	return NewLinePrompter(in, out)
}

const declined = "No"

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

func showError(out io.Writer, message string) {
	if out == nil {
		return
	}
	fmt.Fprintln(out, errorStyle.Render("error: "+message))
}

// TUIPrompter asks with an interactive bubbletea confirm.
type TUIPrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p *TUIPrompter) Ask(ctx context.Context, message, affirmative string) (string, error) {
	return tui.RunConfirm(ctx, p.In, p.Out, message, affirmative)
}

func (p *TUIPrompter) ShowError(message string) { showError(p.Out, message) }

// LinePrompter reads a typed answer. "y" and "yes" (any case) count as the
// affirmative label; EOF or a blank line dismisses the question.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

type lineResult struct {
	line string
	err  error
}

func (p *LinePrompter) Ask(ctx context.Context, message, affirmative string) (string, error) {
	fmt.Fprintf(p.out, "%s [%s/No]: ", message, affirmative)

	ch := make(chan lineResult, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		ch <- lineResult{line: line, err: err}
	}()

	var res lineResult
	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	case res = <-ch:
	}
	if res.err != nil && !errors.Is(res.err, io.EOF) {
		return "", fmt.Errorf("read answer: %w", res.err)
	}
	answer := strings.TrimSpace(res.line)
	if errors.Is(res.err, io.EOF) && answer == "" {
		fmt.Fprintln(p.out)
		return "", nil
	}
	switch strings.ToLower(answer) {
	case "y", "yes", strings.ToLower(affirmative):
		return affirmative, nil
	}
	return answer, nil
}

func (p *LinePrompter) ShowError(message string) { showError(p.out, message) }

// AutoPrompter answers every question without asking.
type AutoPrompter struct {
	Grant bool
	Out   io.Writer
}

func (p *AutoPrompter) Ask(_ context.Context, message, affirmative string) (string, error) {
	answer := declined
	if p.Grant {
		answer = affirmative
	}
	if p.Out != nil {
		fmt.Fprintf(p.Out, "%s %s (automatic)\n", message, answer)
	}
	if !p.Grant {
		return "", nil
	}
	return affirmative, nil
}

func (p *AutoPrompter) ShowError(message string) { showError(p.Out, message) }
