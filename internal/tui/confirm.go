package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const declineLabel = "No"

// ConfirmModel asks a yes/no question with the affirmative option first.
type ConfirmModel struct {
	message   string
	options   []string
	focused   int
	chosen    string
	done      bool
	cancelled bool
}

// NewConfirmModel builds a model offering affirmative and "No".
func NewConfirmModel(message, affirmative string) ConfirmModel {
	return ConfirmModel{
		message: message,
		options: []string{affirmative, declineLabel},
	}
}

// Init satisfies the tea.Model interface.
func (m ConfirmModel) Init() tea.Cmd { return nil }

// Update satisfies the tea.Model interface.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "left", "h", "shift+tab":
		m.focused = (m.focused - 1 + len(m.options)) % len(m.options)
	case "right", "l", "tab":
		m.focused = (m.focused + 1) % len(m.options)
	case "y", "Y":
		m.chosen = m.options[0]
		m.done = true
		return m, tea.Quit
	case "n", "N":
		m.chosen = declineLabel
		m.done = true
		return m, tea.Quit
	case "enter":
		m.chosen = m.options[m.focused]
		m.done = true
		return m, tea.Quit
	case "esc", "q", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	}
	return m, nil
}

// View satisfies the tea.Model interface.
func (m ConfirmModel) View() string {
	faint := lipgloss.NewStyle().Faint(true)
	bold := lipgloss.NewStyle().Bold(true)

	if m.cancelled {
		return bold.Render(m.message) + " " + faint.Render("dismissed") + "\n"
	}
	if m.done {
		return bold.Render(m.message) + " " + m.chosen + "\n"
	}

	focused := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")).Underline(true)

	var sb strings.Builder
	sb.WriteString(bold.Render(m.message))
	sb.WriteString("  ")
	for i, opt := range m.options {
		if i > 0 {
			sb.WriteString("  ")
		}
		if i == m.focused {
			sb.WriteString(focused.Render(opt))
		} else {
			sb.WriteString(faint.Render(opt))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(faint.Render("  [←→] Choose  [Enter] Confirm  [y/n] Answer  [Esc] Dismiss"))
	sb.WriteString("\n")
	return sb.String()
}

// Answer returns the chosen label, or "" when the question was dismissed.
func (m ConfirmModel) Answer() string {
	if m.cancelled {
		return ""
	}
	return m.chosen
}

// RunConfirm shows the question on out, reading keys from in.
func RunConfirm(ctx context.Context, in io.Reader, out io.Writer, message, affirmative string) (string, error) {
	p := tea.NewProgram(NewConfirmModel(message, affirmative),
		tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("consent prompt: %w", err)
	}
	return final.(ConfirmModel).Answer(), nil
}
