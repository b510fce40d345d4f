package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const tickInterval = 120 * time.Millisecond

type tickMsg time.Time

// SubjectUpdateMsg sets the status of one subject row. An empty Detail keeps
// the previous detail.
type SubjectUpdateMsg struct {
	Key    string
	Status string
	Detail string
}

// WorkDoneMsg signals that all background work has completed.
type WorkDoneMsg struct{}

// ErrorMsg signals a fatal error; the TUI should quit.
type ErrorMsg struct {
	Err error
}

type subjectRow struct {
	key    string
	label  string
	status string
	detail string
}

// CheckModel renders one row per probed subject (the toolchain and each
// component) while probes run in the background.
type CheckModel struct {
	title string
	rows  []subjectRow
	index map[string]int
	done  bool
	// interrupted is set when the user quit before WorkDoneMsg arrived.
	interrupted bool
	err         error
	tick        int
}

func NewCheckModel(title string) CheckModel {
	return CheckModel{title: title, index: make(map[string]int)}
}

// AddSubject adds a pending row. Call this before the program starts.
func (m *CheckModel) AddSubject(key, label string) {
	m.index[key] = len(m.rows)
	m.rows = append(m.rows, subjectRow{key: key, label: label, status: "pending"})
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m CheckModel) Init() tea.Cmd {
	return scheduleTick()
}

func (m CheckModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick++
		if m.done {
			return m, nil
		}
		return m, scheduleTick()

	case SubjectUpdateMsg:
		if i, ok := m.index[msg.Key]; ok {
			m.rows[i].status = msg.Status
			if msg.Detail != "" {
				m.rows[i].detail = msg.Detail
			}
		}
		return m, nil

	case WorkDoneMsg:
		m.done = true
		return m, tea.Quit

	case ErrorMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.done {
				m.interrupted = true
			}
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

var detailStyle = lipgloss.NewStyle().Faint(true)

func (m CheckModel) View() string {
	if m.done && m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	labelWidth := len("SUBJECT")
	statusWidth := len("STATUS")
	for _, row := range m.rows {
		labelWidth = max(labelWidth, len(row.label))
		statusWidth = max(statusWidth, len(row.status))
	}

	frames := spinner.MiniDot.Frames
	frame := frames[m.tick%len(frames)]

	var b strings.Builder
	if m.title != "" {
		b.WriteString(HeaderStyle.Render(m.title))
		b.WriteString("\n\n")
	}
	b.WriteString("  " + HeaderStyle.Render(pad("SUBJECT", labelWidth)) + "  " + HeaderStyle.Render("STATUS"))
	b.WriteByte('\n')

	for _, row := range m.rows {
		marker := " "
		if !m.done && active(row.status) {
			marker = frame
		}
		line := marker + " " + pad(row.label, labelWidth) + "  " + StatusStyle(row.status).Render(pad(row.status, statusWidth))
		if row.detail != "" {
			line += "  " + detailStyle.Render(row.detail)
		}
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}

	if !m.done {
		processed, total := m.counts()
		fmt.Fprintf(&b, "\n%s Checking %d/%d...\n", frame, processed, total)
	}
	return b.String()
}

func active(status string) bool {
	return status == "checking" || status == "installing"
}

// counts returns (processed, total); pending and active rows are unprocessed.
func (m CheckModel) counts() (int, int) {
	processed := 0
	for _, row := range m.rows {
		if row.status != "pending" && !active(row.status) {
			processed++
		}
	}
	return processed, len(m.rows)
}

func (m CheckModel) Done() bool { return m.done }

func (m CheckModel) Err() error { return m.err }

func (m CheckModel) Interrupted() bool { return m.interrupted }

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
