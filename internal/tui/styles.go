package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	statusStyles = map[string]lipgloss.Style{
		// Satisfied
		"present":   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"installed": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"ready":     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),

		// Active
		"checking":   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"installing": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		// Needs action
		"absent":  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"missing": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"skipped": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"aborted": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),

		// Broken
		"error":        lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"unknown":      lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"probe-broken": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),

		"pending": lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
