package console

import "github.com/charmbracelet/lipgloss"

var (
	timeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fde68a"))

	readyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	busyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fdba74"))

	alertStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fca5a5"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))
)
