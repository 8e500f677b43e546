package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fogmarch/agentwatch/internal/status"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	workingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	waitingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78"))

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// statusBadge renders a status with its glyph and color.
func statusBadge(s status.Status) string {
	switch s {
	case status.StatusWorking:
		return workingStyle.Render("● working")
	case status.StatusWaiting:
		return waitingStyle.Render("◆ waiting")
	case status.StatusIdle:
		return idleStyle.Render("○ idle")
	default:
		return inactiveStyle.Render("· inactive")
	}
}
