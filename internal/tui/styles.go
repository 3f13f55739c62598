package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mrz1836/punkmint/internal/notify"
)

// Palette
var (
	colorAccent  = lipgloss.Color("#8B5CF6")
	colorText    = lipgloss.Color("#E5E7EB")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginBottom(1)

	textStyle  = lipgloss.NewStyle().Foreground(colorText)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorAccent).
			Padding(0, 2).
			MarginTop(1)

	busyButtonStyle = buttonStyle.
			Background(colorMuted)

	noticeBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			MarginTop(1)

	promptBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1).
			MarginTop(1)

	appStyle = lipgloss.NewStyle().Padding(1, 2)
)

// noticeColor maps a notice level to its border and text color.
func noticeColor(level notify.Level) lipgloss.Color {
	switch level {
	case notify.Success:
		return colorSuccess
	case notify.Warning:
		return colorWarning
	case notify.Error:
		return colorError
	default:
		return colorText
	}
}
