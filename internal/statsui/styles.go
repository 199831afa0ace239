package statsui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#C89A3A")
	frame  = lipgloss.Color("#4A4A4A")
	bright = lipgloss.Color("#F0F0F0")

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B0B0B0")).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(frame)
	activeTabStyle = tabStyle.
			Foreground(bright).
			Bold(true).
			BorderForeground(accent)

	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tableTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))

	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(frame)
	cardLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(bright).Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(accent).
			Padding(1, 2)
)
