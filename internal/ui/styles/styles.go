package styles

import "github.com/charmbracelet/lipgloss"

var (
	// PanelStyle frames charts and summary boxes.
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	// TitleStyle is used for chart captions and view headers.
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// MutedStyle dims secondary text.
	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// LabelStyle is for summary labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Align(lipgloss.Center)

	// ValueStyle is for summary values.
	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Align(lipgloss.Center)

	// ErrorStyle renders error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)
)
