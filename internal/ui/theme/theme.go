package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillpilot/internal/program"
	"github.com/abhisek/skillpilot/internal/skillgraph"
)

// Color palette, tuned for dark terminals
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#0EA5E9") // Sky
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#10B981") // Emerald
	Error     = lipgloss.Color("#EF4444") // Red
	Text      = lipgloss.Color("#E5E7EB") // Gray 200
	TextDim   = lipgloss.Color("#9CA3AF") // Gray 400
	BgCard    = lipgloss.Color("#1F2937") // Gray 800
	Border    = lipgloss.Color("#374151") // Gray 700
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(TextDim).
		Width(16)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	Section = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary).
		MarginTop(1)
)

// States
var (
	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Bad = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Warn = lipgloss.NewStyle().
		Foreground(Accent)

	Muted = lipgloss.NewStyle().
		Foreground(TextDim)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

// StatusColor returns the foreground color for a skill status.
func StatusColor(s skillgraph.Status) color.Color {
	switch s {
	case skillgraph.StatusCompleted:
		return Success
	case skillgraph.StatusInProgress:
		return Accent
	case skillgraph.StatusUnlocked:
		return Secondary
	default:
		return TextDim
	}
}

// StatusStyle renders a skill status label.
func StatusStyle(s skillgraph.Status) lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(StatusColor(s))
	if s == skillgraph.StatusUnlocked || s == skillgraph.StatusCompleted {
		st = st.Bold(true)
	}
	return st
}

// WeekStatusStyle renders a program week status label.
func WeekStatusStyle(s program.WeekStatus) lipgloss.Style {
	switch s {
	case program.WeekPassed:
		return Good
	case program.WeekSubmitted:
		return Warn
	case program.WeekUnlocked:
		return lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	default:
		return Muted
	}
}

// WeekIcon returns the display icon for a week status.
func WeekIcon(s program.WeekStatus) string {
	switch s {
	case program.WeekPassed:
		return "✓"
	case program.WeekSubmitted:
		return "…"
	case program.WeekUnlocked:
		return "▶"
	default:
		return "•"
	}
}
