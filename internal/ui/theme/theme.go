package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/snipbox/internal/complexity"
)

// Color palette
var (
	Primary = lipgloss.Color("#2563EB") // Blue
	Green   = lipgloss.Color("#16A34A")
	Blue    = lipgloss.Color("#2563EB")
	Yellow  = lipgloss.Color("#CA8A04")
	Orange  = lipgloss.Color("#EA580C")
	Red     = lipgloss.Color("#DC2626")
	Gray    = lipgloss.Color("#4B5563")
	Text    = lipgloss.Color("#F8FAFC") // White
	TextDim = lipgloss.Color("#94A3B8") // Slate
	Border  = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Failure = lipgloss.NewStyle().
		Foreground(Red).
		Bold(true)
)

// Card frames one analysis report.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 1)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Primary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

// SeverityColor maps a label severity to its display color.
func SeverityColor(s complexity.Severity) color.Color {
	switch s {
	case complexity.SeverityGood:
		return Green
	case complexity.SeverityFair:
		return Blue
	case complexity.SeverityModerate:
		return Yellow
	case complexity.SeverityElevated:
		return Orange
	case complexity.SeverityPoor:
		return Red
	default:
		return Gray
	}
}

// Badge renders a complexity label in its severity color.
func Badge(l complexity.Label) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(SeverityColor(complexity.SeverityOf(l))).
		Render(string(l))
}

// ConfidenceColor maps a confidence bucket to its display color.
func ConfidenceColor(b complexity.ConfidenceBucket) color.Color {
	switch b {
	case complexity.ConfidenceHigh:
		return Green
	case complexity.ConfidenceMedium:
		return Yellow
	default:
		return Red
	}
}
