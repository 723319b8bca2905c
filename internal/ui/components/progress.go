package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/snipbox/internal/complexity"
	"github.com/abhisek/snipbox/internal/ui/theme"
)

// ConfidenceBar displays an estimate's confidence as a horizontal bar.
type ConfidenceBar struct {
	Confidence float64
	Width      int
}

// NewConfidenceBar creates a confidence bar.
func NewConfidenceBar(confidence float64, width int) ConfidenceBar {
	return ConfidenceBar{Confidence: confidence, Width: width}
}

// View renders the bar followed by the percentage in its bucket color.
func (p ConfidenceBar) View() string {
	barWidth := p.Width - 6 // "  100%"
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Confidence)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	result := theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	result += lipgloss.NewStyle().
		Foreground(theme.ConfidenceColor(complexity.BucketOf(p.Confidence))).
		Render(fmt.Sprintf("  %d%%", int(p.Confidence*100+0.5)))

	return result
}
