package components

import (
	"strings"

	"github.com/abhisek/snipbox/internal/complexity"
	"github.com/abhisek/snipbox/internal/ui/theme"
)

// Report is the terminal rendering of one analysis.
type Report struct {
	Name    string
	Result  complexity.Result
	Details bool
	Width   int
}

// View renders the report as a bordered card.
func (r Report) View() string {
	var b strings.Builder
	if r.Name != "" {
		b.WriteString(theme.Title.Render(r.Name))
		b.WriteString("\n")
	}
	b.WriteString(theme.Label.Render("Time   "))
	b.WriteString(theme.Badge(r.Result.Time))
	b.WriteString("\n")
	b.WriteString(theme.Label.Render("Space  "))
	b.WriteString(theme.Badge(r.Result.Space))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(r.Result.Explanation))
	if r.Details {
		width := r.Width
		if width <= 0 {
			width = 30
		}
		b.WriteString("\n")
		b.WriteString(theme.Label.Render("Confidence "))
		b.WriteString(NewConfidenceBar(r.Result.Confidence, width).View())
	}
	return theme.Card.Render(b.String())
}
