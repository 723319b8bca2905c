package components

import (
	"strings"
	"testing"

	"github.com/abhisek/snipbox/internal/complexity"
)

func TestReport_ContainsLabels(t *testing.T) {
	res := complexity.Estimate("bubble sort", "")
	out := Report{Name: "sort.js", Result: res}.View()
	for _, want := range []string{"sort.js", "O(n²)", "O(1)", res.Explanation} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "%") {
		t.Errorf("confidence shown without details:\n%s", out)
	}
}

func TestReport_DetailsShowsConfidence(t *testing.T) {
	res := complexity.Estimate("bubble sort", "")
	out := Report{Result: res, Details: true}.View()
	if !strings.Contains(out, "95%") {
		t.Errorf("report missing confidence:\n%s", out)
	}
}

func TestConfidenceBar_ClampsWidth(t *testing.T) {
	out := NewConfidenceBar(1.5, 2).View()
	if !strings.Contains(out, "150%") {
		t.Errorf("got %q", out)
	}
}
