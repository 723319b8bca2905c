package complexity

import (
	"strings"
	"unicode"
)

// Normalize lower-cases code and collapses every whitespace run into a
// single space. Leading and trailing runs are collapsed, not trimmed.
func Normalize(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	inSpace := false
	for _, r := range strings.ToLower(code) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
