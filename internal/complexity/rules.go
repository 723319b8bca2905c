package complexity

import (
	"regexp"
	"slices"
)

// Rule is a pattern-based complexity classifier. Patterns are tested against
// normalized text.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Time        Label
	Space       Label
	Explanation string
	Confidence  float64
}

// Match reports whether the rule fires for normalized text.
func (r Rule) Match(normalized string) bool {
	return r.Pattern.MatchString(normalized)
}

func (r Rule) result() Result {
	return Result{
		Time:        r.Time,
		Space:       r.Space,
		Explanation: r.Explanation,
		Confidence:  r.Confidence,
		Rule:        r.Name,
	}
}

// defaultRules is evaluated top to bottom; the first match wins.
// The single-loop rule precedes binary-search, so most binary searches
// (which loop with while) classify as linear.
var defaultRules = []Rule{
	{
		Name:        "nested-loop",
		Pattern:     regexp.MustCompile(`for\s*\([^)]*\)\s*\{[^}]*for\s*\([^)]*\)\s*\{`),
		Time:        Quadratic,
		Space:       Constant,
		Explanation: "nested loops detected, quadratic complexity",
		Confidence:  0.9,
	},
	{
		Name:        "single-loop",
		Pattern:     regexp.MustCompile(`for\s*\([^)]*\)\s*\{|while\s*\([^)]*\)\s*\{`),
		Time:        Linear,
		Space:       Constant,
		Explanation: "single loop detected, linear complexity",
		Confidence:  0.8,
	},
	{
		Name:        "binary-search",
		Pattern:     regexp.MustCompile(`left\s*=\s*0|right\s*=\s*length|mid\s*=\s*\(left\s*\+\s*right\)|while\s*\(left\s*<=\s*right\)`),
		Time:        Logarithmic,
		Space:       Constant,
		Explanation: "binary search detected",
		Confidence:  0.85,
	},
	{
		Name:        "recursion",
		Pattern:     regexp.MustCompile(`function\s+\w+\s*\([^)]*\)\s*\{[^}]*\w+\s*\([^)]*\)`),
		Time:        Exponential,
		Space:       Linear,
		Explanation: "recursion detected, possibly exponential complexity",
		Confidence:  0.7,
	},
	{
		Name:        "quadratic-sort",
		Pattern:     regexp.MustCompile(`bubble\s*sort|selection\s*sort|insertion\s*sort`),
		Time:        Quadratic,
		Space:       Constant,
		Explanation: "simple sorting algorithm",
		Confidence:  0.95,
	},
	{
		Name:        "linearithmic-sort",
		Pattern:     regexp.MustCompile(`merge\s*sort|quick\s*sort|heap\s*sort`),
		Time:        Linearithmic,
		Space:       Linear,
		Explanation: "efficient sorting algorithm",
		Confidence:  0.95,
	},
	{
		Name:        "tree-traversal",
		Pattern:     regexp.MustCompile(`dfs|bfs|depth.*first|breadth.*first`),
		Time:        Linear,
		Space:       Height,
		Explanation: "tree traversal, h is the tree height",
		Confidence:  0.85,
	},
	{
		Name:        "hash-table",
		Pattern:     regexp.MustCompile(`map|hash|object|dictionary`),
		Time:        Constant,
		Space:       Linear,
		Explanation: "hash-based data structure in use",
		Confidence:  0.6,
	},
}

// DefaultRules returns the built-in rules in priority order. The returned
// slice is a copy; the package table is never mutated.
func DefaultRules() []Rule {
	return slices.Clone(defaultRules)
}

// RunRules executes rules in order against normalized text.
// Returns the first matching rule, or false if no rule applies.
func RunRules(rules []Rule, normalized string) (Rule, bool) {
	for _, r := range rules {
		if r.Match(normalized) {
			return r, true
		}
	}
	return Rule{}, false
}
