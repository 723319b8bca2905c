package complexity

import "strings"

// Severity grades a label for display. It never feeds back into estimation.
type Severity string

const (
	SeverityGood     Severity = "good"
	SeverityFair     Severity = "fair"
	SeverityModerate Severity = "moderate"
	SeverityElevated Severity = "elevated"
	SeverityPoor     Severity = "poor"
	SeverityNeutral  Severity = "neutral"
)

// SeverityOf grades a label by the first matching substring test, in the
// order O(1), O(log n), O(n), O(n log n), O(n²)/O(2^n).
func SeverityOf(l Label) Severity {
	s := string(l)
	switch {
	case strings.Contains(s, string(Constant)):
		return SeverityGood
	case strings.Contains(s, string(Logarithmic)):
		return SeverityFair
	case strings.Contains(s, string(Linear)):
		return SeverityModerate
	case strings.Contains(s, string(Linearithmic)):
		return SeverityElevated
	case strings.Contains(s, string(Quadratic)), strings.Contains(s, string(Exponential)):
		return SeverityPoor
	default:
		return SeverityNeutral
	}
}

// ConfidenceBucket groups a confidence score for display.
type ConfidenceBucket string

const (
	ConfidenceHigh   ConfidenceBucket = "high"
	ConfidenceMedium ConfidenceBucket = "medium"
	ConfidenceLow    ConfidenceBucket = "low"
)

// BucketOf returns high for >= 0.8, medium for >= 0.6, low otherwise.
func BucketOf(confidence float64) ConfidenceBucket {
	switch {
	case confidence >= 0.8:
		return ConfidenceHigh
	case confidence >= 0.6:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
