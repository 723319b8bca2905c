// Package complexity estimates the asymptotic time and space complexity of
// a code snippet by matching an ordered table of textual patterns.
//
// The estimate is a heuristic for display only. There is no parsing and no
// language awareness; the same input always yields the same Result.
package complexity

import "regexp"

// loopOpening matches every loop-opening token, braced or not.
var loopOpening = regexp.MustCompile(`for\s*\(|while\s*\(`)

var defaultResult = Result{
	Time:        Constant,
	Space:       Constant,
	Explanation: "simple algorithm, no complex loop",
	Confidence:  0.5,
	Rule:        RuleDefault,
}

// Estimate classifies code. language is accepted for display purposes and is
// not consulted by any rule.
//
// Estimate never fails: unrecognised or empty input yields the default
// O(1)/O(1) result. Callers are expected to skip blank code themselves.
func Estimate(code, language string) Result {
	return EstimateWith(defaultRules, code, language)
}

// EstimateWith is Estimate with a caller-supplied rule table.
func EstimateWith(rules []Rule, code, _ string) Result {
	text := Normalize(code)

	res := defaultResult
	if rule, ok := RunRules(rules, text); ok {
		res = rule.result()
	}

	res = adjustMultipleLoops(text, res)
	res = adjustLinearStructure(text, res)
	return res
}

// adjustMultipleLoops upgrades a still-constant time estimate when more than
// one loop opening appears. Space is left as the table decided it.
func adjustMultipleLoops(text string, res Result) Result {
	if res.Time != Constant {
		return res
	}
	if len(loopOpening.FindAllStringIndex(text, -1)) <= 1 {
		return res
	}
	res.Time = Linear
	res.Explanation = "multiple loops detected"
	res.Confidence = 0.6
	res.Rule = RuleMultipleLoops
	return res
}

// adjustLinearStructure runs after adjustMultipleLoops and sees its output.
func adjustLinearStructure(text string, res Result) Result {
	if res.Time != Constant {
		return res
	}
	if !containsAny(text, "array", "list", "[]") {
		return res
	}
	res.Time = Linear
	res.Explanation = "linear data structure detected"
	res.Confidence = 0.5
	res.Rule = RuleLinearStructure
	return res
}
