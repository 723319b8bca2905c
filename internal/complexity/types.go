package complexity

// Label is an asymptotic complexity in big-O notation.
type Label string

const (
	Constant     Label = "O(1)"
	Logarithmic  Label = "O(log n)"
	Linear       Label = "O(n)"
	Linearithmic Label = "O(n log n)"
	Quadratic    Label = "O(n²)"
	Exponential  Label = "O(2^n)"
	// Height is the space label for tree traversals (h = tree height).
	Height Label = "O(h)"
)

// Labels lists every label the estimator can produce.
var Labels = []Label{Constant, Logarithmic, Linear, Linearithmic, Quadratic, Exponential, Height}

// Result is the estimator's best guess for one piece of code.
type Result struct {
	Time        Label   `json:"timeComplexity" yaml:"timeComplexity"`
	Space       Label   `json:"spaceComplexity" yaml:"spaceComplexity"`
	Explanation string  `json:"explanation" yaml:"explanation"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
	// Rule names the rule or adjustment that decided the result ("default" if none).
	Rule string `json:"rule" yaml:"rule"`
}

// Rule names that are not part of the pattern table.
const (
	RuleDefault         = "default"
	RuleMultipleLoops   = "multiple-loops"
	RuleLinearStructure = "linear-structure"
)
