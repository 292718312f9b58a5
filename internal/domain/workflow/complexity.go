package workflow

// Complexity is an ordinal classification of a workflow's setup difficulty.
type Complexity string

// Complexity levels, ordered beginner < intermediate < advanced.
const (
	Beginner     Complexity = "beginner"
	Intermediate Complexity = "intermediate"
	Advanced     Complexity = "advanced"
)

// ParseComplexity validates a complexity label. Unknown or empty input
// defaults to Intermediate, matching how untagged workflows are stored.
func ParseComplexity(s string) Complexity {
	switch Complexity(s) {
	case Beginner, Intermediate, Advanced:
		return Complexity(s)
	default:
		return Intermediate
	}
}

// IsValid reports whether c is one of the three known levels.
func (c Complexity) IsValid() bool {
	return c == Beginner || c == Intermediate || c == Advanced
}

// Rank returns the ordinal position: beginner=0, intermediate=1, advanced=2.
func (c Complexity) Rank() int {
	switch c {
	case Beginner:
		return 0
	case Intermediate:
		return 1
	case Advanced:
		return 2
	default:
		return 1
	}
}
