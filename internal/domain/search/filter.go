package search

import "github.com/robosmart/flowrec/internal/domain/workflow"

// Filters narrows the candidate set before similarity scoring.
// Zero values mean "no restriction".
type Filters struct {
	Category   string
	Complexity workflow.Complexity
	Tool       string
}

// IsEmpty reports whether no filter is set.
func (f Filters) IsEmpty() bool {
	return f.Category == "" && f.Complexity == "" && f.Tool == ""
}
