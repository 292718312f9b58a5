package preference

import "github.com/robosmart/flowrec/internal/domain/workflow"

// Interaction is one logged user touch of a workflow (a view, a save, a
// search click). The resolver aggregates these into Preferences.
type Interaction struct {
	Category   string
	Tools      []string
	Complexity workflow.Complexity
}
