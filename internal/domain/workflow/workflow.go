package workflow

import "fmt"

// Workflow is a stored automation-workflow record (immutable value object).
// Several chunks of the same workflow may be stored as separate rows sharing
// one workflow ID; the embedding belongs to the chunk, the metadata to the
// workflow.
type Workflow struct {
	id               string
	title            string
	shortDescription string
	fullDescription  string
	category         string
	subcategory      string
	tools            []string
	complexity       Complexity
	embedding        []float32
	sourceURL        string
}

// New validates and creates a Workflow.
func New(
	id, title, shortDescription, fullDescription string,
	category, subcategory string, tools []string,
	complexity Complexity, sourceURL string,
) (Workflow, error) {
	if id == "" {
		return Workflow{}, fmt.Errorf("workflow ID is required")
	}
	if title == "" {
		return Workflow{}, fmt.Errorf("workflow title is required")
	}
	if !complexity.IsValid() {
		return Workflow{}, fmt.Errorf("unknown complexity %q", complexity)
	}

	return Workflow{
		id:               id,
		title:            title,
		shortDescription: shortDescription,
		fullDescription:  fullDescription,
		category:         category,
		subcategory:      subcategory,
		tools:            cloneStrings(tools),
		complexity:       complexity,
		sourceURL:        sourceURL,
	}, nil
}

// Reconstruct creates a Workflow without validation (storage hydration).
func Reconstruct(
	id, title, shortDescription, fullDescription string,
	category, subcategory string, tools []string,
	complexity Complexity, embedding []float32, sourceURL string,
) Workflow {
	return Workflow{
		id:               id,
		title:            title,
		shortDescription: shortDescription,
		fullDescription:  fullDescription,
		category:         category,
		subcategory:      subcategory,
		tools:            tools,
		complexity:       complexity,
		embedding:        embedding,
		sourceURL:        sourceURL,
	}
}

// ID returns the stable workflow identifier.
func (w *Workflow) ID() string { return w.id }

// Title returns the workflow title.
func (w *Workflow) Title() string { return w.title }

// ShortDescription returns the one-line description.
func (w *Workflow) ShortDescription() string { return w.shortDescription }

// FullDescription returns the long-form description.
func (w *Workflow) FullDescription() string { return w.fullDescription }

// Category returns the single category label.
func (w *Workflow) Category() string { return w.category }

// Subcategory returns the optional subcategory label.
func (w *Workflow) Subcategory() string { return w.subcategory }

// Tools returns the named integrations the workflow uses.
func (w *Workflow) Tools() []string { return w.tools }

// Complexity returns the setup difficulty level.
func (w *Workflow) Complexity() Complexity { return w.complexity }

// Embedding returns the stored chunk embedding, nil when not yet generated.
func (w *Workflow) Embedding() []float32 { return w.embedding }

// SourceURL returns the optional origin URL.
func (w *Workflow) SourceURL() string { return w.sourceURL }

// WithEmbedding returns a copy with the given vector set.
func (w *Workflow) WithEmbedding(v []float32) Workflow {
	c := *w
	c.embedding = v
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
