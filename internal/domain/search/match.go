package search

import "github.com/robosmart/flowrec/internal/domain/workflow"

// Match is a single raw similarity hit for one stored chunk. Transient:
// produced by the similarity engine, consumed by the grouper, never persisted.
type Match struct {
	workflowID string
	similarity float64
	title      string
	summary    string
	category   string
	complexity workflow.Complexity
	tools      []string
	sourceURL  string
}

// NewMatch creates a raw match with the metadata snapshot of its chunk.
func NewMatch(
	workflowID string, similarity float64,
	title, summary, category string,
	complexity workflow.Complexity, tools []string, sourceURL string,
) Match {
	return Match{
		workflowID: workflowID,
		similarity: similarity,
		title:      title,
		summary:    summary,
		category:   category,
		complexity: complexity,
		tools:      tools,
		sourceURL:  sourceURL,
	}
}

// MatchFromWorkflow snapshots a workflow's metadata into a match.
func MatchFromWorkflow(w *workflow.Workflow, similarity float64) Match {
	return NewMatch(
		w.ID(), similarity,
		w.Title(), w.ShortDescription(), w.Category(),
		w.Complexity(), w.Tools(), w.SourceURL(),
	)
}

// WorkflowID returns the identifier of the workflow this chunk belongs to.
func (m *Match) WorkflowID() string { return m.workflowID }

// Similarity returns the cosine similarity against the query vector.
func (m *Match) Similarity() float64 { return m.similarity }

// Title returns the workflow title.
func (m *Match) Title() string { return m.title }

// Summary returns the chunk's short description.
func (m *Match) Summary() string { return m.summary }

// Category returns the workflow category.
func (m *Match) Category() string { return m.category }

// Complexity returns the workflow complexity level.
func (m *Match) Complexity() workflow.Complexity { return m.complexity }

// Tools returns the workflow's named integrations.
func (m *Match) Tools() []string { return m.tools }

// SourceURL returns the workflow origin URL.
func (m *Match) SourceURL() string { return m.sourceURL }
