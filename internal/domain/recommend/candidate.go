package recommend

import "github.com/robosmart/flowrec/internal/domain/workflow"

// Candidate is one workflow surviving chunk grouping: the best-similarity
// chunk's metadata plus how many chunks matched.
type Candidate struct {
	workflowID     string
	title          string
	summary        string
	bestSimilarity float64
	category       string
	complexity     workflow.Complexity
	tools          []string
	sourceURL      string
	chunkCount     int
}

// NewCandidate creates a grouped candidate seeded from its first chunk.
func NewCandidate(
	workflowID, title, summary string, bestSimilarity float64,
	category string, complexity workflow.Complexity,
	tools []string, sourceURL string, chunkCount int,
) Candidate {
	return Candidate{
		workflowID:     workflowID,
		title:          title,
		summary:        summary,
		bestSimilarity: bestSimilarity,
		category:       category,
		complexity:     complexity,
		tools:          tools,
		sourceURL:      sourceURL,
		chunkCount:     chunkCount,
	}
}

// WorkflowID returns the workflow identifier.
func (c *Candidate) WorkflowID() string { return c.workflowID }

// Title returns the workflow title.
func (c *Candidate) Title() string { return c.title }

// Summary returns the short description of the best-matching chunk.
func (c *Candidate) Summary() string { return c.summary }

// BestSimilarity returns the maximum similarity among the grouped chunks.
func (c *Candidate) BestSimilarity() float64 { return c.bestSimilarity }

// Category returns the workflow category.
func (c *Candidate) Category() string { return c.category }

// Complexity returns the workflow complexity level.
func (c *Candidate) Complexity() workflow.Complexity { return c.complexity }

// Tools returns the workflow's named integrations.
func (c *Candidate) Tools() []string { return c.tools }

// SourceURL returns the workflow origin URL.
func (c *Candidate) SourceURL() string { return c.sourceURL }

// ChunkCount returns how many chunks of this workflow matched the query.
func (c *Candidate) ChunkCount() int { return c.chunkCount }
