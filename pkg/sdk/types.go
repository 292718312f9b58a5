package flowrec

import (
	domrec "github.com/robosmart/flowrec/internal/domain/recommend"
)

// Filters narrows the candidate set before similarity ranking.
// Empty fields are ignored.
type Filters struct {
	Category   string
	Complexity string // beginner, intermediate, advanced
	Tool       string
}

// RecommendRequest is one recommendation query.
type RecommendRequest struct {
	Query      string
	UserID     int64 // 0 = anonymous
	MaxResults int   // 0 = client default
	Language   string
	Filters    *Filters
}

// ScoreFactors is the per-recommendation scoring breakdown.
type ScoreFactors struct {
	Similarity         float64
	CategoryPreference float64
	ComplexityMatch    float64
	ToolAffinity       float64
	Popularity         float64
	Recency            float64
	CategoryMatched    bool
	ComplexityMatched  bool
	ToolsMatched       bool
}

// Recommendation is one ranked workflow.
type Recommendation struct {
	WorkflowID        string
	Title             string
	Summary           string
	Category          string
	Complexity        string
	Tools             []string
	SourceURL         string
	ChunkCount        int
	SimilarityScore   float64
	PersonalizedScore float64
	Factors           ScoreFactors
}

// RecommendResult is a completed recommendation response. An empty
// Recommendations list with a nil error means the search found nothing.
type RecommendResult struct {
	Recommendations    []Recommendation
	ResultsFound       int
	ContextualResponse string
}

// BackfillSummary is the outcome of one embedding backfill run.
type BackfillSummary struct {
	Total     int
	Succeeded int
	Failed    int
}

func recommendationFromDomain(r *domrec.Recommendation) Recommendation {
	c := r.Candidate()
	f := r.Factors()
	return Recommendation{
		WorkflowID:        c.WorkflowID(),
		Title:             c.Title(),
		Summary:           c.Summary(),
		Category:          c.Category(),
		Complexity:        string(c.Complexity()),
		Tools:             c.Tools(),
		SourceURL:         c.SourceURL(),
		ChunkCount:        c.ChunkCount(),
		SimilarityScore:   r.SimilarityScore(),
		PersonalizedScore: r.PersonalizedScore(),
		Factors: ScoreFactors{
			Similarity:         f.Similarity,
			CategoryPreference: f.CategoryPreference,
			ComplexityMatch:    f.ComplexityMatch,
			ToolAffinity:       f.ToolAffinity,
			Popularity:         f.Popularity,
			Recency:            f.Recency,
			CategoryMatched:    f.CategoryMatched,
			ComplexityMatched:  f.ComplexityMatched,
			ToolsMatched:       f.ToolsMatched,
		},
	}
}
