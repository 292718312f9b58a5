package recommend

import (
	"strings"

	"github.com/robosmart/flowrec/internal/domain/preference"
	domrec "github.com/robosmart/flowrec/internal/domain/recommend"
	"github.com/robosmart/flowrec/internal/domain/workflow"
)

// Scoring weights. They sum to 1.0, so a candidate whose factors are all in
// [0,1] gets a personalized score in [0,1].
const (
	weightSimilarity   = 0.40
	weightToolAffinity = 0.20
	weightCategory     = 0.15
	weightComplexity   = 0.10
	weightPopularity   = 0.10
	weightRecency      = 0.05
)

// popularityCeiling is the chunk count at which the popularity factor
// saturates at 1.0.
const popularityCeiling = 10

// neutralRecency is the placeholder recency factor: the data model carries
// no creation dates, so every candidate scores the midpoint.
const neutralRecency = 0.5

// scoreCandidate computes the weighted composite score and its breakdown.
// It never excludes a candidate: threshold filtering already happened in
// the similarity stage.
func scoreCandidate(c *domrec.Candidate, prefs *preference.Preferences) (float64, domrec.Factors) {
	f := domrec.Factors{
		Similarity:         c.BestSimilarity(),
		CategoryPreference: categoryScore(c.Category(), prefs.Categories()),
		ComplexityMatch:    complexityScore(prefs.Complexity(), c.Complexity()),
		ToolAffinity:       toolScore(c.Tools(), prefs.Tools()),
		Popularity:         popularityScore(c.ChunkCount()),
		Recency:            neutralRecency,
	}

	f.CategoryMatched = containsString(prefs.Categories(), c.Category())
	f.ComplexityMatched = c.Complexity() == prefs.Complexity()
	f.ToolsMatched = f.ToolAffinity > 0

	score := f.Similarity*weightSimilarity +
		f.ToolAffinity*weightToolAffinity +
		f.CategoryPreference*weightCategory +
		f.ComplexityMatch*weightComplexity +
		f.Popularity*weightPopularity +
		f.Recency*weightRecency

	return score, f
}

// categoryScore: 1.0 on exact match, 0.7 on a substring match in either
// direction, 0.3 otherwise. Every candidate gets partial credit.
func categoryScore(category string, preferred []string) float64 {
	for _, p := range preferred {
		if category == p {
			return 1.0
		}
	}
	for _, p := range preferred {
		if p == "" || category == "" {
			continue
		}
		if strings.Contains(category, p) || strings.Contains(p, category) {
			return 0.7
		}
	}
	return 0.3
}

// complexityScore rates how well a workflow's difficulty fits the user.
// Adjacent levels score differently per direction pair: the
// beginner/intermediate pair is considered a closer fit than
// intermediate/advanced. The two-step beginner/advanced gap scores 0.3.
func complexityScore(user, candidate workflow.Complexity) float64 {
	switch {
	case user == candidate:
		return 1.0
	case bothOf(user, candidate, workflow.Beginner, workflow.Intermediate):
		return 0.8
	case bothOf(user, candidate, workflow.Intermediate, workflow.Advanced):
		return 0.6
	default:
		return 0.3
	}
}

func bothOf(a, b, x, y workflow.Complexity) bool {
	return (a == x && b == y) || (a == y && b == x)
}

// toolScore: intersection size over preferred-set size, capped at 1.0.
// Zero when either side is empty.
func toolScore(tools, preferred []string) float64 {
	if len(tools) == 0 || len(preferred) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		set[t] = struct{}{}
	}

	matches := 0
	for _, p := range preferred {
		if _, ok := set[p]; ok {
			matches++
		}
	}

	score := float64(matches) / float64(len(preferred))
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func popularityScore(chunkCount int) float64 {
	score := float64(chunkCount) / popularityCeiling
	if score > 1.0 {
		return 1.0
	}
	return score
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
