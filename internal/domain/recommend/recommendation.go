package recommend

// Factors is the per-candidate scoring breakdown, kept for observability
// and testability. Raw values are each normalized to [0,1] before weighting.
type Factors struct {
	Similarity         float64
	CategoryPreference float64
	ComplexityMatch    float64
	ToolAffinity       float64
	Popularity         float64
	Recency            float64

	// Boolean summary flags mirroring the raw factors.
	CategoryMatched   bool
	ComplexityMatched bool
	ToolsMatched      bool
}

// Recommendation is a candidate with its composite ranking attached.
// Discarded after being returned to the caller.
type Recommendation struct {
	candidate         Candidate
	similarityScore   float64
	personalizedScore float64
	factors           Factors
}

// NewRecommendation attaches scores to a grouped candidate.
func NewRecommendation(c Candidate, personalizedScore float64, factors Factors) Recommendation {
	return Recommendation{
		candidate:         c,
		similarityScore:   c.BestSimilarity(),
		personalizedScore: personalizedScore,
		factors:           factors,
	}
}

// Candidate returns the underlying grouped candidate.
func (r *Recommendation) Candidate() Candidate { return r.candidate }

// SimilarityScore returns the raw best-chunk similarity.
func (r *Recommendation) SimilarityScore() float64 { return r.similarityScore }

// PersonalizedScore returns the weighted composite score in [0,1].
func (r *Recommendation) PersonalizedScore() float64 { return r.personalizedScore }

// Factors returns the scoring breakdown.
func (r *Recommendation) Factors() Factors { return r.factors }
