package chi

import (
	domrec "github.com/robosmart/flowrec/internal/domain/recommend"
	recommenduc "github.com/robosmart/flowrec/internal/usecase/recommend"
)

// ErrorCode is a machine-readable error identifier in error responses.
type ErrorCode string

const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeValidationFailed  ErrorCode = "validation_failed"
	CodeNotFound          ErrorCode = "not_found"
	CodeRateLimited       ErrorCode = "rate_limited"
	CodeEmbeddingProvider ErrorCode = "embedding_provider_error"
	CodeStoreAccess       ErrorCode = "store_access_error"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// RecommendRequest is the POST /recommend body.
type RecommendRequest struct {
	Query      string          `json:"query"`
	UserID     int64           `json:"user_id,omitempty"`
	MaxResults int             `json:"max_results,omitempty"`
	Language   string          `json:"language,omitempty"`
	Filters    *RequestFilters `json:"filters,omitempty"`
}

// RequestFilters narrows the candidate set before similarity ranking.
type RequestFilters struct {
	Category   string `json:"category,omitempty"`
	Complexity string `json:"complexity,omitempty"`
	Tool       string `json:"tool,omitempty"`
}

// RecommendResponse is the POST /recommend response body.
type RecommendResponse struct {
	Items              []RecommendationItem `json:"items"`
	ResultsFound       int                  `json:"results_found"`
	Message            string               `json:"message,omitempty"`
	ContextualResponse string               `json:"contextual_response,omitempty"`
}

// RecommendationItem is one ranked workflow in the response.
type RecommendationItem struct {
	WorkflowID        string       `json:"workflow_id"`
	Title             string       `json:"title"`
	Summary           string       `json:"summary,omitempty"`
	Category          string       `json:"category,omitempty"`
	Complexity        string       `json:"complexity,omitempty"`
	Tools             []string     `json:"tools,omitempty"`
	SourceURL         string       `json:"source_url,omitempty"`
	ChunkCount        int          `json:"chunk_count"`
	SimilarityScore   float64      `json:"similarity_score"`
	PersonalizedScore float64      `json:"personalized_score"`
	Factors           ScoreFactors `json:"factors"`
}

// ScoreFactors is the per-item scoring breakdown.
type ScoreFactors struct {
	Similarity         float64 `json:"similarity"`
	CategoryPreference float64 `json:"category_preference"`
	ComplexityMatch    float64 `json:"complexity_match"`
	ToolAffinity       float64 `json:"tool_affinity"`
	Popularity         float64 `json:"popularity"`
	Recency            float64 `json:"recency"`
	CategoryMatched    bool    `json:"category_matched"`
	ComplexityMatched  bool    `json:"complexity_matched"`
	ToolsMatched       bool    `json:"tools_matched"`
}

// CategoriesResponse is the GET /categories response body.
type CategoriesResponse struct {
	Items []string `json:"items"`
}

// HealthResponse is the GET /health response body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func recommendationToDTO(r *domrec.Recommendation) RecommendationItem {
	c := r.Candidate()
	f := r.Factors()
	return RecommendationItem{
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

func resultToDTO(res *recommenduc.Result) RecommendResponse {
	items := make([]RecommendationItem, len(res.Recommendations))
	for i := range res.Recommendations {
		items[i] = recommendationToDTO(&res.Recommendations[i])
	}
	return RecommendResponse{
		Items:              items,
		ResultsFound:       res.ResultsFound,
		ContextualResponse: res.ContextualResponse,
	}
}
