package recommend

import (
	"context"

	"github.com/robosmart/flowrec/internal/domain/preference"
	domrec "github.com/robosmart/flowrec/internal/domain/recommend"
	domsearch "github.com/robosmart/flowrec/internal/domain/search"
)

// Searcher runs the similarity stage and returns raw chunk matches.
type Searcher interface {
	Search(ctx context.Context, query string, filters domsearch.Filters, limit int) ([]domsearch.Match, error)
}

// PreferenceResolver derives a user's taste profile. It never fails: on any
// backing-store problem it returns the default preference set.
type PreferenceResolver interface {
	Resolve(ctx context.Context, userID int64) preference.Preferences
}

// Responder turns the top candidates into a short natural-language answer.
type Responder interface {
	Respond(ctx context.Context, query, language string, candidates []domrec.Candidate) (string, error)
}
