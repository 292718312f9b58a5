package preference

import (
	"context"
	"sort"

	"go.uber.org/zap"

	dompref "github.com/robosmart/flowrec/internal/domain/preference"
	"github.com/robosmart/flowrec/internal/domain/workflow"
)

// Derivation bounds: how much of the interaction history feeds the profile.
const (
	maxPreferredCategories = 3
	// minToolOccurrences: a tool must appear in at least this many
	// interactions before it counts as preferred.
	minToolOccurrences = 2
)

// Service derives a user's preferences from interaction history. It never
// fails: anonymous users, users without history, and any store error all
// resolve to the canonical default set.
type Service struct {
	profiles ProfileReader
	logger   *zap.Logger
}

// New creates a preference resolver.
func New(profiles ProfileReader, logger *zap.Logger) *Service {
	return &Service{profiles: profiles, logger: logger}
}

// Resolve returns the preference set for a user. userID 0 means anonymous.
func (s *Service) Resolve(ctx context.Context, userID int64) dompref.Preferences {
	if userID == 0 || s.profiles == nil {
		return dompref.Default()
	}

	exists, err := s.profiles.UserExists(ctx, userID)
	if err != nil {
		s.logger.Warn("Profile lookup failed, using default preferences",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return dompref.Default()
	}
	if !exists {
		return dompref.Default()
	}

	interactions, err := s.profiles.ListInteractions(ctx, userID)
	if err != nil {
		s.logger.Warn("Interaction history lookup failed, using default preferences",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return dompref.Default()
	}
	if len(interactions) == 0 {
		return dompref.Default()
	}

	return derive(interactions)
}

// derive aggregates interaction history into a preference set: the top
// categories by frequency, tools seen at least twice, and the modal
// complexity. Equal counts break lexicographically, so the result is
// deterministic for any input order.
func derive(interactions []dompref.Interaction) dompref.Preferences {
	categoryCounts := make(map[string]int)
	toolCounts := make(map[string]int)
	complexityCounts := make(map[workflow.Complexity]int)

	for i := range interactions {
		in := &interactions[i]
		if in.Category != "" {
			categoryCounts[in.Category]++
		}
		for _, t := range in.Tools {
			toolCounts[t]++
		}
		if in.Complexity.IsValid() {
			complexityCounts[in.Complexity]++
		}
	}

	categories := topByCount(categoryCounts, maxPreferredCategories, 1)
	tools := topByCount(toolCounts, 0, minToolOccurrences)

	complexity := workflow.Beginner
	best := 0
	for _, level := range []workflow.Complexity{workflow.Beginner, workflow.Intermediate, workflow.Advanced} {
		if complexityCounts[level] > best {
			best = complexityCounts[level]
			complexity = level
		}
	}

	if len(categories) == 0 && len(tools) == 0 && best == 0 {
		return dompref.Default()
	}

	defaults := dompref.Default()
	if len(categories) == 0 {
		categories = defaults.Categories()
	}
	if len(tools) == 0 {
		tools = defaults.Tools()
	}

	return dompref.New(categories, complexity, tools)
}

// topByCount returns keys ordered by count descending, lexicographic on
// ties. limit 0 means unlimited; minCount drops infrequent keys.
func topByCount(counts map[string]int, limit, minCount int) []string {
	keys := make([]string, 0, len(counts))
	for k, n := range counts {
		if n >= minCount {
			keys = append(keys, k)
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}
