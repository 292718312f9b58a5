package search

import (
	"sort"

	domrec "github.com/robosmart/flowrec/internal/domain/recommend"
	domsearch "github.com/robosmart/flowrec/internal/domain/search"
)

// Group collapses raw matches into one candidate per workflow. The best
// similarity wins; the metadata snapshot always reflects the
// highest-similarity chunk seen so far; chunk count increments on every
// occurrence. The output is ordered by best similarity descending with
// first-seen order breaking ties.
func Group(matches []domsearch.Match) []domrec.Candidate {
	type entry struct {
		match      domsearch.Match
		chunkCount int
		seenAt     int
	}

	grouped := make(map[string]*entry, len(matches))
	order := make([]string, 0, len(matches))

	for i := range matches {
		m := &matches[i]
		id := m.WorkflowID()

		e, ok := grouped[id]
		if !ok {
			grouped[id] = &entry{match: *m, chunkCount: 1, seenAt: len(order)}
			order = append(order, id)
			continue
		}

		e.chunkCount++
		if m.Similarity() > e.match.Similarity() {
			e.match = *m
		}
	}

	candidates := make([]domrec.Candidate, 0, len(order))
	for _, id := range order {
		e := grouped[id]
		m := &e.match
		candidates = append(candidates, domrec.NewCandidate(
			m.WorkflowID(), m.Title(), m.Summary(), m.Similarity(),
			m.Category(), m.Complexity(), m.Tools(), m.SourceURL(),
			e.chunkCount,
		))
	}

	// Stable: first-seen order survives for equal similarities.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].BestSimilarity() > candidates[j].BestSimilarity()
	})

	return candidates
}
