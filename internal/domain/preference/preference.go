package preference

import "github.com/robosmart/flowrec/internal/domain/workflow"

// Preferences is a user's derived taste profile. Computed fresh per
// recommendation request; never persisted by this subsystem.
type Preferences struct {
	categories []string
	complexity workflow.Complexity
	tools      []string
}

// New creates a preference set. Order of categories and tools is meaningful
// (strongest affinity first).
func New(categories []string, complexity workflow.Complexity, tools []string) Preferences {
	return Preferences{
		categories: categories,
		complexity: complexity,
		tools:      tools,
	}
}

// Default is the canonical no-history preference set: applied to new users,
// to users with no logged interactions, and whenever the profile store is
// unavailable.
func Default() Preferences {
	return Preferences{
		categories: []string{"productivity", "automation"},
		complexity: workflow.Beginner,
		tools:      []string{"n8n"},
	}
}

// Categories returns the preferred categories, strongest first.
func (p *Preferences) Categories() []string { return p.categories }

// Complexity returns the preferred setup difficulty.
func (p *Preferences) Complexity() workflow.Complexity { return p.complexity }

// Tools returns the preferred integrations, strongest first.
func (p *Preferences) Tools() []string { return p.tools }
