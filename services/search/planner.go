package search

import (
	"time"

	"tripscout/models"
	"tripscout/providers"
)

// PlannerConfig carries the execution tuning knobs.
type PlannerConfig struct {
	CallTimeout  time.Duration
	PhaseTimeout time.Duration
	PlanTimeout  time.Duration
	MinResults   int
}

// ExecutionPlanner decides which categories and providers to call and in
// what phases. It never retries failed provider calls; retry policy, if any,
// is an adapter-internal concern.
type ExecutionPlanner struct {
	Registry *providers.Registry
	Config   PlannerConfig
}

// BuildPlan builds one phase per searchable category. Strategy is parallel by
// default; sequential phases are reserved for package/bundle modes where a
// category depends on a prior phase's output; hybrid otherwise.
func (p *ExecutionPlanner) BuildPlan(q models.EnrichedQuery, requested models.ExecutionStrategy) models.ExecutionPlan {
	strategy := requested
	if strategy == "" {
		strategy = models.StrategyParallel
		if q.Mode == models.ModePackage {
			strategy = models.StrategySequential
		}
	}

	var phases []models.ExecutionPhase
	for _, cat := range q.Categories {
		adapters := p.Registry.ByCategory(cat)
		if len(adapters) == 0 {
			continue
		}
		codes := make([]string, 0, len(adapters))
		for _, a := range adapters {
			codes = append(codes, a.Code())
		}
		phases = append(phases, models.ExecutionPhase{
			Category:  cat,
			Providers: codes,
			Timeout:   p.Config.PhaseTimeout,
			// Sequential plans wait for each phase in full since later phases
			// may depend on their output; otherwise a phase may return early
			// once the minimum-results threshold is met.
			WaitForAll: strategy == models.StrategySequential,
			MinResults: p.Config.MinResults,
		})
	}

	return models.ExecutionPlan{
		Strategy: strategy,
		Phases:   phases,
		Timeout:  p.Config.PlanTimeout,
	}
}
