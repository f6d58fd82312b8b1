package search

import (
	"context"
	"errors"
	"time"

	userprefsRepo "tripscout/database/repository/userprefs"
	"tripscout/models"

	"go.uber.org/zap"
)

// IntentEnricher merges user history and preferences into the query and
// classifies the primary search intent. Enrichment only biases relevance
// scoring and derived recommendations; it never filters or drops results.
type IntentEnricher struct {
	Preferences userprefsRepo.PreferenceRepository
	Logger      *zap.Logger
	Now         func() time.Time
}

// Enrich attaches resolved locations and a classified intent to the query,
// returning the loaded preference profile for downstream personalization.
// A missing profile or a repository error degrades to explicit-signal-only
// enrichment.
func (e *IntentEnricher) Enrich(ctx context.Context, q models.SearchQuery, origin *models.ResolvedLocation, destination models.ResolvedLocation) (models.EnrichedQuery, *models.UserPreferences) {
	var prefs *models.UserPreferences
	if q.UserID != "" && e.Preferences != nil {
		p, err := e.Preferences.GetByUserID(ctx, q.UserID)
		switch {
		case err == nil:
			prefs = p
		case errors.Is(err, userprefsRepo.ErrPreferencesNotFound):
			// First-time user, nothing to merge.
		default:
			e.Logger.Warn("preference lookup failed, continuing without history",
				zap.String("userId", q.UserID), zap.Error(err))
		}
	}

	signals := e.collectSignals(q, destination, prefs)
	return models.EnrichedQuery{
		SearchQuery:         q,
		ResolvedOrigin:      origin,
		ResolvedDestination: destination,
		Intent:              classify(signals),
	}, prefs
}

func (e *IntentEnricher) collectSignals(q models.SearchQuery, destination models.ResolvedLocation, prefs *models.UserPreferences) []models.IntentSignal {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	var signals []models.IntentSignal

	// Date proximity: near departures read as booking, distant ones as planning.
	daysOut := q.Dates.StartDate.Sub(now()).Hours() / 24
	switch {
	case daysOut <= 14:
		signals = append(signals, models.IntentSignal{Source: "dates", Kind: models.IntentBook, Weight: 2.0})
	case daysOut <= 60:
		signals = append(signals, models.IntentSignal{Source: "dates", Kind: models.IntentCompare, Weight: 1.0})
	default:
		signals = append(signals, models.IntentSignal{Source: "dates", Kind: models.IntentPlan, Weight: 1.5})
	}
	if q.Dates.Mode == models.DateFlexible || q.Dates.Mode == models.DateMonth {
		signals = append(signals, models.IntentSignal{Source: "date_mode", Kind: models.IntentExplore, Weight: 1.5})
	}

	// Party composition: families and groups plan ahead.
	if q.Travelers.Total() >= 3 {
		signals = append(signals, models.IntentSignal{Source: "party_size", Kind: models.IntentPlan, Weight: 1.0})
	}

	// Category mix: a single narrow category with sort/filters reads as comparing.
	if len(q.Categories) == 1 {
		if q.SortBy != "" || !q.Filters.IsZero() {
			signals = append(signals, models.IntentSignal{Source: "refinement", Kind: models.IntentCompare, Weight: 1.5})
		}
	} else if len(q.Categories) >= 3 {
		signals = append(signals, models.IntentSignal{Source: "category_mix", Kind: models.IntentExplore, Weight: 1.0})
	}

	// History: repeat searches for the same destination signal readiness to book.
	if prefs != nil {
		for _, code := range prefs.RecentDestinations {
			if code == destination.Code {
				signals = append(signals, models.IntentSignal{Source: "history", Kind: models.IntentBook, Weight: 2.0})
				break
			}
		}
		if prefs.SearchCount >= 10 {
			signals = append(signals, models.IntentSignal{Source: "history", Kind: models.IntentCompare, Weight: 0.5})
		}
	}

	return signals
}

// classify picks the highest-weighted intent kind; confidence is the winning
// kind's share of the total signal weight.
func classify(signals []models.IntentSignal) models.SearchIntent {
	if len(signals) == 0 {
		return models.SearchIntent{Primary: models.IntentExplore, Confidence: 0}
	}
	byKind := make(map[models.IntentKind]float64)
	var total float64
	for _, s := range signals {
		byKind[s.Kind] += s.Weight
		total += s.Weight
	}

	// Deterministic winner selection: weight first, then fixed kind order.
	order := []models.IntentKind{models.IntentBook, models.IntentCompare, models.IntentPlan, models.IntentExplore}
	primary := order[0]
	best := -1.0
	for _, kind := range order {
		if w := byKind[kind]; w > best {
			best = w
			primary = kind
		}
	}
	return models.SearchIntent{
		Primary:    primary,
		Confidence: best / total,
		Signals:    signals,
	}
}
