package search

import (
	"math"
	"sort"
	"time"

	"tripscout/models"
)

// RankWeights are the subscore coefficients. They are configuration, not
// constants baked into logic; only their ratios matter.
type RankWeights struct {
	Price           float64
	Quality         float64
	Relevance       float64
	Personalization float64
	Freshness       float64
}

func (w RankWeights) total() float64 {
	return w.Price + w.Quality + w.Relevance + w.Personalization + w.Freshness
}

// Ranker scores and orders unique results. Rank is a pure function of its
// inputs: no I/O, no randomness, identical inputs yield identical order.
type Ranker struct {
	Weights RankWeights
	// FreshnessWindow is the retrieval age at which the freshness subscore
	// reaches zero.
	FreshnessWindow time.Duration
	// ProviderLess orders provider codes by priority for tie-breaking.
	ProviderLess func(a, b string) bool
}

// Rank computes each result's weighted score in [0,100] and returns the set
// sorted descending. asOf anchors the freshness subscore so the computation
// stays reproducible.
func (rk *Ranker) Rank(results []models.UnifiedResult, q models.EnrichedQuery, prefs *models.UserPreferences, asOf time.Time) []models.UnifiedResult {
	if len(results) == 0 {
		return results
	}
	weightTotal := rk.Weights.total()
	if weightTotal <= 0 {
		weightTotal = 1
	}

	minPrice, maxPrice := priceBounds(results)

	out := make([]models.UnifiedResult, len(results))
	copy(out, results)
	for i := range out {
		r := &out[i]
		price := priceScore(r.Price.Total, minPrice, maxPrice)
		quality := qualityScore(r)
		relevance := relevanceScore(r, q)
		personal := personalScore(r, prefs)
		freshness := rk.freshnessScore(r.Provider.RetrievedAt, asOf)

		total := (rk.Weights.Price*price +
			rk.Weights.Quality*quality +
			rk.Weights.Relevance*relevance +
			rk.Weights.Personalization*personal +
			rk.Weights.Freshness*freshness) / weightTotal

		r.Ranking = &models.RankingInfo{
			Score:          round2(total * 100),
			PriceScore:     round2(price * 100),
			QualityScore:   round2(quality * 100),
			RelevanceScore: round2(relevance * 100),
			PersonalScore:  round2(personal * 100),
			FreshnessScore: round2(freshness * 100),
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].Ranking.Score, out[j].Ranking.Score
		if si != sj {
			return si > sj
		}
		if out[i].Provider.Code != out[j].Provider.Code && rk.ProviderLess != nil {
			if rk.ProviderLess(out[i].Provider.Code, out[j].Provider.Code) {
				return true
			}
			if rk.ProviderLess(out[j].Provider.Code, out[i].Provider.Code) {
				return false
			}
		}
		return out[i].ID < out[j].ID
	})
	for i := range out {
		out[i].Ranking.Position = i + 1
	}
	return out
}

func priceBounds(results []models.UnifiedResult) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, r := range results {
		if r.Price.Total < min {
			min = r.Price.Total
		}
		if r.Price.Total > max {
			max = r.Price.Total
		}
	}
	return min, max
}

// priceScore inverse-normalizes against the current result set's spread:
// the cheapest offer scores 1, the dearest 0.
func priceScore(total, min, max float64) float64 {
	if max <= min {
		return 1
	}
	return (max - total) / (max - min)
}

func qualityScore(r *models.UnifiedResult) float64 {
	switch {
	case r.Hotel != nil:
		star := clamp01(r.Hotel.StarRating / 5)
		guest := clamp01(r.Hotel.GuestRating / 10)
		volume := reviewVolume(r.Hotel.ReviewCount)
		return 0.4*star + 0.4*guest + 0.2*volume
	case r.Flight != nil:
		stops := 1.0 / float64(1+r.Flight.Stops)
		refundable := 0.0
		if r.Flight.Refundable {
			refundable = 1.0
		}
		return 0.7*stops + 0.3*refundable
	case r.Experience != nil:
		rating := clamp01(r.Experience.Rating / 5)
		return 0.7*rating + 0.3*reviewVolume(r.Experience.ReviewCount)
	case r.Car != nil:
		// Car inventories rarely carry quality signals; newer vehicle
		// classes rank above economy.
		switch r.Car.VehicleClass {
		case "premium", "suv":
			return 0.8
		case "compact":
			return 0.6
		default:
			return 0.5
		}
	default:
		return 0.5
	}
}

// reviewVolume rewards review count on a log scale, saturating near 1000.
func reviewVolume(count int) float64 {
	if count <= 0 {
		return 0
	}
	return clamp01(math.Log1p(float64(count)) / math.Log1p(1000))
}

// relevanceScore measures match against query filters and detected intent.
func relevanceScore(r *models.UnifiedResult, q models.EnrichedQuery) float64 {
	score := 0.5
	if r.Flight != nil {
		if q.CabinClass != "" && r.Flight.CabinClass == q.CabinClass {
			score += 0.25
		}
		// Booking intent favors direct itineraries.
		if q.Intent.Primary == models.IntentBook && r.Flight.Stops == 0 {
			score += 0.25 * q.Intent.Confidence
		}
	}
	if r.Hotel != nil && len(q.Filters.Amenities) > 0 {
		score += 0.5 * matchFraction(r.Hotel.Amenities, q.Filters.Amenities)
	}
	return clamp01(score)
}

// personalScore measures match against user preference signals; without a
// profile every result scores a neutral 0.5.
func personalScore(r *models.UnifiedResult, prefs *models.UserPreferences) float64 {
	if prefs == nil {
		return 0.5
	}
	score := 0.0
	n := 0
	if len(prefs.PreferredProviders) > 0 {
		n++
		score += contains(prefs.PreferredProviders, r.Provider.Code)
	}
	if r.Flight != nil && len(prefs.PreferredAirlines) > 0 {
		n++
		score += contains(prefs.PreferredAirlines, r.Flight.Carrier())
	}
	if r.Hotel != nil && len(prefs.PreferredAmenities) > 0 {
		n++
		score += matchFraction(r.Hotel.Amenities, prefs.PreferredAmenities)
	}
	if n == 0 {
		return 0.5
	}
	return clamp01(score / float64(n))
}

func (rk *Ranker) freshnessScore(retrievedAt, asOf time.Time) float64 {
	window := rk.FreshnessWindow
	if window <= 0 {
		window = 15 * time.Minute
	}
	age := asOf.Sub(retrievedAt)
	if age <= 0 {
		return 1
	}
	return clamp01(1 - float64(age)/float64(window))
}

func matchFraction(have, want []string) float64 {
	if len(want) == 0 {
		return 0
	}
	set := make(map[string]bool, len(have))
	for _, h := range have {
		set[h] = true
	}
	matched := 0
	for _, w := range want {
		if set[w] {
			matched++
		}
	}
	return float64(matched) / float64(len(want))
}

func contains(list []string, v string) float64 {
	for _, item := range list {
		if item == v {
			return 1
		}
	}
	return 0
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
