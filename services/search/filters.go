package search

import (
	"sort"
	"time"

	"tripscout/models"
)

// FilterEngine derives available filter facets from a unique result set and
// applies selected filters to it. Both operations are pure, synchronous
// transforms over the in-memory list; they never re-query providers.
type FilterEngine struct{}

// DeriveFilters scans the present fields of the unique result set and builds
// the facet definitions a caller can narrow by.
func (FilterEngine) DeriveFilters(category models.Category, results []models.UnifiedResult) []models.FilterDefinition {
	if len(results) == 0 {
		return nil
	}
	var defs []models.FilterDefinition

	minPrice, maxPrice := priceBounds(results)
	defs = append(defs, models.FilterDefinition{
		ID: "price", Label: "Price", Kind: models.FilterRange, Category: category,
		Min: minPrice, Max: maxPrice,
	})

	providerCounts := countBy(results, func(r models.UnifiedResult) (string, bool) {
		return r.Provider.Code, true
	})
	defs = append(defs, multiSelect("providers", "Providers", category, providerCounts))

	switch category {
	case models.CategoryFlight:
		airlineCounts := countBy(results, func(r models.UnifiedResult) (string, bool) {
			if r.Flight == nil {
				return "", false
			}
			return r.Flight.Carrier(), true
		})
		defs = append(defs, multiSelect("airlines", "Airlines", category, airlineCounts))

		stopCounts := countBy(results, func(r models.UnifiedResult) (string, bool) {
			if r.Flight == nil {
				return "", false
			}
			return stopsLabel(r.Flight.Stops), true
		})
		defs = append(defs, multiSelect("stops", "Stops", category, stopCounts))

		defs = append(defs, models.FilterDefinition{
			ID: "departureTime", Label: "Departure time", Kind: models.FilterTimeRange, Category: category,
		})
		defs = append(defs, models.FilterDefinition{
			ID: "refundable", Label: "Refundable only", Kind: models.FilterBoolean, Category: category,
		})

	case models.CategoryHotel:
		minStar, maxStar := bounds(results, func(r models.UnifiedResult) (float64, bool) {
			if r.Hotel == nil {
				return 0, false
			}
			return r.Hotel.StarRating, true
		})
		defs = append(defs, models.FilterDefinition{
			ID: "starRating", Label: "Star rating", Kind: models.FilterRange, Category: category,
			Min: minStar, Max: maxStar,
		})
		amenityCounts := make(map[string]int)
		for _, r := range results {
			if r.Hotel == nil {
				continue
			}
			for _, a := range r.Hotel.Amenities {
				amenityCounts[a]++
			}
		}
		defs = append(defs, multiSelect("amenities", "Amenities", category, amenityCounts))
	}

	return defs
}

// Apply filters the unique result list and reports before/after counts.
// Applying the same filters twice is idempotent.
func (FilterEngine) Apply(results []models.UnifiedResult, filters models.AppliedFilters) ([]models.UnifiedResult, models.FilterStats) {
	stats := models.FilterStats{TotalBefore: len(results)}
	if filters.IsZero() {
		stats.TotalAfter = len(results)
		return results, stats
	}

	out := make([]models.UnifiedResult, 0, len(results))
	for _, r := range results {
		if matches(r, filters) {
			out = append(out, r)
		}
	}
	stats.TotalAfter = len(out)
	return out, stats
}

func matches(r models.UnifiedResult, f models.AppliedFilters) bool {
	if f.Price != nil && !inRange(r.Price.Total, f.Price) {
		return false
	}
	if len(f.Providers) > 0 && contains(f.Providers, r.Provider.Code) == 0 {
		return false
	}
	if r.Flight != nil {
		if len(f.Stops) > 0 && !containsInt(f.Stops, r.Flight.Stops) {
			return false
		}
		if len(f.Airlines) > 0 && contains(f.Airlines, r.Flight.Carrier()) == 0 {
			return false
		}
		if f.Refundable != nil && *f.Refundable && !r.Flight.Refundable {
			return false
		}
		if f.DepartureTime != nil {
			dep := r.Flight.Departure()
			minute := dep.Hour()*60 + dep.Minute()
			if minute < f.DepartureTime.StartMinute || minute > f.DepartureTime.EndMinute {
				return false
			}
		}
	}
	if r.Hotel != nil {
		if f.StarRating != nil && !inRange(r.Hotel.StarRating, f.StarRating) {
			return false
		}
		if f.GuestRating != nil && !inRange(r.Hotel.GuestRating, f.GuestRating) {
			return false
		}
		if len(f.Amenities) > 0 && matchFraction(r.Hotel.Amenities, f.Amenities) < 1 {
			return false
		}
	}
	return true
}

// AvailableSorts lists the sort orders a category supports.
func (FilterEngine) AvailableSorts(category models.Category) []string {
	base := []string{"best", "price_asc", "price_desc"}
	switch category {
	case models.CategoryFlight:
		return append(base, "duration", "departure")
	case models.CategoryHotel, models.CategoryExperience:
		return append(base, "rating")
	default:
		return base
	}
}

// ApplySort reorders an already-ranked list. "best" (or empty) keeps the
// ranking order. Ties always fall back to offer id so the order stays
// deterministic.
func (FilterEngine) ApplySort(results []models.UnifiedResult, sortBy string) []models.UnifiedResult {
	out := make([]models.UnifiedResult, len(results))
	copy(out, results)
	less := func(i, j int) bool { return out[i].ID < out[j].ID }

	switch sortBy {
	case "", "best":
		return out
	case "price_asc":
		less = byTie(out, func(a, b models.UnifiedResult) (bool, bool) {
			return a.Price.Total < b.Price.Total, a.Price.Total == b.Price.Total
		})
	case "price_desc":
		less = byTie(out, func(a, b models.UnifiedResult) (bool, bool) {
			return a.Price.Total > b.Price.Total, a.Price.Total == b.Price.Total
		})
	case "duration":
		less = byTie(out, func(a, b models.UnifiedResult) (bool, bool) {
			da, db := flightDuration(a), flightDuration(b)
			return da < db, da == db
		})
	case "departure":
		less = byTie(out, func(a, b models.UnifiedResult) (bool, bool) {
			da, db := departureOf(a), departureOf(b)
			return da.Before(db), da.Equal(db)
		})
	case "rating":
		less = byTie(out, func(a, b models.UnifiedResult) (bool, bool) {
			ra, rb := ratingOf(a), ratingOf(b)
			return ra > rb, ra == rb
		})
	}
	sort.SliceStable(out, less)
	return out
}

func byTie(out []models.UnifiedResult, cmp func(a, b models.UnifiedResult) (less, eq bool)) func(i, j int) bool {
	return func(i, j int) bool {
		less, eq := cmp(out[i], out[j])
		if eq {
			return out[i].ID < out[j].ID
		}
		return less
	}
}

func flightDuration(r models.UnifiedResult) int64 {
	if r.Flight == nil {
		return 1 << 62
	}
	return int64(r.Flight.Duration)
}

func departureOf(r models.UnifiedResult) time.Time {
	if r.Flight != nil {
		return r.Flight.Departure()
	}
	if r.Car != nil {
		return r.Car.PickupTime
	}
	return time.Time{}
}

func ratingOf(r models.UnifiedResult) float64 {
	switch {
	case r.Hotel != nil:
		return r.Hotel.GuestRating
	case r.Experience != nil:
		return r.Experience.Rating
	default:
		return 0
	}
}

func inRange(v float64, r *models.RangeFilter) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

func containsInt(list []int, v int) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func stopsLabel(stops int) string {
	switch stops {
	case 0:
		return "nonstop"
	case 1:
		return "1 stop"
	default:
		return "2+ stops"
	}
}

func countBy(results []models.UnifiedResult, key func(models.UnifiedResult) (string, bool)) map[string]int {
	counts := make(map[string]int)
	for _, r := range results {
		if k, ok := key(r); ok && k != "" {
			counts[k]++
		}
	}
	return counts
}

func bounds(results []models.UnifiedResult, value func(models.UnifiedResult) (float64, bool)) (min, max float64) {
	first := true
	for _, r := range results {
		v, ok := value(r)
		if !ok {
			continue
		}
		if first || v < min {
			min = v
		}
		if first || v > max {
			max = v
		}
		first = false
	}
	return min, max
}

// multiSelect builds a multi-select facet with deterministically ordered options.
func multiSelect(id, label string, category models.Category, counts map[string]int) models.FilterDefinition {
	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Strings(values)
	options := make([]models.FilterOption, 0, len(values))
	for _, v := range values {
		options = append(options, models.FilterOption{Value: v, Label: v, Count: counts[v]})
	}
	return models.FilterDefinition{
		ID: id, Label: label, Kind: models.FilterMultiSelect, Category: category,
		Options: options,
	}
}
