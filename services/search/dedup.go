package search

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"tripscout/models"
)

// DedupConfig carries the deduplication tuning knobs. The similarity
// threshold and bucket sizes are configuration, not constants.
type DedupConfig struct {
	SimilarityThreshold float64
	TimeBucket          time.Duration
	GeoCellKm           float64
}

// Deduplicator clusters near-duplicate offers across providers, per
// category. It is deterministic and order-independent: the same input set,
// in any order, yields the same groups and the same choice of primary.
type Deduplicator struct {
	Config DedupConfig
	// ProviderLess orders provider codes by priority for tie-breaking.
	ProviderLess func(a, b string) bool
}

// Deduplicate clusters the category's offers into duplicate groups. The
// group's primary is the lowest-total-price member; ties break by provider
// priority, then lexical offer id.
func (d *Deduplicator) Deduplicate(category models.Category, results []models.UnifiedResult) []models.DuplicateGroup {
	// Canonical ordering first: clustering greedily over a sorted copy makes
	// the outcome independent of input permutation.
	sorted := make([]models.UnifiedResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	// Coarse bucketing bounds the pairwise comparisons.
	buckets := make(map[string][]models.UnifiedResult)
	var bucketKeys []string
	for _, r := range sorted {
		key := d.bucketKey(category, r)
		if _, seen := buckets[key]; !seen {
			bucketKeys = append(bucketKeys, key)
		}
		buckets[key] = append(buckets[key], r)
	}
	sort.Strings(bucketKeys)

	var groups []models.DuplicateGroup
	for _, key := range bucketKeys {
		groups = append(groups, d.clusterBucket(category, buckets[key])...)
	}
	return groups
}

// Collapse folds duplicate groups back into a unique result list: each
// group's primary carries its members as alternative offers.
func Collapse(groups []models.DuplicateGroup) []models.UnifiedResult {
	out := make([]models.UnifiedResult, 0, len(groups))
	for _, g := range groups {
		primary := g.Primary
		for _, m := range g.Duplicates {
			primary.Alternatives = append(primary.Alternatives, models.AlternativeOffer{
				OfferID:    m.Result.ID,
				Provider:   m.Result.Provider,
				Price:      m.Result.Price,
				Similarity: m.Similarity,
				PriceDelta: m.PriceDelta,
			})
		}
		out = append(out, primary)
	}
	return out
}

func (d *Deduplicator) clusterBucket(category models.Category, bucket []models.UnifiedResult) []models.DuplicateGroup {
	type cluster struct {
		seed    models.UnifiedResult
		members []models.UnifiedResult
		sims    []float64
	}
	var clusters []*cluster
	for _, r := range bucket {
		placed := false
		for _, c := range clusters {
			sim := d.similarity(category, c.seed, r)
			if sim >= d.Config.SimilarityThreshold {
				c.members = append(c.members, r)
				c.sims = append(c.sims, sim)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, &cluster{seed: r, members: []models.UnifiedResult{r}, sims: []float64{1}})
		}
	}

	groups := make([]models.DuplicateGroup, 0, len(clusters))
	for _, c := range clusters {
		primaryIdx := 0
		for i := 1; i < len(c.members); i++ {
			if d.lessAsPrimary(c.members[i], c.members[primaryIdx]) {
				primaryIdx = i
			}
		}
		g := models.DuplicateGroup{Primary: c.members[primaryIdx]}
		for i, m := range c.members {
			if i == primaryIdx {
				continue
			}
			g.Duplicates = append(g.Duplicates, models.DuplicateMember{
				Result:     m,
				Similarity: d.similarity(category, g.Primary, m),
				PriceDelta: m.Price.Total - g.Primary.Price.Total,
			})
		}
		groups = append(groups, g)
	}
	return groups
}

// lessAsPrimary orders candidates for the primary slot: lowest total price,
// then provider priority, then lexical offer id.
func (d *Deduplicator) lessAsPrimary(a, b models.UnifiedResult) bool {
	if a.Price.Total != b.Price.Total {
		return a.Price.Total < b.Price.Total
	}
	if a.Provider.Code != b.Provider.Code && d.ProviderLess != nil {
		if d.ProviderLess(a.Provider.Code, b.Provider.Code) {
			return true
		}
		if d.ProviderLess(b.Provider.Code, a.Provider.Code) {
			return false
		}
	}
	return a.ID < b.ID
}

func (d *Deduplicator) bucketKey(category models.Category, r models.UnifiedResult) string {
	switch category {
	case models.CategoryFlight:
		if r.Flight == nil {
			return "flight/"
		}
		bucket := r.Flight.Departure().Truncate(d.Config.TimeBucket).Unix()
		return fmt.Sprintf("flight/%s/%d/%s", r.Flight.Route(), bucket, r.Flight.Carrier())
	case models.CategoryHotel:
		if r.Hotel == nil {
			return "hotel/"
		}
		// ~1 degree of latitude is 111km; cell size comes from config.
		cell := d.Config.GeoCellKm / 111.0
		latCell := math.Floor(r.Hotel.Coordinates.Latitude / cell)
		lonCell := math.Floor(r.Hotel.Coordinates.Longitude / cell)
		return fmt.Sprintf("hotel/%.0f/%.0f/%s", latCell, lonCell, r.Hotel.CheckIn.Format("2006-01-02"))
	case models.CategoryCar:
		if r.Car == nil {
			return "car/"
		}
		return fmt.Sprintf("car/%s/%s/%s", normalizeName(r.Car.PickupPlace), r.Car.VehicleClass, r.Car.PickupTime.Format("2006-01-02"))
	default:
		if r.Experience == nil {
			return "exp/"
		}
		return "exp/" + firstToken(r.Experience.Title)
	}
}

func (d *Deduplicator) similarity(category models.Category, a, b models.UnifiedResult) float64 {
	switch category {
	case models.CategoryFlight:
		return flightSimilarity(a, b)
	case models.CategoryHotel:
		return d.hotelSimilarity(a, b)
	case models.CategoryCar:
		return carSimilarity(a, b)
	default:
		return experienceSimilarity(a, b)
	}
}

// flightSimilarity scores two offers already bucketed by (route, coarse
// departure, carrier): exact route/date/carrier match plus fare-class
// proximity.
func flightSimilarity(a, b models.UnifiedResult) float64 {
	if a.Flight == nil || b.Flight == nil {
		return 0
	}
	sim := 0.0
	if a.Flight.Route() == b.Flight.Route() && a.Flight.Carrier() == b.Flight.Carrier() {
		sim += 0.5
	}
	if a.Flight.Departure().Equal(b.Flight.Departure()) {
		sim += 0.3
	}
	sim += 0.2 * fareClassProximity(a.Flight.FareClass, b.Flight.FareClass)
	return math.Min(sim, 1)
}

func fareClassProximity(a, b string) float64 {
	switch {
	case a == b:
		return 1
	case a != "" && b != "":
		return 0.5
	default:
		return 0
	}
}

// hotelSimilarity combines geographic proximity, fuzzy name match and
// date-range overlap.
func (d *Deduplicator) hotelSimilarity(a, b models.UnifiedResult) float64 {
	if a.Hotel == nil || b.Hotel == nil {
		return 0
	}
	distKm := haversine(
		a.Hotel.Coordinates.Latitude, a.Hotel.Coordinates.Longitude,
		b.Hotel.Coordinates.Latitude, b.Hotel.Coordinates.Longitude,
	)
	geoScore := math.Max(0, 1-distKm/math.Max(d.Config.GeoCellKm, 0.001))
	nameScore := tokenOverlap(a.Hotel.Name, b.Hotel.Name)
	dateScore := 0.0
	if overlaps(a.Hotel.CheckIn, a.Hotel.CheckOut, b.Hotel.CheckIn, b.Hotel.CheckOut) {
		dateScore = 1.0
	}
	return 0.5*nameScore + 0.3*geoScore + 0.2*dateScore
}

func carSimilarity(a, b models.UnifiedResult) float64 {
	if a.Car == nil || b.Car == nil {
		return 0
	}
	sim := 0.0
	if strings.EqualFold(a.Car.VehicleClass, b.Car.VehicleClass) {
		sim += 0.4
	}
	if normalizeName(a.Car.PickupPlace) == normalizeName(b.Car.PickupPlace) {
		sim += 0.3
	}
	if a.Car.PickupTime.Truncate(24 * time.Hour).Equal(b.Car.PickupTime.Truncate(24 * time.Hour)) {
		sim += 0.3
	}
	return sim
}

func experienceSimilarity(a, b models.UnifiedResult) float64 {
	if a.Experience == nil || b.Experience == nil {
		return 0
	}
	return 0.7*tokenOverlap(a.Experience.Title, b.Experience.Title) +
		0.3*math.Max(0, 1-haversine(
			a.Experience.Coordinates.Latitude, a.Experience.Coordinates.Longitude,
			b.Experience.Coordinates.Latitude, b.Experience.Coordinates.Longitude,
		))
}

// tokenOverlap is the Jaccard index over normalized name tokens.
func tokenOverlap(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter := 0
	for t := range ta {
		if tb[t] {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]bool {
	out := make(map[string]bool)
	for _, t := range strings.Fields(strings.ToLower(s)) {
		out[strings.Trim(t, ".,-&")] = true
	}
	return out
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func firstToken(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// haversine calculates the great-circle distance (in km) between two lat/lon points.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
