package models

// IntentKind classifies the inferred purpose of a search. It only biases
// relevance scoring and derived recommendations, never excludes results.
type IntentKind string

const (
	IntentExplore IntentKind = "explore"
	IntentBook    IntentKind = "book"
	IntentCompare IntentKind = "compare"
	IntentPlan    IntentKind = "plan"
)

// IntentSignal is one weighted observation feeding intent classification.
type IntentSignal struct {
	Source string     `json:"source"` // e.g. "dates", "history", "party_size"
	Kind   IntentKind `json:"kind"`
	Weight float64    `json:"weight"`
}

// SearchIntent is the classified primary intent with its evidence.
type SearchIntent struct {
	Primary    IntentKind     `json:"primary"`
	Confidence float64        `json:"confidence"` // normalized weighted sum, in [0,1]
	Signals    []IntentSignal `json:"signals,omitempty"`
}

// UserPreferences is the read-only preference profile consulted during enrichment.
type UserPreferences struct {
	UserID             string   `bson:"userId" json:"userId"`
	PreferredAirlines  []string `bson:"preferredAirlines,omitempty" json:"preferredAirlines,omitempty"`
	PreferredProviders []string `bson:"preferredProviders,omitempty" json:"preferredProviders,omitempty"`
	PreferredAmenities []string `bson:"preferredAmenities,omitempty" json:"preferredAmenities,omitempty"`
	CabinClass         string   `bson:"cabinClass,omitempty" json:"cabinClass,omitempty"`
	BudgetLevel        string   `bson:"budgetLevel,omitempty" json:"budgetLevel,omitempty"` // "budget" | "mid" | "luxury"
	// RecentDestinations are canonical codes of recently searched destinations,
	// most recent first.
	RecentDestinations []string `bson:"recentDestinations,omitempty" json:"recentDestinations,omitempty"`
	SearchCount        int      `bson:"searchCount,omitempty" json:"searchCount,omitempty"`
}
