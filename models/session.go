package models

import "time"

// SessionStatus moves only forward: pending → searching → {completed | partial | failed}.
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionSearching SessionStatus = "searching"
	SessionCompleted SessionStatus = "completed"
	SessionPartial   SessionStatus = "partial"
	SessionFailed    SessionStatus = "failed"
)

// CanTransitionTo reports whether moving to next respects the forward-only ordering.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	rank := map[SessionStatus]int{
		SessionPending:   0,
		SessionSearching: 1,
		SessionCompleted: 2,
		SessionPartial:   2,
		SessionFailed:    2,
	}
	return rank[next] > rank[s]
}

// PageInfo describes pagination state of one category result set.
type PageInfo struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// ProviderOutcome summarizes one provider's contribution for response metadata.
type ProviderOutcome struct {
	Code         string        `json:"code"`
	Success      bool          `json:"success"`
	ResponseTime time.Duration `json:"responseTime"`
	FromCache    bool          `json:"fromCache"`
	ResultCount  int           `json:"resultCount"`
	FailureKind  string        `json:"failureKind,omitempty"`
}

// CategoryResultSet is the stored unique result set for one category.
type CategoryResultSet struct {
	Category   Category           `json:"category"`
	Results    []UnifiedResult    `json:"results"` // deduplicated, ranked
	TotalCount int                `json:"totalCount"`
	PageInfo   PageInfo           `json:"pageInfo"`
	Providers  []ProviderOutcome  `json:"providers"`
	Facets     []FilterDefinition `json:"facets,omitempty"`
}

// SessionAnalytics counts caller interactions over the session lifetime.
// It is read, updated and written back atomically per session-token update.
type SessionAnalytics struct {
	ResultsViewed  int           `json:"resultsViewed"`
	FiltersApplied int           `json:"filtersApplied"`
	OffersClicked  int           `json:"offersClicked"`
	OffersSaved    int           `json:"offersSaved"`
	Continuations  int           `json:"continuations"`
	TimeSpent      time.Duration `json:"timeSpent"`
}

// PriceSnapshot is one append-only observation of a category's price spread.
type PriceSnapshot struct {
	Category Category  `json:"category"`
	MinPrice float64   `json:"minPrice"`
	AvgPrice float64   `json:"avgPrice"`
	TakenAt  time.Time `json:"takenAt"`
}

// SearchSession is the persisted state of one resumable search.
type SearchSession struct {
	ID        string        `json:"id"`
	Token     string        `json:"token"` // opaque, globally unique, only continuation key
	Query     EnrichedQuery `json:"query"`
	Status    SessionStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	// SearchedAt is when provider results were last fetched; continuation calls
	// past the freshness window trigger a fresh provider search.
	SearchedAt time.Time `json:"searchedAt"`

	ResultSets     map[Category]*CategoryResultSet `json:"resultSets"`
	AppliedFilters AppliedFilters                  `json:"appliedFilters,omitempty"`
	SortBy         string                          `json:"sortBy,omitempty"`
	Analytics      SessionAnalytics                `json:"analytics"`
	PriceHistory   []PriceSnapshot                 `json:"priceHistory,omitempty"`
}
