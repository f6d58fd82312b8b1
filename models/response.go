package models

import "time"

// SearchAction selects the operation of the single search endpoint.
type SearchAction string

const (
	ActionSearch       SearchAction = "search"
	ActionContinue     SearchAction = "continue"
	ActionAutocomplete SearchAction = "autocomplete"
	ActionTrending     SearchAction = "trending"
)

// SearchOptions carries optional request tuning.
type SearchOptions struct {
	Currency string            `json:"currency,omitempty"`
	Strategy ExecutionStrategy `json:"strategy,omitempty"`
	Limit    int               `json:"limit,omitempty"`
}

// SearchRequest is the wire request of the search endpoint.
type SearchRequest struct {
	Action       SearchAction   `json:"action"`
	Mode         SearchMode     `json:"mode,omitempty"`
	Destination  *LocationQuery `json:"destination,omitempty"`
	Origin       *LocationQuery `json:"origin,omitempty"`
	Dates        *DateQuery     `json:"dates,omitempty"`
	Travelers    *Travelers     `json:"travelers,omitempty"`
	Rooms        int            `json:"rooms,omitempty"`
	CabinClass   string         `json:"cabinClass,omitempty"`
	Filters      AppliedFilters `json:"filters,omitempty"`
	SortBy       string         `json:"sortBy,omitempty"`
	Page         int            `json:"page,omitempty"`
	Options      *SearchOptions `json:"options,omitempty"`
	SessionToken string         `json:"sessionToken,omitempty"` // required for continue
	UserID       string         `json:"userId,omitempty"`
}

// CategoryBlock is one category's slice of the wire response.
type CategoryBlock struct {
	Items      []UnifiedResult    `json:"items"`
	TotalCount int                `json:"totalCount"`
	PageInfo   PageInfo           `json:"pageInfo"`
	Providers  []ProviderOutcome  `json:"providers"`
	Filters    []FilterDefinition `json:"filters,omitempty"`
	Sorts      []string           `json:"sorts,omitempty"`
	Stats      *FilterStats       `json:"filterStats,omitempty"`
}

// ResultSources splits how many results came from cache versus live calls.
type ResultSources struct {
	Cached int `json:"cached"`
	Live   int `json:"live"`
}

// ResponseMeta carries execution metadata for the whole request.
type ResponseMeta struct {
	SearchDuration time.Duration     `json:"searchDuration"`
	Providers      []ProviderOutcome `json:"providers"`
	CacheHits      int               `json:"cacheHits"`
	ResultSources  ResultSources     `json:"resultSources"`
	// ApproximateDestination is set when the resolver fabricated the
	// destination from raw text instead of matching a known location.
	ApproximateDestination bool `json:"approximateDestination,omitempty"`
}

// PriceInsights summarizes the observed price spread per category.
type PriceInsights struct {
	Category    Category `json:"category"`
	MinPrice    float64  `json:"minPrice"`
	MedianPrice float64  `json:"medianPrice"`
	AvgPrice    float64  `json:"avgPrice"`
	Currency    string   `json:"currency"`
}

// TrendingDestination is one entry of the trending aggregate.
type TrendingDestination struct {
	Location    ResolvedLocation `json:"location"`
	SearchCount int64            `json:"searchCount"`
}

// SearchResponse is the wire response of the search endpoint.
type SearchResponse struct {
	SessionToken    string                      `json:"sessionToken,omitempty"`
	Status          SessionStatus               `json:"status"`
	Results         map[Category]*CategoryBlock `json:"results,omitempty"`
	Query           *EnrichedQuery              `json:"query,omitempty"`
	Suggestions     []ResolvedLocation          `json:"suggestions,omitempty"`
	Trending        []TrendingDestination       `json:"trending,omitempty"`
	DestinationInfo *ResolvedLocation           `json:"destinationInfo,omitempty"`
	PriceInsights   []PriceInsights             `json:"priceInsights,omitempty"`
	Meta            *ResponseMeta               `json:"meta,omitempty"`
}
