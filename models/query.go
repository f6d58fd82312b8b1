package models

import "time"

// SearchMode determines which inventory categories a search targets.
type SearchMode string

const (
	ModeFlights     SearchMode = "flights"
	ModeStays       SearchMode = "stays"
	ModeCars        SearchMode = "cars"
	ModeExperiences SearchMode = "experiences"
	ModeEverything  SearchMode = "everything"
	ModePackage     SearchMode = "package"
)

// Category identifies one inventory vertical.
type Category string

const (
	CategoryFlight     Category = "flight"
	CategoryHotel      Category = "hotel"
	CategoryCar        Category = "car"
	CategoryExperience Category = "experience"
)

// DateMode describes how the caller expressed travel dates.
type DateMode string

const (
	DateExact    DateMode = "exact"
	DateFlexible DateMode = "flexible"
	DateWeekend  DateMode = "weekend"
	DateMonth    DateMode = "month"
)

// LocationQuery is the caller-supplied, unresolved location input.
type LocationQuery struct {
	Query string `json:"query,omitempty"` // free text, e.g. "new york"
	Code  string `json:"code,omitempty"`  // canonical code, e.g. "JFK"
	Type  string `json:"type,omitempty"`
}

// DateQuery holds the requested travel window.
type DateQuery struct {
	Mode      DateMode  `json:"mode"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate,omitempty"`
	// FlexDays widens the window on both sides when Mode is flexible.
	FlexDays int `json:"flexDays,omitempty"`
}

// Travelers carries the party composition.
type Travelers struct {
	Adults       int   `json:"adults"`
	Children     int   `json:"children,omitempty"`
	ChildrenAges []int `json:"childrenAges,omitempty"`
	Infants      int   `json:"infants,omitempty"`
}

func (t Travelers) Total() int {
	return t.Adults + t.Children + t.Infants
}

// Paging selects one page of a category result set.
type Paging struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// TripType distinguishes one-way from round trips; inferred from the date query.
type TripType string

const (
	TripOneWay    TripType = "oneway"
	TripRoundTrip TripType = "roundtrip"
)

// SearchQuery is the normalized, validated form of a raw search request.
// It is immutable once built for a given search attempt.
type SearchQuery struct {
	Mode        SearchMode     `json:"mode"`
	Categories  []Category     `json:"categories"`
	Origin      *LocationQuery `json:"origin,omitempty"`
	Destination LocationQuery  `json:"destination"`
	Dates       DateQuery      `json:"dates"`
	TripType    TripType       `json:"tripType"`
	Travelers   Travelers      `json:"travelers"`
	Rooms       int            `json:"rooms,omitempty"`
	CabinClass  string         `json:"cabinClass,omitempty"`
	Filters     AppliedFilters `json:"filters,omitempty"`
	SortBy      string         `json:"sortBy,omitempty"`
	Paging      Paging         `json:"paging"`
	Currency    string         `json:"currency"`
	UserID      string         `json:"userId,omitempty"`
}

// EnrichedQuery is a SearchQuery with resolved locations and computed intent attached.
type EnrichedQuery struct {
	SearchQuery
	ResolvedOrigin      *ResolvedLocation `json:"resolvedOrigin,omitempty"`
	ResolvedDestination ResolvedLocation  `json:"resolvedDestination"`
	Intent              SearchIntent      `json:"intent"`
}
