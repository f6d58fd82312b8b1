package search

import (
	"strings"

	"tripscout/models"
)

// Normalizer turns a raw search request into a validated, structured query.
type Normalizer struct {
	DefaultCurrency string
	DefaultPageSize int
}

// Normalize validates required fields and fills defaults. It fails with a
// ValidationError before any provider is contacted when the destination is
// absent, or when flight mode lacks an origin.
func (n *Normalizer) Normalize(req models.SearchRequest) (models.SearchQuery, error) {
	var q models.SearchQuery

	if req.Destination == nil || (strings.TrimSpace(req.Destination.Query) == "" && strings.TrimSpace(req.Destination.Code) == "") {
		return q, NewValidationError("destination", "a destination is required")
	}

	mode := req.Mode
	if mode == "" {
		mode = models.ModeEverything
	}
	// An origin object with neither query nor code is treated as absent, so
	// it never reaches the resolver.
	origin := req.Origin
	if origin != nil && strings.TrimSpace(origin.Query) == "" && strings.TrimSpace(origin.Code) == "" {
		origin = nil
	}
	if mode == models.ModeFlights && origin == nil {
		return q, NewValidationError("origin", "an origin is required for flight searches")
	}

	if req.Dates == nil || req.Dates.StartDate.IsZero() {
		return q, NewValidationError("dates", "a start date is required")
	}
	dates := *req.Dates
	if dates.Mode == "" {
		dates.Mode = models.DateExact
	}
	if !dates.EndDate.IsZero() && dates.EndDate.Before(dates.StartDate) {
		return q, NewValidationError("dates", "end date precedes start date")
	}

	// Trip type is inferred from the presence of a return date.
	tripType := models.TripOneWay
	if !dates.EndDate.IsZero() {
		tripType = models.TripRoundTrip
	}

	travelers := models.Travelers{Adults: 1}
	if req.Travelers != nil {
		travelers = *req.Travelers
		if travelers.Adults <= 0 {
			travelers.Adults = 1
		}
		if travelers.Children < 0 || travelers.Infants < 0 {
			return q, NewValidationError("travelers", "traveler counts cannot be negative")
		}
	}

	rooms := req.Rooms
	if rooms <= 0 {
		rooms = 1
	}

	currency := n.DefaultCurrency
	if req.Options != nil && req.Options.Currency != "" {
		currency = strings.ToUpper(req.Options.Currency)
	}

	pageSize := n.DefaultPageSize
	if req.Options != nil && req.Options.Limit > 0 {
		pageSize = req.Options.Limit
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}

	q = models.SearchQuery{
		Mode:        mode,
		Categories:  categoriesForMode(mode, origin != nil),
		Origin:      origin,
		Destination: *req.Destination,
		Dates:       dates,
		TripType:    tripType,
		Travelers:   travelers,
		Rooms:       rooms,
		CabinClass:  req.CabinClass,
		Filters:     req.Filters,
		SortBy:      req.SortBy,
		Paging:      models.Paging{Page: page, PageSize: pageSize},
		Currency:    currency,
		UserID:      req.UserID,
	}
	return q, nil
}

// categoriesForMode selects the inventory categories a mode targets. Flights
// are only searchable when an origin was supplied.
func categoriesForMode(mode models.SearchMode, hasOrigin bool) []models.Category {
	switch mode {
	case models.ModeFlights:
		return []models.Category{models.CategoryFlight}
	case models.ModeStays:
		return []models.Category{models.CategoryHotel}
	case models.ModeCars:
		return []models.Category{models.CategoryCar}
	case models.ModeExperiences:
		return []models.Category{models.CategoryExperience}
	case models.ModePackage:
		cats := []models.Category{models.CategoryHotel, models.CategoryExperience}
		if hasOrigin {
			cats = append([]models.Category{models.CategoryFlight}, cats...)
		}
		return cats
	default: // everything
		cats := []models.Category{models.CategoryHotel, models.CategoryCar, models.CategoryExperience}
		if hasOrigin {
			cats = append([]models.Category{models.CategoryFlight}, cats...)
		}
		return cats
	}
}
