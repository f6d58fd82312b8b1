package models

// FilterKind is the UI shape of a derived facet.
type FilterKind string

const (
	FilterRange       FilterKind = "range"
	FilterMultiSelect FilterKind = "multiselect"
	FilterBoolean     FilterKind = "boolean"
	FilterTimeRange   FilterKind = "timerange"
)

// FilterOption is one selectable value of a multi-select facet.
type FilterOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"` // results carrying this value
}

// FilterDefinition describes one facet derived from the current unique result set.
type FilterDefinition struct {
	ID       string         `json:"id"` // e.g. "price", "stops", "airlines"
	Label    string         `json:"label"`
	Kind     FilterKind     `json:"kind"`
	Category Category       `json:"category"`
	Min      float64        `json:"min,omitempty"`
	Max      float64        `json:"max,omitempty"`
	Options  []FilterOption `json:"options,omitempty"`
}

// RangeFilter bounds a numeric field. A nil side is unbounded.
type RangeFilter struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// TimeRangeFilter bounds a time-of-day field, minutes since midnight.
type TimeRangeFilter struct {
	StartMinute int `json:"startMinute"`
	EndMinute   int `json:"endMinute"`
}

// AppliedFilters is the set of filters a caller has selected.
type AppliedFilters struct {
	Price         *RangeFilter     `json:"price,omitempty"`
	Stops         []int            `json:"stops,omitempty"`
	Airlines      []string         `json:"airlines,omitempty"`
	StarRating    *RangeFilter     `json:"starRating,omitempty"`
	GuestRating   *RangeFilter     `json:"guestRating,omitempty"`
	Amenities     []string         `json:"amenities,omitempty"`
	Refundable    *bool            `json:"refundable,omitempty"`
	DepartureTime *TimeRangeFilter `json:"departureTime,omitempty"`
	Providers     []string         `json:"providers,omitempty"`
}

// IsZero reports whether no filter is selected.
func (f AppliedFilters) IsZero() bool {
	return f.Price == nil && len(f.Stops) == 0 && len(f.Airlines) == 0 &&
		f.StarRating == nil && f.GuestRating == nil && len(f.Amenities) == 0 &&
		f.Refundable == nil && f.DepartureTime == nil && len(f.Providers) == 0
}

// FilterStats reports before/after counts of one filter application.
type FilterStats struct {
	TotalBefore int `json:"totalBefore"`
	TotalAfter  int `json:"totalAfter"`
}
