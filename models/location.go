package models

// LocationType classifies a resolved location entity.
type LocationType string

const (
	LocationCity    LocationType = "city"
	LocationAirport LocationType = "airport"
	LocationRegion  LocationType = "region"
	LocationCountry LocationType = "country"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// ResolvedLocation is the canonical location entity produced by the destination resolver.
type ResolvedLocation struct {
	Code        string       `bson:"code" json:"code"`
	DisplayName string       `bson:"displayName" json:"displayName"`
	Type        LocationType `bson:"type" json:"type"`
	CountryCode string       `bson:"countryCode" json:"countryCode,omitempty"`
	Coordinates Coordinates  `bson:"coordinates" json:"coordinates"`
	Timezone    string       `bson:"timezone" json:"timezone,omitempty"`
	// Approximate is set when the resolver could not match the input and
	// fabricated a minimal entity from the raw text.
	Approximate bool `bson:"-" json:"approximate,omitempty"`
	// Aliases are alternate spellings used for fuzzy name matching.
	Aliases []string `bson:"aliases,omitempty" json:"-"`
	// Popularity feeds autocomplete ordering, higher is better known.
	Popularity float64 `bson:"popularity,omitempty" json:"-"`
}
