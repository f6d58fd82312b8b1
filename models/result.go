package models

import "time"

// Price is a normalized monetary amount.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	// Total includes taxes and mandatory fees when the provider reports them.
	Total float64 `json:"total"`
}

// ProviderInfo stamps a result with its originating provider.
type ProviderInfo struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	RetrievedAt time.Time `json:"retrievedAt"`
}

// RankingInfo carries the computed ranking breakdown for a unique result.
type RankingInfo struct {
	Score          float64 `json:"score"` // total in [0,100]
	PriceScore     float64 `json:"priceScore"`
	QualityScore   float64 `json:"qualityScore"`
	RelevanceScore float64 `json:"relevanceScore"`
	PersonalScore  float64 `json:"personalScore"`
	FreshnessScore float64 `json:"freshnessScore"`
	Position       int     `json:"position"`
}

// AlternativeOffer is another provider's offer for the same underlying
// itinerary, room or vehicle, folded in by the deduplicator.
type AlternativeOffer struct {
	OfferID    string       `json:"offerId"`
	Provider   ProviderInfo `json:"provider"`
	Price      Price        `json:"price"`
	Similarity float64      `json:"similarity"` // in [0,1]
	PriceDelta float64      `json:"priceDelta"` // versus the primary's total
}

// FlightSegment is one leg of an itinerary.
type FlightSegment struct {
	Origin           string    `json:"origin"`
	Destination      string    `json:"destination"`
	DepartureTime    time.Time `json:"departureTime"`
	ArrivalTime      time.Time `json:"arrivalTime"`
	MarketingCarrier string    `json:"marketingCarrier"`
	OperatingCarrier string    `json:"operatingCarrier,omitempty"`
	FlightNumber     string    `json:"flightNumber"`
}

// FlightResult is the flight-specific payload of a unified result.
type FlightResult struct {
	Segments   []FlightSegment `json:"segments"`
	Stops      int             `json:"stops"`
	CabinClass string          `json:"cabinClass,omitempty"`
	FareClass  string          `json:"fareClass,omitempty"`
	Duration   time.Duration   `json:"duration"`
	Refundable bool            `json:"refundable,omitempty"`
}

// Route returns "ORG-DST" over the whole itinerary.
func (f FlightResult) Route() string {
	if len(f.Segments) == 0 {
		return ""
	}
	return f.Segments[0].Origin + "-" + f.Segments[len(f.Segments)-1].Destination
}

// Departure returns the first segment's departure time.
func (f FlightResult) Departure() time.Time {
	if len(f.Segments) == 0 {
		return time.Time{}
	}
	return f.Segments[0].DepartureTime
}

// Carrier returns the marketing carrier of the first segment.
func (f FlightResult) Carrier() string {
	if len(f.Segments) == 0 {
		return ""
	}
	return f.Segments[0].MarketingCarrier
}

// HotelResult is the lodging-specific payload of a unified result.
type HotelResult struct {
	Name        string      `json:"name"`
	StarRating  float64     `json:"starRating,omitempty"`
	GuestRating float64     `json:"guestRating,omitempty"` // 0-10 scale
	ReviewCount int         `json:"reviewCount,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
	CheckIn     time.Time   `json:"checkIn"`
	CheckOut    time.Time   `json:"checkOut"`
	RoomType    string      `json:"roomType,omitempty"`
	Amenities   []string    `json:"amenities,omitempty"`
	Board       string      `json:"board,omitempty"` // e.g. "breakfast", "all-inclusive"
}

// CarResult is the ground-transport payload of a unified result.
type CarResult struct {
	VehicleClass string    `json:"vehicleClass"`
	VehicleName  string    `json:"vehicleName,omitempty"`
	PickupPlace  string    `json:"pickupPlace"`
	DropoffPlace string    `json:"dropoffPlace"`
	PickupTime   time.Time `json:"pickupTime"`
	DropoffTime  time.Time `json:"dropoffTime"`
	Seats        int       `json:"seats,omitempty"`
	Transmission string    `json:"transmission,omitempty"`
}

// ExperienceResult is the activities payload of a unified result.
type ExperienceResult struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Rating      float64       `json:"rating,omitempty"` // 0-5 scale
	ReviewCount int           `json:"reviewCount,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
	Coordinates Coordinates   `json:"coordinates"`
	Tags        []string      `json:"tags,omitempty"`
}

// UnifiedResult is the provider-agnostic envelope for one offer. Exactly one
// of the category payloads is set, matching Category.
type UnifiedResult struct {
	ID       string       `json:"id"` // deterministic: hash(provider code, native offer id)
	Category Category     `json:"category"`
	Provider ProviderInfo `json:"provider"`
	Price    Price        `json:"price"`
	// NativeID is the provider's own identifier for the offer.
	NativeID string `json:"nativeId"`

	Flight     *FlightResult     `json:"flight,omitempty"`
	Hotel      *HotelResult      `json:"hotel,omitempty"`
	Car        *CarResult        `json:"car,omitempty"`
	Experience *ExperienceResult `json:"experience,omitempty"`

	Ranking      *RankingInfo       `json:"ranking,omitempty"`
	Alternatives []AlternativeOffer `json:"alternatives,omitempty"`
	FromCache    bool               `json:"fromCache,omitempty"`
}
