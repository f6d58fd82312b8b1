package models

// DuplicateMember is one non-primary offer folded into a duplicate group.
type DuplicateMember struct {
	Result     UnifiedResult `json:"result"`
	Similarity float64       `json:"similarity"` // versus the primary, in [0,1]
	PriceDelta float64       `json:"priceDelta"` // member total minus primary total
}

// DuplicateGroup clusters offers judged to represent the same real-world
// itinerary, stay or rental. Primary is always the lowest-total-price member.
type DuplicateGroup struct {
	Primary    UnifiedResult     `json:"primary"`
	Duplicates []DuplicateMember `json:"duplicates"`
}

// Size returns the number of offers in the group including the primary.
func (g DuplicateGroup) Size() int {
	return 1 + len(g.Duplicates)
}
