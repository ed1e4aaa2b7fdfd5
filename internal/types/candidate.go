package types

// Category tags a candidate with the budget bucket it draws from. Behavior
// that varies by category (ceilings, sanity rules, quality scoring) lives in
// lookup tables keyed by this value, not in per-category types.
type Category string

const (
	CategoryHotel      Category = "hotel"
	CategoryAttraction Category = "attraction"
	CategoryFood       Category = "food"
)

// Categories lists every category in allocation order.
var Categories = []Category{CategoryHotel, CategoryAttraction, CategoryFood}

func (c Category) Valid() bool {
	switch c {
	case CategoryHotel, CategoryAttraction, CategoryFood:
		return true
	}
	return false
}

// Candidate is one bookable option returned by a data source. The planner
// treats it as opaque beyond Category and Price and never mutates it.
//
// Price basis depends on the category: per night for hotels, per visit for
// attractions, per meal for food.
type Candidate struct {
	Category Category `json:"category"`
	Name     string   `json:"name"`
	Address  string   `json:"address,omitempty"`
	Price    float64  `json:"price"`
	Rating   float64  `json:"rating,omitempty"`

	// StayNights is the number of nights a hotel quote covers. Zero on
	// non-hotel candidates.
	StayNights int      `json:"stay_nights,omitempty"`
	Amenities  []string `json:"amenities,omitempty"`
	Cuisine    string   `json:"cuisine,omitempty"`
	// Kind is the source's own subcategory, e.g. "museum" or "italian".
	Kind string `json:"kind,omitempty"`
}
