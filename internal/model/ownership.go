package model

// Format is a physical or digital copy type a user can own and lend.
type Format string

// Formats.
const (
	FormatBluray  Format = "bluray"
	FormatDigital Format = "digital"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f == FormatBluray || f == FormatDigital
}

// Other returns the opposite format.
func (f Format) Other() Format {
	if f == FormatBluray {
		return FormatDigital
	}
	return FormatBluray
}

// Ownership records which formats a user holds for a film and the lending terms.
// Legacy marks a read-time record derived from the legacy library list; it is
// never persisted.
type Ownership struct {
	UserID         int64    `json:"user_id"`
	FilmID         int64    `json:"movie_id"`
	HasBluray      bool     `json:"has_bluray"`
	HasDigital     bool     `json:"has_digital"`
	BlurayPrice    *Price   `json:"bluray_price"`
	DigitalPrice   *Price   `json:"digital_price"`
	BlurayMaxDays  *int     `json:"bluray_max_days"`
	DigitalMaxDays *int     `json:"digital_max_days"`
	IsPublic       bool     `json:"is_public"`
	SellerRating   *float64 `json:"seller_rating,omitempty"`
	Legacy         bool     `json:"-"`
}

// Has reports whether the record offers format f.
func (o *Ownership) Has(f Format) bool {
	switch f {
	case FormatBluray:
		return o.HasBluray
	case FormatDigital:
		return o.HasDigital
	}
	return false
}

// PriceFor returns the configured price for format f, or nil.
func (o *Ownership) PriceFor(f Format) *Price {
	if f == FormatBluray {
		return o.BlurayPrice
	}
	return o.DigitalPrice
}

// MaxDaysFor returns the maximum loan duration for format f, or nil.
func (o *Ownership) MaxDaysFor(f Format) *int {
	if f == FormatBluray {
		return o.BlurayMaxDays
	}
	return o.DigitalMaxDays
}

// MinPrice returns the lowest non-null price of the record, or nil.
func (o *Ownership) MinPrice() *Price {
	switch {
	case o.BlurayPrice != nil && o.DigitalPrice != nil:
		if *o.DigitalPrice < *o.BlurayPrice {
			return o.DigitalPrice
		}
		return o.BlurayPrice
	case o.BlurayPrice != nil:
		return o.BlurayPrice
	default:
		return o.DigitalPrice
	}
}
