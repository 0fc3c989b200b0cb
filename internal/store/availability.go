package store

import (
	"sort"

	"github.com/erazemk/popcornhub/internal/model"
)

// Format filters for ComposeAvailability.
const (
	FilterAll     = "all"
	FilterBluray  = "bluray"
	FilterDigital = "digital"
	FilterBoth    = "both"
)

// Sort orders for ComposeAvailability.
const (
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortRatingDesc = "rating_desc"
	SortRatingAsc  = "rating_asc"
)

// missingPrice ranks listings without any price after every priced listing.
const missingPrice model.Price = 99999900

// AvailabilityFilter narrows and orders the marketplace view of a film.
type AvailabilityFilter struct {
	Format   string
	MaxPrice *model.Price
	SortBy   string
}

// Listing is a public offer of a film by another user.
type Listing struct {
	OwnerID        int64        `json:"owner_id"`
	OwnerName      string       `json:"owner_name"`
	HasBluray      bool         `json:"has_bluray"`
	HasDigital     bool         `json:"has_digital"`
	BlurayPrice    *model.Price `json:"bluray_price"`
	DigitalPrice   *model.Price `json:"digital_price"`
	BlurayMaxDays  *int         `json:"bluray_max_days"`
	DigitalMaxDays *int         `json:"digital_max_days"`
	MinPrice       *model.Price `json:"min_price"`
	SellerRating   *float64     `json:"seller_rating"`
}

// ComposeAvailability lists the public offers of filmID, excluding the
// requester's own. Listings whose owner account no longer exists are skipped.
func ComposeAvailability(doc *model.Document, filmID, requesterID int64, f AvailabilityFilter) []Listing {
	listings := []Listing{}
	for _, o := range doc.Ownerships {
		if o.FilmID != filmID || !o.IsPublic || o.UserID == requesterID {
			continue
		}
		owner := GetUser(doc, o.UserID)
		if owner == nil {
			continue
		}

		l := Listing{
			OwnerID:        o.UserID,
			OwnerName:      owner.Username,
			HasBluray:      o.HasBluray,
			HasDigital:     o.HasDigital,
			BlurayPrice:    o.BlurayPrice,
			DigitalPrice:   o.DigitalPrice,
			BlurayMaxDays:  o.BlurayMaxDays,
			DigitalMaxDays: o.DigitalMaxDays,
			MinPrice:       o.MinPrice(),
			SellerRating:   o.SellerRating,
		}
		if !matchesFormat(l, f.Format) {
			continue
		}
		if f.MaxPrice != nil && (l.MinPrice == nil || *l.MinPrice > *f.MaxPrice) {
			continue
		}
		listings = append(listings, l)
	}

	sortListings(listings, f.SortBy)
	return listings
}

func matchesFormat(l Listing, format string) bool {
	switch format {
	case FilterBluray:
		return l.HasBluray
	case FilterDigital:
		return l.HasDigital
	case FilterBoth:
		return l.HasBluray && l.HasDigital
	default:
		return true
	}
}

func sortListings(listings []Listing, sortBy string) {
	price := func(i int) model.Price {
		if p := listings[i].MinPrice; p != nil {
			return *p
		}
		return missingPrice
	}
	rating := func(i int) float64 {
		if r := listings[i].SellerRating; r != nil {
			return *r
		}
		return 0
	}

	var less func(i, j int) bool
	switch sortBy {
	case SortPriceDesc:
		less = func(i, j int) bool { return price(i) > price(j) }
	case SortRatingDesc:
		less = func(i, j int) bool { return rating(i) > rating(j) }
	case SortRatingAsc:
		less = func(i, j int) bool { return rating(i) < rating(j) }
	default:
		less = func(i, j int) bool { return price(i) < price(j) }
	}
	sort.SliceStable(listings, less)
}
