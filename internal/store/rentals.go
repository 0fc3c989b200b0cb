package store

import (
	"time"

	"github.com/erazemk/popcornhub/internal/model"
)

// Rental terms.
const (
	DefaultRentalDays  = 3
	PlatformRentalDays = 3
	// MaxRentalDays bounds both listing terms and requested durations.
	MaxRentalDays = 365
)

// RentRequest selects the source of a rental. A nil OwnerID rents from the
// platform; DurationDays < 1 means no explicit duration.
type RentRequest struct {
	OwnerID      *int64
	Format       model.Format
	DurationDays int
}

// Rent creates a rental of filmID for renterID at now.
func Rent(doc *model.Document, renterID, filmID int64, req RentRequest, now time.Time) (*model.Rental, error) {
	if filmID <= 0 {
		return nil, invalid("invalid film id %d", filmID)
	}
	if active := FindActiveRental(doc, renterID, filmID, now); active != nil {
		return nil, &AlreadyRentedError{FilmID: filmID, ExpiresAt: active.ExpiresAt.Time}
	}

	rental := model.Rental{
		UserID:   renterID,
		FilmID:   filmID,
		RentedAt: model.NewTimestamp(now),
	}

	days := PlatformRentalDays
	rental.PriceCents = int64(model.DefaultRentalPrice)

	if req.OwnerID != nil {
		ownerID := *req.OwnerID
		if ownerID == renterID {
			return nil, invalid("you cannot rent your own copy")
		}
		listing := FindOwnership(doc, ownerID, filmID)
		if listing == nil || !listing.IsPublic {
			return nil, &NotAvailableError{OwnerID: ownerID, FilmID: filmID}
		}
		if !req.Format.Valid() {
			return nil, invalid("choose a format to rent")
		}
		if !listing.Has(req.Format) {
			return nil, &FormatUnavailableError{Format: req.Format}
		}

		rental.OwnerID = &ownerID
		rental.Format = req.Format
		rental.PriceCents = int64(listingPrice(listing, req.Format))
		days = rentalDays(listing.MaxDaysFor(req.Format), req.DurationDays)
	}

	rental.ExpiresAt = model.NewTimestamp(now.UTC().AddDate(0, 0, days))
	rental.ID = nextRentalID(doc)
	doc.Rentals = append(doc.Rentals, rental)
	return &doc.Rentals[len(doc.Rentals)-1], nil
}

// listingPrice resolves the chosen format's price, then the other format's,
// then the default.
func listingPrice(listing *model.Ownership, f model.Format) model.Price {
	if p := listing.PriceFor(f); p != nil {
		return *p
	}
	if p := listing.PriceFor(f.Other()); p != nil {
		return *p
	}
	return model.DefaultRentalPrice
}

func rentalDays(maxDays *int, requested int) int {
	days := requested
	if days < 1 {
		days = DefaultRentalDays
		if maxDays != nil {
			days = *maxDays
		}
	}
	if maxDays != nil && days > *maxDays {
		days = *maxDays
	}
	return min(max(days, 1), MaxRentalDays)
}

// ReturnRental ends the renter's rental early by moving its expiry to now.
// Returning an already expired rental rewrites the expiry again.
func ReturnRental(doc *model.Document, renterID, rentalID int64, now time.Time) (*model.Rental, error) {
	for i := range doc.Rentals {
		r := &doc.Rentals[i]
		if r.ID == rentalID && r.UserID == renterID {
			r.ExpiresAt = model.NewTimestamp(now)
			return r, nil
		}
	}
	return nil, &NotFoundError{What: "rental", ID: rentalID}
}

// IsActive reports whether the rental is still running at now.
func IsActive(r *model.Rental, now time.Time) bool {
	return r.ActiveAt(now)
}

// FindActiveRental returns the user's running rental of a film, or nil.
func FindActiveRental(doc *model.Document, userID, filmID int64, now time.Time) *model.Rental {
	for i := range doc.Rentals {
		r := &doc.Rentals[i]
		if r.UserID == userID && r.FilmID == filmID && IsActive(r, now) {
			return r
		}
	}
	return nil
}

// ListActiveForUser returns the user's running rentals in insertion order.
func ListActiveForUser(doc *model.Document, userID int64, now time.Time) []model.Rental {
	var out []model.Rental
	for _, r := range doc.Rentals {
		if r.UserID == userID && IsActive(&r, now) {
			out = append(out, r)
		}
	}
	return out
}

// ListRentalsForUser returns every rental the user ever made, newest first.
func ListRentalsForUser(doc *model.Document, userID int64) []model.Rental {
	var out []model.Rental
	for i := len(doc.Rentals) - 1; i >= 0; i-- {
		if doc.Rentals[i].UserID == userID {
			out = append(out, doc.Rentals[i])
		}
	}
	return out
}

func nextRentalID(doc *model.Document) int64 {
	maxID := doc.MaxQuarantinedID(model.CollectionRentals)
	for _, r := range doc.Rentals {
		maxID = max(maxID, r.ID)
	}
	return maxID + 1
}
