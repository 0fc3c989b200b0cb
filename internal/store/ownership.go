package store

import (
	"github.com/erazemk/popcornhub/internal/model"
)

// OwnershipInput carries the lending terms for UpsertOwnership. Fields for a
// format that is not held are ignored.
type OwnershipInput struct {
	HasBluray      bool
	HasDigital     bool
	BlurayPrice    *model.Price
	DigitalPrice   *model.Price
	BlurayMaxDays  *int
	DigitalMaxDays *int
}

// FindOwnership returns the user's ownership record for a film, or nil.
func FindOwnership(doc *model.Document, userID, filmID int64) *model.Ownership {
	for i := range doc.Ownerships {
		o := &doc.Ownerships[i]
		if o.UserID == userID && o.FilmID == filmID {
			return o
		}
	}
	return nil
}

// ListOwnershipsForFilm returns every ownership record for a film.
func ListOwnershipsForFilm(doc *model.Document, filmID int64) []model.Ownership {
	var out []model.Ownership
	for _, o := range doc.Ownerships {
		if o.FilmID == filmID {
			out = append(out, o)
		}
	}
	return out
}

// UpsertOwnership creates or replaces the user's terms for a film. The
// visibility flag of an existing record is kept; new records start private.
func UpsertOwnership(doc *model.Document, userID, filmID int64, in OwnershipInput) (*model.Ownership, error) {
	if !in.HasBluray && !in.HasDigital {
		return nil, invalid("choose at least one format (Blu-ray or digital)")
	}
	if filmID <= 0 {
		return nil, invalid("invalid film id %d", filmID)
	}

	rec := model.Ownership{
		UserID:     userID,
		FilmID:     filmID,
		HasBluray:  in.HasBluray,
		HasDigital: in.HasDigital,
	}
	if in.HasBluray {
		if err := checkTerms(model.FormatBluray, in.BlurayPrice, in.BlurayMaxDays); err != nil {
			return nil, err
		}
		rec.BlurayPrice = copyPtr(in.BlurayPrice)
		rec.BlurayMaxDays = copyPtr(in.BlurayMaxDays)
	}
	if in.HasDigital {
		if err := checkTerms(model.FormatDigital, in.DigitalPrice, in.DigitalMaxDays); err != nil {
			return nil, err
		}
		rec.DigitalPrice = copyPtr(in.DigitalPrice)
		rec.DigitalMaxDays = copyPtr(in.DigitalMaxDays)
	}

	if existing := FindOwnership(doc, userID, filmID); existing != nil {
		rec.IsPublic = existing.IsPublic
		rec.SellerRating = existing.SellerRating
		*existing = rec
		return existing, nil
	}

	doc.Ownerships = append(doc.Ownerships, rec)
	return &doc.Ownerships[len(doc.Ownerships)-1], nil
}

// ToggleVisibility flips whether the user's record is listed publicly and
// returns the new value. Films only present in the legacy library have no
// record to toggle.
func ToggleVisibility(doc *model.Document, userID, filmID int64) (bool, error) {
	rec := FindOwnership(doc, userID, filmID)
	if rec == nil {
		return false, &NotFoundError{What: "ownership of film", ID: filmID}
	}
	rec.IsPublic = !rec.IsPublic
	return rec.IsPublic, nil
}

// DeleteOwnership removes the film from the user's ownership records and
// legacy library. It reports whether anything was removed.
func DeleteOwnership(doc *model.Document, userID, filmID int64) bool {
	removed := false

	kept := doc.Ownerships[:0]
	for _, o := range doc.Ownerships {
		if o.UserID == userID && o.FilmID == filmID {
			removed = true
			continue
		}
		kept = append(kept, o)
	}
	doc.Ownerships = kept

	if RemoveFromLibrary(doc, userID, filmID) {
		removed = true
	}
	return removed
}

func checkTerms(f model.Format, price *model.Price, maxDays *int) error {
	if price != nil && *price < 0 {
		return invalid("%s price cannot be negative", f)
	}
	if maxDays != nil && *maxDays < 1 {
		return invalid("%s maximum duration must be at least one day", f)
	}
	if maxDays != nil && *maxDays > MaxRentalDays {
		return invalid("%s maximum duration cannot exceed %d days", f, MaxRentalDays)
	}
	return nil
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
