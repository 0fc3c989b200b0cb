package store

import (
	"errors"
	"testing"
)

func TestUpsertOwnershipRequiresFormat(t *testing.T) {
	doc := newTestDocument(t)

	_, err := UpsertOwnership(doc, 1, 42, OwnershipInput{BlurayPrice: price(100)})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(doc.Ownerships) != 0 {
		t.Errorf("expected document unchanged, got %d ownerships", len(doc.Ownerships))
	}
}

func TestUpsertOwnershipClearsTermsOfMissingFormat(t *testing.T) {
	doc := newTestDocument(t)

	rec, err := UpsertOwnership(doc, 1, 42, OwnershipInput{
		HasDigital:     true,
		BlurayPrice:    price(999),
		BlurayMaxDays:  days(7),
		DigitalPrice:   price(250),
		DigitalMaxDays: days(5),
	})
	if err != nil {
		t.Fatalf("UpsertOwnership: %v", err)
	}
	if rec.BlurayPrice != nil || rec.BlurayMaxDays != nil {
		t.Error("expected bluray terms to be nil")
	}
	if rec.DigitalPrice == nil || *rec.DigitalPrice != 250 {
		t.Errorf("expected digital price 250, got %v", rec.DigitalPrice)
	}
	if rec.IsPublic {
		t.Error("expected new record to be private")
	}
}

func TestUpsertOwnershipReplacesAndKeepsVisibility(t *testing.T) {
	doc := newTestDocument(t)
	listFilm(t, doc, 1, 42, OwnershipInput{HasBluray: true, BlurayPrice: price(500)})

	rec, err := UpsertOwnership(doc, 1, 42, OwnershipInput{HasDigital: true})
	if err != nil {
		t.Fatalf("UpsertOwnership: %v", err)
	}
	if len(doc.Ownerships) != 1 {
		t.Fatalf("expected 1 ownership, got %d", len(doc.Ownerships))
	}
	if !rec.IsPublic {
		t.Error("expected visibility to survive an update")
	}
	if rec.HasBluray || rec.BlurayPrice != nil {
		t.Error("expected fields to be replaced wholesale")
	}
}

func TestUpsertOwnershipRejectsInvalidTerms(t *testing.T) {
	doc := newTestDocument(t)

	tests := []OwnershipInput{
		{HasBluray: true, BlurayPrice: price(-1)},
		{HasDigital: true, DigitalMaxDays: days(0)},
		{HasDigital: true, DigitalMaxDays: days(MaxRentalDays + 1)},
		{HasBluray: true, BlurayMaxDays: days(1 << 30)},
	}
	for _, in := range tests {
		_, err := UpsertOwnership(doc, 1, 42, in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("expected ValidationError for %+v, got %v", in, err)
		}
	}

	// Terms of an unheld format are ignored, not validated.
	if _, err := UpsertOwnership(doc, 1, 42, OwnershipInput{HasDigital: true, BlurayPrice: price(-1)}); err != nil {
		t.Errorf("expected unheld format terms to be ignored, got %v", err)
	}
}

func TestToggleVisibility(t *testing.T) {
	doc := newTestDocument(t)
	UpsertOwnership(doc, 1, 42, OwnershipInput{HasBluray: true})

	visible, err := ToggleVisibility(doc, 1, 42)
	if err != nil || !visible {
		t.Fatalf("expected visible=true, got %v (%v)", visible, err)
	}
	visible, err = ToggleVisibility(doc, 1, 42)
	if err != nil || visible {
		t.Fatalf("expected visible=false, got %v (%v)", visible, err)
	}
}

func TestToggleVisibilityLegacyOnly(t *testing.T) {
	doc := newTestDocument(t)
	AddToLibrary(doc, 1, 42)

	_, err := ToggleVisibility(doc, 1, 42)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(doc.Ownerships) != 0 {
		t.Error("expected no ownership to be created")
	}
}

func TestDeleteOwnership(t *testing.T) {
	doc := newTestDocument(t)
	UpsertOwnership(doc, 1, 42, OwnershipInput{HasBluray: true})
	UpsertOwnership(doc, 2, 42, OwnershipInput{HasBluray: true})
	AddToLibrary(doc, 1, 42)
	AddToLibrary(doc, 1, 7)

	if !DeleteOwnership(doc, 1, 42) {
		t.Fatal("expected removal")
	}
	if FindOwnership(doc, 1, 42) != nil {
		t.Error("expected ownership to be gone")
	}
	if FindOwnership(doc, 2, 42) == nil {
		t.Error("expected other user's ownership to remain")
	}
	if ids := LibraryFilmIDs(doc, 1); len(ids) != 1 || ids[0] != 7 {
		t.Errorf("expected library [7], got %v", ids)
	}

	if DeleteOwnership(doc, 1, 42) {
		t.Error("expected second delete to report nothing removed")
	}
	if !DeleteOwnership(doc, 1, 7) {
		t.Error("expected legacy-only delete to report removal")
	}
}

func TestMergeLibrary(t *testing.T) {
	doc := newTestDocument(t)
	UpsertOwnership(doc, 1, 42, OwnershipInput{HasBluray: true})
	AddToLibrary(doc, 1, 42)
	AddToLibrary(doc, 1, 7)
	AddToLibrary(doc, 2, 8)

	merged := MergeLibrary(doc, 1)
	if len(merged) != 2 {
		t.Fatalf("expected 2 records, got %d", len(merged))
	}
	if merged[0].FilmID != 42 || merged[0].Legacy {
		t.Errorf("expected ownership record first, got %+v", merged[0])
	}
	legacy := merged[1]
	if legacy.FilmID != 7 || !legacy.Legacy || legacy.HasBluray || legacy.HasDigital || legacy.IsPublic {
		t.Errorf("unexpected legacy record %+v", legacy)
	}
	if len(doc.Ownerships) != 1 {
		t.Error("expected merge to leave the document untouched")
	}
}

func TestAddToLibraryIgnoresDuplicates(t *testing.T) {
	doc := newTestDocument(t)
	if !AddToLibrary(doc, 1, 42) {
		t.Fatal("expected first add to succeed")
	}
	if AddToLibrary(doc, 1, 42) {
		t.Error("expected duplicate add to report false")
	}
	if !InLibrary(doc, 1, 42) {
		t.Error("expected film in library")
	}
	if !RemoveFromLibrary(doc, 1, 42) || InLibrary(doc, 1, 42) {
		t.Error("expected film to be removed")
	}
}
