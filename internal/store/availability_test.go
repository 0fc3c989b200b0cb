package store

import (
	"testing"

	"github.com/erazemk/popcornhub/internal/model"
)

func rating(v float64) *float64 {
	return &v
}

func ownerIDs(listings []Listing) []int64 {
	ids := []int64{}
	for _, l := range listings {
		ids = append(ids, l.OwnerID)
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// marketDocument lists film 42 by users 1-5:
//
//	1: bluray 5.00
//	2: digital 2.00
//	3: both, no prices
//	4: both, 3.00 / 1.50
//	5: private digital 1.00
func marketDocument(t *testing.T) *model.Document {
	t.Helper()
	doc := newTestDocument(t)
	for _, name := range []string{"dave", "erin"} {
		if _, err := CreateUser(doc, name, "", "hash", false, testNow); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
	}
	listFilm(t, doc, 1, 42, OwnershipInput{HasBluray: true, BlurayPrice: price(500)})
	listFilm(t, doc, 2, 42, OwnershipInput{HasDigital: true, DigitalPrice: price(200)})
	listFilm(t, doc, 3, 42, OwnershipInput{HasBluray: true, HasDigital: true})
	listFilm(t, doc, 4, 42, OwnershipInput{HasBluray: true, HasDigital: true, BlurayPrice: price(300), DigitalPrice: price(150)})
	if _, err := UpsertOwnership(doc, 5, 42, OwnershipInput{HasDigital: true, DigitalPrice: price(100)}); err != nil {
		t.Fatalf("UpsertOwnership: %v", err)
	}
	listFilm(t, doc, 2, 7, OwnershipInput{HasDigital: true})
	return doc
}

func TestComposeAvailabilityDefaults(t *testing.T) {
	doc := marketDocument(t)

	got := ComposeAvailability(doc, 42, 0, AvailabilityFilter{})
	// price_asc: 4 (1.50), 2 (2.00), 1 (5.00), 3 (no price)
	if want := []int64{4, 2, 1, 3}; !equalIDs(ownerIDs(got), want) {
		t.Fatalf("expected %v, got %v", want, ownerIDs(got))
	}
	if got[0].MinPrice == nil || *got[0].MinPrice != 150 {
		t.Errorf("expected min price 150, got %v", got[0].MinPrice)
	}
	if got[3].MinPrice != nil {
		t.Errorf("expected no min price, got %v", got[3].MinPrice)
	}
	if got[0].OwnerName != "dave" {
		t.Errorf("expected owner name dave, got %q", got[0].OwnerName)
	}
}

func TestComposeAvailabilityExcludesRequester(t *testing.T) {
	doc := marketDocument(t)

	for _, l := range ComposeAvailability(doc, 42, 4, AvailabilityFilter{}) {
		if l.OwnerID == 4 {
			t.Fatal("requester's own listing must not appear")
		}
	}
}

func TestComposeAvailabilityFormatFilter(t *testing.T) {
	doc := marketDocument(t)

	tests := []struct {
		format string
		want   []int64
	}{
		{FilterBluray, []int64{4, 1, 3}},
		{FilterDigital, []int64{4, 2, 3}},
		{FilterBoth, []int64{4, 3}},
		{FilterAll, []int64{4, 2, 1, 3}},
		{"", []int64{4, 2, 1, 3}},
		{"vhs", []int64{4, 2, 1, 3}},
	}
	for _, tt := range tests {
		got := ComposeAvailability(doc, 42, 0, AvailabilityFilter{Format: tt.format})
		if !equalIDs(ownerIDs(got), tt.want) {
			t.Errorf("format %q: expected %v, got %v", tt.format, tt.want, ownerIDs(got))
		}
		if tt.format == FilterBoth {
			for _, l := range got {
				if !l.HasBluray || !l.HasDigital {
					t.Errorf("format both returned %+v", l)
				}
			}
		}
	}
}

func TestComposeAvailabilityMaxPrice(t *testing.T) {
	doc := marketDocument(t)

	got := ComposeAvailability(doc, 42, 0, AvailabilityFilter{MaxPrice: price(200)})
	if want := []int64{4, 2}; !equalIDs(ownerIDs(got), want) {
		t.Errorf("expected %v, got %v", want, ownerIDs(got))
	}
}

func TestComposeAvailabilitySortOrders(t *testing.T) {
	doc := marketDocument(t)
	FindOwnership(doc, 1, 42).SellerRating = rating(4.5)
	FindOwnership(doc, 2, 42).SellerRating = rating(3)
	FindOwnership(doc, 3, 42).SellerRating = rating(4.5)

	tests := []struct {
		sortBy string
		want   []int64
	}{
		{SortPriceDesc, []int64{3, 1, 2, 4}},
		{SortRatingDesc, []int64{1, 3, 2, 4}},
		{SortRatingAsc, []int64{4, 2, 1, 3}},
		{"bogus", []int64{4, 2, 1, 3}},
	}
	for _, tt := range tests {
		got := ComposeAvailability(doc, 42, 0, AvailabilityFilter{SortBy: tt.sortBy})
		if !equalIDs(ownerIDs(got), tt.want) {
			t.Errorf("sort %q: expected %v, got %v", tt.sortBy, tt.want, ownerIDs(got))
		}
	}
}

func TestComposeAvailabilitySkipsMissingOwners(t *testing.T) {
	doc := marketDocument(t)
	doc.Users = doc.Users[1:]

	got := ComposeAvailability(doc, 42, 0, AvailabilityFilter{})
	for _, l := range got {
		if l.OwnerID == 1 {
			t.Fatal("expected listing of deleted user to be skipped")
		}
	}
	if len(got) != 3 {
		t.Errorf("expected 3 listings, got %d", len(got))
	}
}

func TestComposeAvailabilityDoesNotMutate(t *testing.T) {
	doc := marketDocument(t)
	before := len(doc.Ownerships)

	ComposeAvailability(doc, 42, 2, AvailabilityFilter{Format: FilterBoth, SortBy: SortPriceDesc})
	if len(doc.Ownerships) != before || doc.Ownerships[0].UserID != 1 {
		t.Error("expected ownerships unchanged")
	}
}
