package store

import (
	"testing"
	"time"

	"github.com/erazemk/popcornhub/internal/model"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDocument(t *testing.T) *model.Document {
	t.Helper()
	doc := model.NewDocument()
	for _, name := range []string{"alice", "bob", "carol"} {
		if _, err := CreateUser(doc, name, "", "hash", false, testNow); err != nil {
			t.Fatalf("CreateUser(%s): %v", name, err)
		}
	}
	return doc
}

func price(cents int64) *model.Price {
	p := model.Price(cents)
	return &p
}

func days(n int) *int {
	return &n
}

func owner(id int64) *int64 {
	return &id
}

// listFilm stores a public listing for userID.
func listFilm(t *testing.T, doc *model.Document, userID, filmID int64, in OwnershipInput) {
	t.Helper()
	if _, err := UpsertOwnership(doc, userID, filmID, in); err != nil {
		t.Fatalf("UpsertOwnership: %v", err)
	}
	if _, err := ToggleVisibility(doc, userID, filmID); err != nil {
		t.Fatalf("ToggleVisibility: %v", err)
	}
}
