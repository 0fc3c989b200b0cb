package store

import (
	"slices"

	"github.com/erazemk/popcornhub/internal/model"
)

// LibraryFilmIDs returns the user's legacy library list.
func LibraryFilmIDs(doc *model.Document, userID int64) []int64 {
	return doc.Library[model.UserKey(userID)]
}

// AddToLibrary pins a film to the user's legacy library. It reports false if
// the film was already there.
func AddToLibrary(doc *model.Document, userID, filmID int64) bool {
	key := model.UserKey(userID)
	if slices.Contains(doc.Library[key], filmID) {
		return false
	}
	doc.Library[key] = append(doc.Library[key], filmID)
	return true
}

// RemoveFromLibrary unpins a film from the user's legacy library.
func RemoveFromLibrary(doc *model.Document, userID, filmID int64) bool {
	key := model.UserKey(userID)
	ids := doc.Library[key]
	i := slices.Index(ids, filmID)
	if i < 0 {
		return false
	}
	doc.Library[key] = slices.Delete(ids, i, i+1)
	return true
}

// InLibrary reports whether the user owns the film through either source.
func InLibrary(doc *model.Document, userID, filmID int64) bool {
	return FindOwnership(doc, userID, filmID) != nil ||
		slices.Contains(LibraryFilmIDs(doc, userID), filmID)
}

// MergeLibrary returns the user's ownership records followed by a private,
// format-less record for every legacy library film not already owned. The
// document is not modified.
func MergeLibrary(doc *model.Document, userID int64) []model.Ownership {
	var out []model.Ownership
	owned := map[int64]bool{}
	for _, o := range doc.Ownerships {
		if o.UserID == userID {
			out = append(out, o)
			owned[o.FilmID] = true
		}
	}

	for _, filmID := range LibraryFilmIDs(doc, userID) {
		if owned[filmID] {
			continue
		}
		owned[filmID] = true
		out = append(out, model.Ownership{
			UserID: userID,
			FilmID: filmID,
			Legacy: true,
		})
	}
	return out
}
