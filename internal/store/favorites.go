package store

import (
	"slices"

	"github.com/erazemk/popcornhub/internal/model"
)

// ToggleFavorite adds or removes a film from the user's favorites and
// returns whether it is now a favorite.
func ToggleFavorite(doc *model.Document, userID, filmID int64) bool {
	key := model.UserKey(userID)
	ids := doc.Favorites[key]
	if i := slices.Index(ids, filmID); i >= 0 {
		doc.Favorites[key] = slices.Delete(ids, i, i+1)
		return false
	}
	doc.Favorites[key] = append(ids, filmID)
	return true
}

// FavoriteFilmIDs returns the user's favorite films.
func FavoriteFilmIDs(doc *model.Document, userID int64) []int64 {
	return doc.Favorites[model.UserKey(userID)]
}

// IsFavorite reports whether the film is among the user's favorites.
func IsFavorite(doc *model.Document, userID, filmID int64) bool {
	return slices.Contains(FavoriteFilmIDs(doc, userID), filmID)
}
