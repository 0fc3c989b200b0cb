package store

import (
	"slices"
	"strings"

	"github.com/erazemk/popcornhub/internal/model"
)

// AddToCatalog adds a film to the curated catalog and restores it if it had
// been deleted.
func AddToCatalog(doc *model.Document, filmID int64) error {
	if filmID <= 0 {
		return invalid("invalid film id %d", filmID)
	}
	if slices.Contains(doc.Catalog, filmID) {
		return invalid("film %d is already in the catalog", filmID)
	}
	doc.Catalog = append(doc.Catalog, filmID)
	if i := slices.Index(doc.DeletedFilms, filmID); i >= 0 {
		doc.DeletedFilms = slices.Delete(doc.DeletedFilms, i, i+1)
	}
	return nil
}

// DeleteFilm removes a film from the catalog and hides it from browsing.
func DeleteFilm(doc *model.Document, filmID int64) {
	if i := slices.Index(doc.Catalog, filmID); i >= 0 {
		doc.Catalog = slices.Delete(doc.Catalog, i, i+1)
	}
	if !slices.Contains(doc.DeletedFilms, filmID) {
		doc.DeletedFilms = append(doc.DeletedFilms, filmID)
	}
}

// IsDeleted reports whether an admin removed the film.
func IsDeleted(doc *model.Document, filmID int64) bool {
	return slices.Contains(doc.DeletedFilms, filmID)
}

// InCatalog reports whether the film is in the curated catalog.
func InCatalog(doc *model.Document, filmID int64) bool {
	return slices.Contains(doc.Catalog, filmID)
}

// GetOverride returns the admin metadata override for a film.
func GetOverride(doc *model.Document, filmID int64) (model.FilmOverride, bool) {
	o, ok := doc.FilmOverrides[model.FilmKey(filmID)]
	return o, ok
}

// SetOverride stores an admin metadata override. Genres are trimmed and
// empty entries dropped. An existing poster flag is kept.
func SetOverride(doc *model.Document, filmID int64, o model.FilmOverride) model.FilmOverride {
	key := model.FilmKey(filmID)
	o.Title = strings.TrimSpace(o.Title)
	o.Synopsis = strings.TrimSpace(o.Synopsis)
	o.Director = strings.TrimSpace(o.Director)

	var genres []string
	for _, g := range o.Genres {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	o.Genres = genres

	if prev, ok := doc.FilmOverrides[key]; ok && prev.HasPoster {
		o.HasPoster = true
	}
	doc.FilmOverrides[key] = o
	return o
}

// MarkPoster records that an uploaded poster replaces the provider image.
func MarkPoster(doc *model.Document, filmID int64) {
	key := model.FilmKey(filmID)
	o := doc.FilmOverrides[key]
	o.HasPoster = true
	doc.FilmOverrides[key] = o
}
