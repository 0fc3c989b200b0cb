package films

import (
	"context"
	"errors"
	"strings"

	"github.com/erazemk/popcornhub/internal/tmdb"
)

// StaticProvider serves a fixed set of films from memory. Lookups of films
// it does not know fail like an unreachable provider.
type StaticProvider struct {
	Catalog  map[int64]tmdb.Film
	Trailers map[int64]string
	People   map[string]tmdb.Person
	Credits  map[int64][]tmdb.Film
	GenreIDs map[int64][]int64
	Down     bool
}

var errStaticMissing = errors.New("not in static catalog")

func (p *StaticProvider) fail(op string) error {
	return &tmdb.UpstreamUnavailableError{Op: op, Err: errStaticMissing}
}

// Film returns a copy of the stored film.
func (p *StaticProvider) Film(_ context.Context, id int64) (*tmdb.Film, error) {
	f, ok := p.Catalog[id]
	if !ok || p.Down {
		return nil, p.fail("film")
	}
	return &f, nil
}

func (p *StaticProvider) pageOf(match func(tmdb.Film) bool, page int) (*tmdb.Page, error) {
	if p.Down {
		return nil, p.fail("list")
	}
	out := &tmdb.Page{Page: page, TotalPages: 1000}
	for _, f := range p.Catalog {
		if match(f) {
			out.Films = append(out.Films, f)
		}
	}
	out.TotalResults = len(out.Films)
	return out, nil
}

// Popular returns every film.
func (p *StaticProvider) Popular(_ context.Context, page int) (*tmdb.Page, error) {
	return p.pageOf(func(tmdb.Film) bool { return true }, page)
}

// Search matches titles case-insensitively.
func (p *StaticProvider) Search(_ context.Context, query string, year, page int) (*tmdb.Page, error) {
	return p.pageOf(func(f tmdb.Film) bool {
		return strings.Contains(strings.ToLower(f.Title), strings.ToLower(query)) && (year == 0 || f.Year == year)
	}, page)
}

// Discover returns the films listed under genreID.
func (p *StaticProvider) Discover(_ context.Context, genreID int64, page int) (*tmdb.Page, error) {
	ids := map[int64]bool{}
	for _, id := range p.GenreIDs[genreID] {
		ids[id] = true
	}
	return p.pageOf(func(f tmdb.Film) bool { return ids[f.ID] }, page)
}

// Genres returns one genre per GenreIDs key.
func (p *StaticProvider) Genres(context.Context) ([]tmdb.Genre, error) {
	if p.Down {
		return nil, p.fail("genres")
	}
	var out []tmdb.Genre
	for id := range p.GenreIDs {
		out = append(out, tmdb.Genre{ID: id})
	}
	return out, nil
}

// SearchPerson looks name up exactly.
func (p *StaticProvider) SearchPerson(_ context.Context, name string) (*tmdb.Person, error) {
	if p.Down {
		return nil, p.fail("person search")
	}
	person, ok := p.People[name]
	if !ok {
		return nil, nil
	}
	return &person, nil
}

// PersonFilms returns the stored credits.
func (p *StaticProvider) PersonFilms(_ context.Context, personID int64) ([]tmdb.Film, error) {
	if p.Down {
		return nil, p.fail("person credits")
	}
	return append([]tmdb.Film(nil), p.Credits[personID]...), nil
}

// TrailerKey returns the stored trailer of the first film titled title.
func (p *StaticProvider) TrailerKey(_ context.Context, title string, _ int) (string, error) {
	if p.Down {
		return "", p.fail("videos")
	}
	for id, f := range p.Catalog {
		if f.Title == title {
			return p.Trailers[id], nil
		}
	}
	return "", nil
}
