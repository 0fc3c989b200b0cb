// Package films resolves film display data: provider metadata with admin
// overrides applied, deleted films hidden, and the per-user detail view.
package films

import (
	"context"
	"log/slog"
	"slices"
	"strconv"

	"github.com/erazemk/popcornhub/internal/model"
	"github.com/erazemk/popcornhub/internal/store"
	"github.com/erazemk/popcornhub/internal/tmdb"
)

// MaxPage caps browsing at 50 pages of 20 films.
const MaxPage = 50

// Provider is the metadata source. *tmdb.Client implements it.
type Provider interface {
	Film(ctx context.Context, id int64) (*tmdb.Film, error)
	Popular(ctx context.Context, page int) (*tmdb.Page, error)
	Search(ctx context.Context, query string, year, page int) (*tmdb.Page, error)
	Discover(ctx context.Context, genreID int64, page int) (*tmdb.Page, error)
	Genres(ctx context.Context) ([]tmdb.Genre, error)
	SearchPerson(ctx context.Context, name string) (*tmdb.Person, error)
	PersonFilms(ctx context.Context, personID int64) ([]tmdb.Film, error)
	TrailerKey(ctx context.Context, title string, year int) (string, error)
}

// Service combines the provider with the document.
type Service struct {
	Provider    Provider
	Concurrency int
}

// New returns a Service fetching at most concurrency films at a time.
func New(p Provider, concurrency int) *Service {
	return &Service{Provider: p, Concurrency: max(concurrency, 1)}
}

// PosterPath is where an uploaded poster is served.
func PosterPath(filmID int64) string {
	return "/posters/" + strconv.FormatInt(filmID, 10)
}

// ApplyOverride replaces provider fields with the non-empty override fields.
func ApplyOverride(f *tmdb.Film, o model.FilmOverride) {
	if o.Title != "" {
		f.Title = o.Title
	}
	if o.Synopsis != "" {
		f.Synopsis = o.Synopsis
	}
	if o.Director != "" {
		f.Director = o.Director
	}
	if len(o.Genres) > 0 {
		f.Genres = slices.Clone(o.Genres)
	}
	if o.HasPoster {
		f.PosterURL = PosterPath(f.ID)
	}
}

func (s *Service) override(doc *model.Document, f *tmdb.Film) *tmdb.Film {
	if o, ok := store.GetOverride(doc, f.ID); ok {
		ApplyOverride(f, o)
	}
	return f
}

// Film returns the film's display data. It never fails: an unreachable
// provider yields a placeholder.
func (s *Service) Film(ctx context.Context, doc *model.Document, id int64) *tmdb.Film {
	f, err := s.Provider.Film(ctx, id)
	if err != nil {
		slog.Warn("film metadata unavailable", "film", id, "error", err)
		f = tmdb.Placeholder(id)
	}
	return s.override(doc, f)
}

// Films resolves several films concurrently.
func (s *Service) Films(ctx context.Context, doc *model.Document, ids []int64) map[int64]*tmdb.Film {
	out := tmdb.FetchFilms(ctx, s.Provider, ids, s.Concurrency)
	for _, f := range out {
		s.override(doc, f)
	}
	return out
}

// BrowseQuery selects a page of films. A query searches, a genre discovers,
// otherwise the popular list is shown.
type BrowseQuery struct {
	Query   string
	Year    int
	GenreID int64
	Page    int
}

// Browse returns one page of films without the deleted ones.
func (s *Service) Browse(ctx context.Context, doc *model.Document, q BrowseQuery) (*tmdb.Page, error) {
	page := min(max(q.Page, 1), MaxPage)

	var (
		p   *tmdb.Page
		err error
	)
	switch {
	case q.Query != "":
		p, err = s.Provider.Search(ctx, q.Query, q.Year, page)
	case q.GenreID > 0:
		p, err = s.Provider.Discover(ctx, q.GenreID, page)
	default:
		p, err = s.Provider.Popular(ctx, page)
	}
	if err != nil {
		return nil, err
	}

	p.Page = page
	p.TotalPages = min(p.TotalPages, MaxPage)
	p.Films = slices.DeleteFunc(p.Films, func(f tmdb.Film) bool {
		return store.IsDeleted(doc, f.ID)
	})
	for i := range p.Films {
		s.override(doc, &p.Films[i])
	}
	return p, nil
}

// Catalog returns the curated catalog in catalog order.
func (s *Service) Catalog(ctx context.Context, doc *model.Document) []*tmdb.Film {
	byID := s.Films(ctx, doc, doc.Catalog)
	out := make([]*tmdb.Film, 0, len(doc.Catalog))
	for _, id := range doc.Catalog {
		out = append(out, byID[id])
	}
	return out
}

// Actor is a person with the films they appeared in.
type Actor struct {
	Person *tmdb.Person `json:"person"`
	Films  []tmdb.Film  `json:"films"`
}

// DefaultProfileImage is shown for people without a provider photo.
const DefaultProfileImage = "/static/default-actor.svg"

// Actor looks a person up by name. It returns nil when nobody matches.
func (s *Service) Actor(ctx context.Context, doc *model.Document, name string) (*Actor, error) {
	p, err := s.Provider.SearchPerson(ctx, name)
	if err != nil || p == nil {
		return nil, err
	}
	if p.ProfileURL == "" {
		p.ProfileURL = DefaultProfileImage
	}

	credits, err := s.Provider.PersonFilms(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	credits = slices.DeleteFunc(credits, func(f tmdb.Film) bool {
		return store.IsDeleted(doc, f.ID)
	})
	for i := range credits {
		s.override(doc, &credits[i])
	}
	return &Actor{Person: p, Films: credits}, nil
}
