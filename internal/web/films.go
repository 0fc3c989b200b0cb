package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/popcornhub/internal/films"
	"github.com/erazemk/popcornhub/internal/model"
	"github.com/erazemk/popcornhub/internal/store"
	"github.com/erazemk/popcornhub/internal/tmdb"
)

func filmID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func filmURL(id int64) string {
	return fmt.Sprintf("/films/%d", id)
}

// Index handles GET /. It shows the catalog and a page of popular, searched
// or genre films.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := films.BrowseQuery{Query: strings.TrimSpace(q.Get("q"))}
	query.Page, _ = strconv.Atoi(q.Get("page"))
	query.Year, _ = strconv.Atoi(q.Get("year"))
	query.GenreID, _ = strconv.ParseInt(q.Get("genre"), 10, 64)

	doc, err := s.Docs.Read(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}

	pd := s.page(w, r, "Films")
	page, err := s.Films.Browse(r.Context(), doc, query)
	if err != nil {
		slog.Warn("browsing failed", "error", err)
		pd.Error = errorMessage(err)
		page = &tmdb.Page{Page: 1}
	}

	genres, err := s.Films.Provider.Genres(r.Context())
	if err != nil {
		slog.Warn("genre list unavailable", "error", err)
	}

	var catalog []*tmdb.Film
	if query.Query == "" && query.GenreID == 0 && page.Page == 1 {
		catalog = s.Films.Catalog(r.Context(), doc)
	}

	s.Templates.Render(w, "index.html", &struct {
		PageData
		Query    films.BrowseQuery
		Page     *tmdb.Page
		Genres   []tmdb.Genre
		Catalog  []*tmdb.Film
		PrevPage int
		NextPage int
	}{
		PageData: pd,
		Query:    query,
		Page:     page,
		Genres:   genres,
		Catalog:  catalog,
		PrevPage: max(page.Page-1, 0),
		NextPage: nextPage(page),
	})
}

func nextPage(p *tmdb.Page) int {
	if p.Page >= p.TotalPages || p.Page >= films.MaxPage {
		return 0
	}
	return p.Page + 1
}

// FilmPage handles GET /films/{id}.
func (s *Server) FilmPage(w http.ResponseWriter, r *http.Request) {
	id, ok := filmID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	filter := store.AvailabilityFilter{Format: q.Get("format"), SortBy: q.Get("sort_by")}
	if p, err := model.ParsePrice(q.Get("max_price")); err == nil {
		filter.MaxPrice = p
	}

	doc, err := s.Docs.Read(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	if store.IsDeleted(doc, id) {
		http.NotFound(w, r)
		return
	}

	claims := GetWebClaims(r.Context())
	detail := s.Films.Detail(r.Context(), doc, id, claims.UserID, filter, s.now())

	s.Templates.Render(w, "film.html", &struct {
		PageData
		*films.Detail
		Filter   store.AvailabilityFilter
		MaxPrice string
	}{
		PageData: s.page(w, r, detail.Film.Title),
		Detail:   detail,
		Filter:   filter,
		MaxPrice: q.Get("max_price"),
	})
}

// ActorPage handles GET /actors?name=.
func (s *Server) ActorPage(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))

	doc, err := s.Docs.Read(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}

	pd := s.page(w, r, name)
	var actor *films.Actor
	if name != "" {
		actor, err = s.Films.Actor(r.Context(), doc, name)
		if err != nil {
			pd.Error = errorMessage(err)
		} else if actor == nil {
			pd.Error = "No actor found with that name."
		}
	}

	s.Templates.Render(w, "actor.html", &struct {
		PageData
		Name  string
		Actor *films.Actor
	}{PageData: pd, Name: name, Actor: actor})
}

// ToggleFavorite handles POST /films/{id}/favorite.
func (s *Server) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := filmID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	claims := GetWebClaims(r.Context())
	var favorite bool
	err := s.Docs.Update(r.Context(), func(doc *model.Document) error {
		favorite = store.ToggleFavorite(doc, claims.UserID, id)
		return nil
	})

	msg := "Removed from your favorites."
	if favorite {
		msg = "Added to your favorites."
	}
	redirect(w, r, backTo(r, filmURL(id)), err, msg)
}

// PinSubmit handles POST /films/{id}/library. It adds or removes the film
// from the user's library list.
func (s *Server) PinSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := filmID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	claims := GetWebClaims(r.Context())
	remove := r.FormValue("action") == "remove"
	err := s.Docs.Update(r.Context(), func(doc *model.Document) error {
		if remove {
			if !store.DeleteOwnership(doc, claims.UserID, id) {
				return &store.NotFoundError{What: "film in your library", ID: id}
			}
			return nil
		}
		store.AddToLibrary(doc, claims.UserID, id)
		return nil
	})

	msg := "Added to your library."
	if remove {
		msg = "Removed from your library."
	}
	redirect(w, r, backTo(r, filmURL(id)), err, msg)
}

// ReviewSubmit handles POST /films/{id}/review.
func (s *Server) ReviewSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := filmID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	claims := GetWebClaims(r.Context())
	rating := store.ParseRating(r.FormValue("rating"))
	err := s.Docs.Update(r.Context(), func(doc *model.Document) error {
		store.UpsertReview(doc, claims.UserID, id, rating, r.FormValue("comment"), s.now())
		return nil
	})
	redirect(w, r, filmURL(id), err, "Your review has been saved.")
}

// FavoritesPage handles GET /favorites.
func (s *Server) FavoritesPage(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Docs.Read(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}

	claims := GetWebClaims(r.Context())
	ids := store.FavoriteFilmIDs(doc, claims.UserID)
	byID := s.Films.Films(r.Context(), doc, ids)
	list := make([]*tmdb.Film, 0, len(ids))
	for _, id := range ids {
		list = append(list, byID[id])
	}

	s.Templates.Render(w, "favorites.html", &struct {
		PageData
		Films []*tmdb.Film
	}{PageData: s.page(w, r, "Favorites"), Films: list})
}

// backTo returns the form's "next" field when it is a local path.
func backTo(r *http.Request, fallback string) string {
	next := r.FormValue("next")
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return fallback
}
