package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/popcornhub/internal/films"
	"github.com/erazemk/popcornhub/internal/model"
	"github.com/erazemk/popcornhub/internal/store"
	"github.com/erazemk/popcornhub/internal/tmdb"
)

// FilmsHandler handles browsing, film detail, reviews and favorites.
type FilmsHandler struct {
	*Deps
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type reviewsResponse struct {
	Aggregate store.Aggregate    `json:"aggregate"`
	Reviews   []films.ReviewView `json:"reviews"`
}

// availabilityFilter reads format, max_price and sort_by from the query string.
func availabilityFilter(r *http.Request) (store.AvailabilityFilter, error) {
	q := r.URL.Query()
	f := store.AvailabilityFilter{
		Format: q.Get("format"),
		SortBy: q.Get("sort_by"),
	}
	if v := q.Get("max_price"); v != "" {
		p, err := model.ParsePrice(v)
		if err != nil {
			return f, &store.ValidationError{Msg: "invalid max_price"}
		}
		f.MaxPrice = p
	}
	return f, nil
}

// Browse handles GET /api/films.
func (h *FilmsHandler) Browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := films.BrowseQuery{Query: strings.TrimSpace(q.Get("q"))}
	query.Page, _ = strconv.Atoi(q.Get("page"))
	query.Year, _ = strconv.Atoi(q.Get("year"))
	query.GenreID, _ = strconv.ParseInt(q.Get("genre"), 10, 64)

	doc, err := h.Docs.Read(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.Films.Browse(r.Context(), doc, query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if page.Films == nil {
		page.Films = []tmdb.Film{}
	}
	jsonResponse(w, http.StatusOK, page)
}

// Genres handles GET /api/genres.
func (h *FilmsHandler) Genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.Films.Provider.Genres(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if genres == nil {
		genres = []tmdb.Genre{}
	}
	jsonResponse(w, http.StatusOK, genres)
}

// Get handles GET /api/films/{id}.
func (h *FilmsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid film id")
		return
	}
	filter, err := availabilityFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	doc, err := h.Docs.Read(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if store.IsDeleted(doc, id) {
		jsonError(w, http.StatusNotFound, "film not found")
		return
	}

	claims := GetClaims(r.Context())
	jsonResponse(w, http.StatusOK, h.Films.Detail(r.Context(), doc, id, claims.UserID, filter, h.now()))
}

// Availability handles GET /api/films/{id}/availability.
func (h *FilmsHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid film id")
		return
	}
	filter, err := availabilityFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	doc, err := h.Docs.Read(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	claims := GetClaims(r.Context())
	jsonResponse(w, http.StatusOK, store.ComposeAvailability(doc, id, claims.UserID, filter))
}

// Reviews handles GET /api/films/{id}/reviews.
func (h *FilmsHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid film id")
		return
	}

	doc, err := h.Docs.Read(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	names := store.Usernames(doc)
	resp := reviewsResponse{
		Aggregate: store.AggregateForFilm(doc, id),
		Reviews:   []films.ReviewView{},
	}
	for _, rev := range store.ListReviewsForFilm(doc, id) {
		resp.Reviews = append(resp.Reviews, films.ReviewView{Review: rev, Username: names[rev.UserID]})
	}
	jsonResponse(w, http.StatusOK, resp)
}

// Review handles PUT /api/films/{id}/review.
func (h *FilmsHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid film id")
		return
	}
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	var saved model.Review
	err := h.Docs.Update(r.Context(), func(doc *model.Document) error {
		saved = *store.UpsertReview(doc, claims.UserID, id, req.Rating, req.Comment, h.now())
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, saved)
}

// ToggleFavorite handles POST /api/films/{id}/favorite.
func (h *FilmsHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid film id")
		return
	}

	claims := GetClaims(r.Context())
	var favorite bool
	err := h.Docs.Update(r.Context(), func(doc *model.Document) error {
		favorite = store.ToggleFavorite(doc, claims.UserID, id)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]bool{"favorite": favorite})
}

// Favorites handles GET /api/favorites.
func (h *FilmsHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Docs.Read(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	claims := GetClaims(r.Context())
	ids := store.FavoriteFilmIDs(doc, claims.UserID)
	byID := h.Films.Films(r.Context(), doc, ids)

	out := make([]*tmdb.Film, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	jsonResponse(w, http.StatusOK, out)
}

// Actor handles GET /api/actors?name=.
func (h *FilmsHandler) Actor(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	doc, err := h.Docs.Read(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	actor, err := h.Films.Actor(r.Context(), doc, name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if actor == nil {
		jsonError(w, http.StatusNotFound, "actor not found")
		return
	}
	jsonResponse(w, http.StatusOK, actor)
}
