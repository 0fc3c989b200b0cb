package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/popcornhub/internal/docstore"
	"github.com/erazemk/popcornhub/internal/events"
	"github.com/erazemk/popcornhub/internal/films"
	"github.com/erazemk/popcornhub/internal/ratelimit"
)

// Deps are the collaborators shared by the API handlers.
type Deps struct {
	DB        *sql.DB
	Docs      *docstore.Manager
	Films     *films.Service
	Events    events.Publisher
	Limiter   ratelimit.Limiter
	JWTSecret string
	Now       func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d *Deps) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Deps: d}
	filmsHandler := &FilmsHandler{Deps: d}
	rentalsHandler := &RentalsHandler{Deps: d}
	libraryHandler := &LibraryHandler{Deps: d}
	adminHandler := &AdminHandler{Deps: d}

	authMW := AuthMiddleware(d.JWTSecret, d.DB)
	authed := func(h http.HandlerFunc) http.Handler { return authMW(h) }
	admin := func(h http.HandlerFunc) http.Handler { return authMW(RequireAdmin(h)) }

	// Public: login and signup, throttled per client.
	mux.Handle("POST /api/auth/login", ratelimit.Middleware(d.Limiter, "login", http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /api/auth/signup", ratelimit.Middleware(d.Limiter, "signup", http.HandlerFunc(authHandler.Signup)))

	mux.Handle("POST /api/auth/logout", authed(authHandler.Logout))
	mux.Handle("GET /api/me", authed(authHandler.Me))

	// Browsing and film detail.
	mux.Handle("GET /api/films", authed(filmsHandler.Browse))
	mux.Handle("GET /api/genres", authed(filmsHandler.Genres))
	mux.Handle("GET /api/films/{id}", authed(filmsHandler.Get))
	mux.Handle("GET /api/films/{id}/availability", authed(filmsHandler.Availability))
	mux.Handle("GET /api/films/{id}/reviews", authed(filmsHandler.Reviews))
	mux.Handle("PUT /api/films/{id}/review", authed(filmsHandler.Review))
	mux.Handle("POST /api/films/{id}/favorite", authed(filmsHandler.ToggleFavorite))
	mux.Handle("GET /api/favorites", authed(filmsHandler.Favorites))
	mux.Handle("GET /api/actors", authed(filmsHandler.Actor))

	// Rentals.
	mux.Handle("POST /api/films/{id}/rent", authed(rentalsHandler.Rent))
	mux.Handle("GET /api/films/{id}/watch", authed(rentalsHandler.Watch))
	mux.Handle("GET /api/rentals", authed(rentalsHandler.List))
	mux.Handle("POST /api/rentals/{id}/return", authed(rentalsHandler.Return))

	// The user's library: owned copies and legacy pins.
	mux.Handle("GET /api/library", authed(libraryHandler.List))
	mux.Handle("PUT /api/library/{id}", authed(libraryHandler.Upsert))
	mux.Handle("DELETE /api/library/{id}", authed(libraryHandler.Delete))
	mux.Handle("POST /api/library/{id}/visibility", authed(libraryHandler.ToggleVisibility))
	mux.Handle("POST /api/library/{id}/pin", authed(libraryHandler.Pin))
	mux.Handle("DELETE /api/library/{id}/pin", authed(libraryHandler.Unpin))

	// Catalog administration.
	mux.Handle("POST /api/admin/catalog", admin(adminHandler.AddToCatalog))
	mux.Handle("PUT /api/admin/films/{id}", admin(adminHandler.SetOverride))
	mux.Handle("DELETE /api/admin/films/{id}", admin(adminHandler.DeleteFilm))
	mux.Handle("PUT /api/admin/films/{id}/poster", admin(adminHandler.UploadPoster))

	return mux
}
