package web

import (
	"net/http"

	"github.com/erazemk/popcornhub/internal/ratelimit"
	webembed "github.com/erazemk/popcornhub/web"
)

// NewRouter creates the page router. Templates are loaded when s has none.
func NewRouter(s *Server) (http.Handler, error) {
	if s.Templates == nil {
		templates, err := LoadTemplates()
		if err != nil {
			return nil, err
		}
		s.Templates = templates
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(s.JWTSecret, s.DB)
	authed := func(h http.HandlerFunc) http.Handler { return cookieAuth(h) }
	admin := func(h http.HandlerFunc) http.Handler { return cookieAuth(requireAdmin(h)) }

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))
	mux.HandleFunc("GET /posters/{id}", s.PosterGet)

	// Public routes.
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.Handle("POST /login", ratelimit.Middleware(s.Limiter, "login", http.HandlerFunc(s.LoginSubmit)))
	mux.HandleFunc("GET /signup", s.SignupPage)
	mux.Handle("POST /signup", ratelimit.Middleware(s.Limiter, "signup", http.HandlerFunc(s.SignupSubmit)))

	// Authenticated routes.
	mux.Handle("POST /logout", authed(s.Logout))
	mux.Handle("GET /{$}", authed(s.Index))
	mux.Handle("GET /actors", authed(s.ActorPage))
	mux.Handle("GET /favorites", authed(s.FavoritesPage))

	mux.Handle("GET /films/{id}", authed(s.FilmPage))
	mux.Handle("POST /films/{id}/favorite", authed(s.ToggleFavorite))
	mux.Handle("POST /films/{id}/library", authed(s.PinSubmit))
	mux.Handle("POST /films/{id}/review", authed(s.ReviewSubmit))
	mux.Handle("POST /films/{id}/rent", authed(s.RentSubmit))
	mux.Handle("GET /films/{id}/watch", authed(s.WatchPage))

	mux.Handle("GET /rentals", authed(s.RentalsPage))
	mux.Handle("POST /rentals/{id}/return", authed(s.ReturnSubmit))

	mux.Handle("GET /profile", authed(s.ProfilePage))
	mux.Handle("POST /profile/films/{id}", authed(s.OwnershipSubmit))
	mux.Handle("POST /profile/films/{id}/visibility", authed(s.VisibilitySubmit))
	mux.Handle("POST /profile/films/{id}/delete", authed(s.DeleteOwnershipSubmit))

	// Admin routes.
	mux.Handle("POST /admin/catalog", admin(s.CatalogSubmit))
	mux.Handle("GET /admin/films/{id}", admin(s.AdminFilmPage))
	mux.Handle("POST /admin/films/{id}", admin(s.AdminFilmSubmit))
	mux.Handle("POST /admin/films/{id}/delete", admin(s.AdminDeleteSubmit))

	return mux, nil
}
