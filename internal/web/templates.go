package web

import (
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/popcornhub/internal/auth"
	"github.com/erazemk/popcornhub/internal/docstore"
	"github.com/erazemk/popcornhub/internal/events"
	"github.com/erazemk/popcornhub/internal/films"
	"github.com/erazemk/popcornhub/internal/model"
	"github.com/erazemk/popcornhub/internal/ratelimit"
	"github.com/erazemk/popcornhub/internal/store"
	webembed "github.com/erazemk/popcornhub/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"euros": func(p any) string {
			switch v := p.(type) {
			case model.Price:
				return v.String() + " €"
			case *model.Price:
				if v == nil {
					return "n/a"
				}
				return v.String() + " €"
			case int64:
				return model.Price(v).String() + " €"
			}
			return ""
		},
		"date": func(t model.Timestamp) string {
			return t.Format("2 Jan 2006 15:04")
		},
		"deref": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
		"priceValue": func(p *model.Price) string {
			if p == nil {
				return ""
			}
			return p.String()
		},
		"rating": func(r *float64) string {
			if r == nil {
				return "no ratings"
			}
			return fmt.Sprintf("%.1f / 5", *r)
		},
		"stars": func(n int) string {
			n = min(max(n, 0), 5)
			return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
		},
		"ratingScale": func() []int {
			scale := make([]int, 0, store.MaxRating)
			for n := store.MaxRating; n >= store.MinRating; n-- {
				scale = append(scale, n)
			}
			return scale
		},
		"join": strings.Join,
		"add":  func(a, b int) int { return a + b },
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"login.html",
		"signup.html",
		"index.html",
		"film.html",
		"watch.html",
		"actor.html",
		"rentals.html",
		"profile.html",
		"favorites.html",
		"admin_film.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	User    *auth.Claims
	Error   string
	Success string
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB            *sql.DB
	Docs          *docstore.Manager
	Films         *films.Service
	Events        events.Publisher
	Limiter       ratelimit.Limiter
	Templates     *Templates
	JWTSecret     string
	SecureCookies bool
	Now           func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// page builds the base page data, consuming any pending flash message.
func (s *Server) page(w http.ResponseWriter, r *http.Request, title string) PageData {
	pd := PageData{Title: title, User: GetWebClaims(r.Context())}
	pd.Success, pd.Error = popFlash(w, r)
	return pd
}
