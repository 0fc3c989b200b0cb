package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/popcornhub/internal/db"
	"github.com/erazemk/popcornhub/internal/imaging"
	"github.com/erazemk/popcornhub/internal/model"
	"github.com/erazemk/popcornhub/internal/store"
	"github.com/erazemk/popcornhub/internal/tmdb"
)

// CatalogSubmit handles POST /admin/catalog.
func (s *Server) CatalogSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("film_id")), 10, 64)
	if err != nil {
		redirect(w, r, "/", &store.ValidationError{Msg: "Enter a numeric film id."}, "")
		return
	}

	err = s.Docs.Update(r.Context(), func(doc *model.Document) error {
		return store.AddToCatalog(doc, id)
	})
	if err == nil {
		slog.Info("film added to catalog", "film", id, "by", GetWebClaims(r.Context()).Username)
	}
	redirect(w, r, "/", err, fmt.Sprintf("Film #%d added to the catalog.", id))
}

// AdminFilmPage handles GET /admin/films/{id}.
func (s *Server) AdminFilmPage(w http.ResponseWriter, r *http.Request) {
	id, ok := filmID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	doc, err := s.Docs.Read(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}

	film := s.Films.Film(r.Context(), doc, id)
	override, _ := store.GetOverride(doc, id)

	s.Templates.Render(w, "admin_film.html", &struct {
		PageData
		Film     *tmdb.Film
		Override model.FilmOverride
		Deleted  bool
	}{
		PageData: s.page(w, r, "Edit "+film.Title),
		Film:     film,
		Override: override,
		Deleted:  store.IsDeleted(doc, id),
	})
}

// AdminFilmSubmit handles POST /admin/films/{id}. The form is multipart so a
// replacement poster can ride along with the text fields.
func (s *Server) AdminFilmSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := filmID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	back := fmt.Sprintf("/admin/films/%d", id)

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		redirect(w, r, back, &store.ValidationError{Msg: "The upload is too large."}, "")
		return
	}

	var poster *imaging.Poster
	if file, _, err := r.FormFile("poster"); err == nil {
		defer file.Close()
		poster, err = imaging.ProcessPoster(file)
		if err != nil {
			msg := "The poster could not be read."
			if errors.Is(err, imaging.ErrUnsupportedFormat) {
				msg = "Posters must be JPEG or PNG images."
			}
			redirect(w, r, back, &store.ValidationError{Msg: msg}, "")
			return
		}
		if err := db.SavePoster(r.Context(), s.DB, id, poster.Data, poster.MIME); err != nil {
			slog.Error("failed to save poster", "film", id, "error", err)
			redirect(w, r, back, err, "")
			return
		}
	}

	err := s.Docs.Update(r.Context(), func(doc *model.Document) error {
		store.SetOverride(doc, id, model.FilmOverride{
			Title:    r.FormValue("title"),
			Synopsis: r.FormValue("synopsis"),
			Director: r.FormValue("director"),
			Genres:   strings.Split(r.FormValue("genres"), ","),
		})
		if poster != nil {
			store.MarkPoster(doc, id)
		}
		return nil
	})
	if err == nil {
		slog.Info("film edited", "film", id, "poster", poster != nil, "by", GetWebClaims(r.Context()).Username)
	}
	redirect(w, r, filmURL(id), err, "Film updated.")
}

// AdminDeleteSubmit handles POST /admin/films/{id}/delete.
func (s *Server) AdminDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := filmID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	err := s.Docs.Update(r.Context(), func(doc *model.Document) error {
		store.DeleteFilm(doc, id)
		return nil
	})
	if err == nil {
		slog.Info("film deleted", "film", id, "by", GetWebClaims(r.Context()).Username)
	}
	redirect(w, r, "/", err, "Film removed from the site.")
}

// PosterGet handles GET /posters/{id}.
func (s *Server) PosterGet(w http.ResponseWriter, r *http.Request) {
	id, ok := filmID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	data, mime, err := db.GetPoster(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get poster", "film", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write poster response", "error", err)
	}
}
