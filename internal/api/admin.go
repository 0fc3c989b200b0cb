package api

import (
	"errors"
	"net/http"

	"github.com/erazemk/popcornhub/internal/db"
	"github.com/erazemk/popcornhub/internal/films"
	"github.com/erazemk/popcornhub/internal/imaging"
	"github.com/erazemk/popcornhub/internal/model"
	"github.com/erazemk/popcornhub/internal/store"
)

// AdminHandler handles catalog administration (admin only).
type AdminHandler struct {
	*Deps
}

type catalogRequest struct {
	FilmID int64 `json:"film_id"`
}

type overrideRequest struct {
	Title    string   `json:"title"`
	Synopsis string   `json:"synopsis"`
	Director string   `json:"director"`
	Genres   []string `json:"genres"`
}

// AddToCatalog handles POST /api/admin/catalog.
func (h *AdminHandler) AddToCatalog(w http.ResponseWriter, r *http.Request) {
	var req catalogRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.Docs.Update(r.Context(), func(doc *model.Document) error {
		return store.AddToCatalog(doc, req.FilmID)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	Logger(r.Context()).Info("film added to catalog", "film", req.FilmID, "by", GetClaims(r.Context()).Username)
	jsonResponse(w, http.StatusCreated, map[string]int64{"film_id": req.FilmID})
}

// DeleteFilm handles DELETE /api/admin/films/{id}.
func (h *AdminHandler) DeleteFilm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid film id")
		return
	}

	err := h.Docs.Update(r.Context(), func(doc *model.Document) error {
		store.DeleteFilm(doc, id)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	Logger(r.Context()).Info("film deleted", "film", id, "by", GetClaims(r.Context()).Username)
	w.WriteHeader(http.StatusNoContent)
}

// SetOverride handles PUT /api/admin/films/{id}.
func (h *AdminHandler) SetOverride(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid film id")
		return
	}
	var req overrideRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var saved model.FilmOverride
	err := h.Docs.Update(r.Context(), func(doc *model.Document) error {
		saved = store.SetOverride(doc, id, model.FilmOverride{
			Title:    req.Title,
			Synopsis: req.Synopsis,
			Director: req.Director,
			Genres:   req.Genres,
		})
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, saved)
}

// UploadPoster handles PUT /api/admin/films/{id}/poster. The body is the raw
// JPEG or PNG image.
func (h *AdminHandler) UploadPoster(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid film id")
		return
	}

	poster, err := imaging.ProcessPoster(http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes))
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			jsonError(w, http.StatusUnsupportedMediaType, err.Error())
			return
		}
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := db.SavePoster(r.Context(), h.DB, id, poster.Data, poster.MIME); err != nil {
		Logger(r.Context()).Error("failed to save poster", "film", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save poster")
		return
	}

	err = h.Docs.Update(r.Context(), func(doc *model.Document) error {
		store.MarkPoster(doc, id)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"poster_url": films.PosterPath(id),
		"width":      poster.Width,
		"height":     poster.Height,
	})
}
