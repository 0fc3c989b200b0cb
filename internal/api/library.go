package api

import (
	"net/http"

	"github.com/erazemk/popcornhub/internal/model"
	"github.com/erazemk/popcornhub/internal/store"
	"github.com/erazemk/popcornhub/internal/tmdb"
)

// LibraryHandler handles the user's owned copies and legacy pins.
type LibraryHandler struct {
	*Deps
}

type ownershipRequest struct {
	HasBluray      bool         `json:"has_bluray"`
	HasDigital     bool         `json:"has_digital"`
	BlurayPrice    *model.Price `json:"bluray_price"`
	DigitalPrice   *model.Price `json:"digital_price"`
	BlurayMaxDays  *int         `json:"bluray_max_days"`
	DigitalMaxDays *int         `json:"digital_max_days"`
}

type libraryEntry struct {
	model.Ownership
	Legacy bool       `json:"legacy"`
	Film   *tmdb.Film `json:"film"`
}

// List handles GET /api/library.
func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Docs.Read(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	claims := GetClaims(r.Context())
	merged := store.MergeLibrary(doc, claims.UserID)
	ids := make([]int64, 0, len(merged))
	for _, o := range merged {
		ids = append(ids, o.FilmID)
	}
	byID := h.Films.Films(r.Context(), doc, ids)

	out := make([]libraryEntry, 0, len(merged))
	for _, o := range merged {
		out = append(out, libraryEntry{Ownership: o, Legacy: o.Legacy, Film: byID[o.FilmID]})
	}
	jsonResponse(w, http.StatusOK, out)
}

// Upsert handles PUT /api/library/{id}.
func (h *LibraryHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	filmID, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid film id")
		return
	}
	var req ownershipRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	var saved model.Ownership
	err := h.Docs.Update(r.Context(), func(doc *model.Document) error {
		o, err := store.UpsertOwnership(doc, claims.UserID, filmID, store.OwnershipInput(req))
		if err != nil {
			return err
		}
		saved = *o
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, saved)
}

// Delete handles DELETE /api/library/{id}.
func (h *LibraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	filmID, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid film id")
		return
	}

	claims := GetClaims(r.Context())
	err := h.Docs.Update(r.Context(), func(doc *model.Document) error {
		if !store.DeleteOwnership(doc, claims.UserID, filmID) {
			return &store.NotFoundError{What: "film in library", ID: filmID}
		}
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleVisibility handles POST /api/library/{id}/visibility.
func (h *LibraryHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	filmID, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid film id")
		return
	}

	claims := GetClaims(r.Context())
	var public bool
	err := h.Docs.Update(r.Context(), func(doc *model.Document) error {
		var err error
		public, err = store.ToggleVisibility(doc, claims.UserID, filmID)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]bool{"is_public": public})
}

// Pin handles POST /api/library/{id}/pin.
func (h *LibraryHandler) Pin(w http.ResponseWriter, r *http.Request) {
	h.pin(w, r, true)
}

// Unpin handles DELETE /api/library/{id}/pin.
func (h *LibraryHandler) Unpin(w http.ResponseWriter, r *http.Request) {
	h.pin(w, r, false)
}

func (h *LibraryHandler) pin(w http.ResponseWriter, r *http.Request, add bool) {
	filmID, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid film id")
		return
	}

	claims := GetClaims(r.Context())
	var changed bool
	err := h.Docs.Update(r.Context(), func(doc *model.Document) error {
		if add {
			changed = store.AddToLibrary(doc, claims.UserID, filmID)
		} else {
			changed = store.RemoveFromLibrary(doc, claims.UserID, filmID)
		}
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]bool{"changed": changed})
}
