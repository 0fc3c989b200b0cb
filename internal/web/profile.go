package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/popcornhub/internal/model"
	"github.com/erazemk/popcornhub/internal/store"
	"github.com/erazemk/popcornhub/internal/tmdb"
)

type libraryRow struct {
	model.Ownership
	Film *tmdb.Film
}

// ProfilePage handles GET /profile. It lists the user's library, merging
// owned copies with films only pinned to the legacy list.
func (s *Server) ProfilePage(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Docs.Read(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}

	claims := GetWebClaims(r.Context())
	merged := store.MergeLibrary(doc, claims.UserID)
	ids := make([]int64, 0, len(merged))
	for _, o := range merged {
		ids = append(ids, o.FilmID)
	}
	byID := s.Films.Films(r.Context(), doc, ids)

	rows := make([]libraryRow, 0, len(merged))
	for _, o := range merged {
		rows = append(rows, libraryRow{Ownership: o, Film: byID[o.FilmID]})
	}

	s.Templates.Render(w, "profile.html", &struct {
		PageData
		Account *model.User
		Library []libraryRow
		Active  int
	}{
		PageData: s.page(w, r, "My profile"),
		Account:  store.GetUser(doc, claims.UserID),
		Library:  rows,
		Active:   len(store.ListActiveForUser(doc, claims.UserID, s.now())),
	})
}

// ownershipForm reads the lending terms of the profile form.
func ownershipForm(r *http.Request) (store.OwnershipInput, error) {
	in := store.OwnershipInput{
		HasBluray:  r.FormValue("has_bluray") != "",
		HasDigital: r.FormValue("has_digital") != "",
	}

	var err error
	if in.BlurayPrice, err = model.ParsePrice(r.FormValue("bluray_price")); err != nil {
		return in, &store.ValidationError{Msg: "Invalid Blu-ray price."}
	}
	if in.DigitalPrice, err = model.ParsePrice(r.FormValue("digital_price")); err != nil {
		return in, &store.ValidationError{Msg: "Invalid digital price."}
	}
	if in.BlurayMaxDays, err = parseDays(r.FormValue("bluray_max_days")); err != nil {
		return in, &store.ValidationError{Msg: "Invalid Blu-ray maximum duration."}
	}
	if in.DigitalMaxDays, err = parseDays(r.FormValue("digital_max_days")); err != nil {
		return in, &store.ValidationError{Msg: "Invalid digital maximum duration."}
	}
	return in, nil
}

func parseDays(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// OwnershipSubmit handles POST /profile/films/{id}.
func (s *Server) OwnershipSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := filmID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	in, err := ownershipForm(r)
	if err == nil {
		claims := GetWebClaims(r.Context())
		err = s.Docs.Update(r.Context(), func(doc *model.Document) error {
			_, err := store.UpsertOwnership(doc, claims.UserID, id, in)
			return err
		})
	}
	redirect(w, r, "/profile", err, "Your copy has been updated.")
}

// VisibilitySubmit handles POST /profile/films/{id}/visibility.
func (s *Server) VisibilitySubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := filmID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	claims := GetWebClaims(r.Context())
	var public bool
	err := s.Docs.Update(r.Context(), func(doc *model.Document) error {
		var err error
		public, err = store.ToggleVisibility(doc, claims.UserID, id)
		return err
	})

	msg := "Your copy is now private."
	if public {
		msg = "Your copy is now offered for rent."
	}
	redirect(w, r, "/profile", err, msg)
}

// DeleteOwnershipSubmit handles POST /profile/films/{id}/delete.
func (s *Server) DeleteOwnershipSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := filmID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	claims := GetWebClaims(r.Context())
	err := s.Docs.Update(r.Context(), func(doc *model.Document) error {
		if !store.DeleteOwnership(doc, claims.UserID, id) {
			return &store.NotFoundError{What: "film in your library", ID: id}
		}
		return nil
	})
	redirect(w, r, "/profile", err, fmt.Sprintf("Film #%d removed from your library.", id))
}
