package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/popcornhub/internal/events"
	"github.com/erazemk/popcornhub/internal/model"
	"github.com/erazemk/popcornhub/internal/store"
	"github.com/erazemk/popcornhub/internal/tmdb"
)

// rentalRow is one line of the rentals page.
type rentalRow struct {
	model.Rental
	Film   *tmdb.Film
	Owner  string
	Active bool
}

// RentSubmit handles POST /films/{id}/rent. An owner_id field rents that
// user's copy; without it the film is rented from the platform.
func (s *Server) RentSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := filmID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	req := store.RentRequest{Format: model.Format(r.FormValue("format"))}
	if v := r.FormValue("owner_id"); v != "" {
		ownerID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			redirect(w, r, filmURL(id), &store.ValidationError{Msg: "Invalid owner."}, "")
			return
		}
		req.OwnerID = &ownerID
	}
	req.DurationDays, _ = strconv.Atoi(r.FormValue("duration_days"))

	claims := GetWebClaims(r.Context())
	var rental model.Rental
	err := s.Docs.Update(r.Context(), func(doc *model.Document) error {
		if store.IsDeleted(doc, id) {
			return &store.NotFoundError{What: "film", ID: id}
		}
		created, err := store.Rent(doc, claims.UserID, id, req, s.now())
		if err != nil {
			return err
		}
		rental = *created
		return nil
	})
	if err != nil {
		redirect(w, r, filmURL(id), err, "")
		return
	}

	slog.Info("film rented", "user", claims.Username, "film", id, "rental", rental.ID)
	events.Emit(r.Context(), s.Events, events.NewRentalEvent(events.RentalCreated, &rental))
	redirect(w, r, "/rentals", nil, "Enjoy the film! Your rental runs until "+rental.ExpiresAt.Format("2 Jan 2006 15:04")+".")
}

// RentalsPage handles GET /rentals.
func (s *Server) RentalsPage(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Docs.Read(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}

	claims := GetWebClaims(r.Context())
	rentals := store.ListRentalsForUser(doc, claims.UserID)

	ids := make([]int64, 0, len(rentals))
	for _, rental := range rentals {
		ids = append(ids, rental.FilmID)
	}
	byID := s.Films.Films(r.Context(), doc, ids)
	names := store.Usernames(doc)

	now := s.now()
	rows := make([]rentalRow, 0, len(rentals))
	for _, rental := range rentals {
		row := rentalRow{Rental: rental, Film: byID[rental.FilmID], Active: store.IsActive(&rental, now)}
		if rental.OwnerID != nil {
			row.Owner = names[*rental.OwnerID]
		}
		rows = append(rows, row)
	}

	s.Templates.Render(w, "rentals.html", &struct {
		PageData
		Rentals []rentalRow
	}{PageData: s.page(w, r, "My rentals"), Rentals: rows})
}

// ReturnSubmit handles POST /rentals/{id}/return.
func (s *Server) ReturnSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := filmID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	claims := GetWebClaims(r.Context())
	var rental model.Rental
	err := s.Docs.Update(r.Context(), func(doc *model.Document) error {
		returned, err := store.ReturnRental(doc, claims.UserID, id, s.now())
		if err != nil {
			return err
		}
		rental = *returned
		return nil
	})
	if err == nil {
		slog.Info("rental returned", "user", claims.Username, "rental", id)
		events.Emit(r.Context(), s.Events, events.NewRentalEvent(events.RentalReturned, &rental))
	}
	redirect(w, r, "/rentals", err, "Rental returned.")
}

// WatchPage handles GET /films/{id}/watch. Only renters with an active
// rental get the player.
func (s *Server) WatchPage(w http.ResponseWriter, r *http.Request) {
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

	claims := GetWebClaims(r.Context())
	rental := store.FindActiveRental(doc, claims.UserID, id, s.now())
	if rental == nil {
		setFlash(w, false, "Rent this film to watch it.")
		http.Redirect(w, r, filmURL(id), http.StatusSeeOther)
		return
	}

	film := s.Films.Film(r.Context(), doc, id)
	key, err := s.Films.Provider.TrailerKey(r.Context(), film.Title, film.Year)
	if err != nil {
		slog.Warn("trailer lookup failed", "film", id, "error", err)
	}

	s.Templates.Render(w, "watch.html", &struct {
		PageData
		Film       *tmdb.Film
		TrailerKey string
		ExpiresAt  model.Timestamp
	}{
		PageData:   s.page(w, r, film.Title),
		Film:       film,
		TrailerKey: key,
		ExpiresAt:  rental.ExpiresAt,
	})
}
