package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/erazemk/popcornhub/internal/events"
	"github.com/erazemk/popcornhub/internal/model"
	"github.com/erazemk/popcornhub/internal/store"
)

// RentalsHandler handles renting, returning and watching.
type RentalsHandler struct {
	*Deps
}

type rentRequest struct {
	OwnerID      *int64       `json:"owner_id"`
	Format       model.Format `json:"format"`
	DurationDays int          `json:"duration_days"`
}

type rentalResponse struct {
	model.Rental
	Active bool    `json:"active"`
	Price  float64 `json:"price"`
}

func newRentalResponse(r model.Rental, d *Deps) rentalResponse {
	return rentalResponse{
		Rental: r,
		Active: store.IsActive(&r, d.now()),
		Price:  model.Price(r.PriceCents).Euros(),
	}
}

// Rent handles POST /api/films/{id}/rent. Without owner_id the film is
// rented from the platform.
func (h *RentalsHandler) Rent(w http.ResponseWriter, r *http.Request) {
	filmID, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid film id")
		return
	}
	var req rentRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	now := h.now()
	var rental model.Rental
	err := h.Docs.Update(r.Context(), func(doc *model.Document) error {
		if store.IsDeleted(doc, filmID) {
			return &store.NotFoundError{What: "film", ID: filmID}
		}
		created, err := store.Rent(doc, claims.UserID, filmID, store.RentRequest{
			OwnerID:      req.OwnerID,
			Format:       req.Format,
			DurationDays: req.DurationDays,
		}, now)
		if err != nil {
			return err
		}
		rental = *created
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	Logger(r.Context()).Info("film rented", "user", claims.Username, "film", filmID, "rental", rental.ID)
	events.Emit(r.Context(), h.Events, events.NewRentalEvent(events.RentalCreated, &rental))
	jsonResponse(w, http.StatusCreated, newRentalResponse(rental, h.Deps))
}

// Return handles POST /api/rentals/{id}/return.
func (h *RentalsHandler) Return(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid rental id")
		return
	}

	claims := GetClaims(r.Context())
	var rental model.Rental
	err := h.Docs.Update(r.Context(), func(doc *model.Document) error {
		returned, err := store.ReturnRental(doc, claims.UserID, rentalID, h.now())
		if err != nil {
			return err
		}
		rental = *returned
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	Logger(r.Context()).Info("rental returned", "user", claims.Username, "rental", rentalID)
	events.Emit(r.Context(), h.Events, events.NewRentalEvent(events.RentalReturned, &rental))
	jsonResponse(w, http.StatusOK, newRentalResponse(rental, h.Deps))
}

// List handles GET /api/rentals.
func (h *RentalsHandler) List(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Docs.Read(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	claims := GetClaims(r.Context())
	out := []rentalResponse{}
	for _, rental := range store.ListRentalsForUser(doc, claims.UserID) {
		out = append(out, newRentalResponse(rental, h.Deps))
	}
	jsonResponse(w, http.StatusOK, out)
}

// Watch handles GET /api/films/{id}/watch. Watching requires an active rental.
func (h *RentalsHandler) Watch(w http.ResponseWriter, r *http.Request) {
	filmID, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid film id")
		return
	}

	doc, err := h.Docs.Read(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	claims := GetClaims(r.Context())
	rental := store.FindActiveRental(doc, claims.UserID, filmID, h.now())
	if rental == nil {
		jsonError(w, http.StatusForbidden, "rent this film to watch it")
		return
	}

	film := h.Films.Film(r.Context(), doc, filmID)
	key, err := h.Films.Provider.TrailerKey(r.Context(), film.Title, film.Year)
	if err != nil {
		Logger(r.Context()).Warn("trailer lookup failed", "film", filmID, "error", err)
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"film":        film,
		"trailer_key": key,
		"expires_at":  rental.ExpiresAt,
	})
}
