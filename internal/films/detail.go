package films

import (
	"context"
	"log/slog"
	"time"

	"github.com/erazemk/popcornhub/internal/model"
	"github.com/erazemk/popcornhub/internal/store"
	"github.com/erazemk/popcornhub/internal/tmdb"
)

// ReviewView is a review with its author's name.
type ReviewView struct {
	model.Review
	Username string `json:"username"`
}

// Detail is everything the film page shows to one user.
type Detail struct {
	Film         *tmdb.Film       `json:"film"`
	TrailerKey   string           `json:"trailer_key,omitempty"`
	Aggregate    store.Aggregate  `json:"aggregate"`
	Reviews      []ReviewView     `json:"reviews"`
	MyReview     *model.Review    `json:"my_review,omitempty"`
	IsFavorite   bool             `json:"is_favorite"`
	InLibrary    bool             `json:"in_library"`
	Ownership    *model.Ownership `json:"ownership,omitempty"`
	ActiveRental *model.Rental    `json:"active_rental,omitempty"`
	Listings     []store.Listing  `json:"listings"`
}

// Detail builds the film page for userID. Metadata failures degrade to a
// placeholder and no trailer.
func (s *Service) Detail(ctx context.Context, doc *model.Document, filmID, userID int64, filter store.AvailabilityFilter, now time.Time) *Detail {
	d := &Detail{
		Film:       s.Film(ctx, doc, filmID),
		Aggregate:  store.AggregateForFilm(doc, filmID),
		IsFavorite: store.IsFavorite(doc, userID, filmID),
		InLibrary:  store.InLibrary(doc, userID, filmID),
		Reviews:    []ReviewView{},
		Listings:   store.ComposeAvailability(doc, filmID, userID, filter),
	}

	key, err := s.Provider.TrailerKey(ctx, d.Film.Title, d.Film.Year)
	if err != nil {
		slog.Warn("trailer lookup failed", "film", filmID, "error", err)
	}
	d.TrailerKey = key

	names := store.Usernames(doc)
	for _, r := range store.ListReviewsForFilm(doc, filmID) {
		d.Reviews = append(d.Reviews, ReviewView{Review: r, Username: names[r.UserID]})
	}
	if r := store.FindReview(doc, userID, filmID); r != nil {
		mine := *r
		d.MyReview = &mine
	}
	if o := store.FindOwnership(doc, userID, filmID); o != nil {
		owned := *o
		d.Ownership = &owned
	}
	if r := store.FindActiveRental(doc, userID, filmID, now); r != nil {
		active := *r
		d.ActiveRental = &active
	}
	return d
}
