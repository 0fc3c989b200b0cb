package model

import "time"

// Rental is a time-boxed viewing grant. OwnerID is nil for platform rentals.
type Rental struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	FilmID     int64     `json:"movie_id"`
	OwnerID    *int64    `json:"owner_id,omitempty"`
	Format     Format    `json:"format,omitempty"`
	RentedAt   Timestamp `json:"rented_at"`
	ExpiresAt  Timestamp `json:"expires_at"`
	PriceCents int64     `json:"price_cents"`
}

// ActiveAt reports whether the rental has not yet expired at now.
func (r *Rental) ActiveAt(now time.Time) bool {
	return r.ExpiresAt.After(now)
}

// Review is one user's rating of a film.
type Review struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	FilmID    int64     `json:"movie_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt Timestamp `json:"created_at"`
}

// FilmOverride replaces provider metadata for a film. Empty fields keep the
// provider value.
type FilmOverride struct {
	Title     string   `json:"title,omitempty"`
	Synopsis  string   `json:"synopsis,omitempty"`
	Director  string   `json:"director,omitempty"`
	Genres    []string `json:"genres,omitempty"`
	HasPoster bool     `json:"has_poster,omitempty"`
}
