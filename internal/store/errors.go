package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/popcornhub/internal/model"
)

// ErrUsernameTaken is returned when signing up with an existing username.
var ErrUsernameTaken = errors.New("username already exists")

// ValidationError reports malformed or contradictory input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError reports a missing ownership, rental, or user.
type NotFoundError struct {
	What string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.What, e.ID)
}

// AlreadyRentedError reports that the renter still holds an active rental.
type AlreadyRentedError struct {
	FilmID    int64
	ExpiresAt time.Time
}

func (e *AlreadyRentedError) Error() string {
	return fmt.Sprintf("film %d already rented until %s", e.FilmID, e.ExpiresAt.UTC().Format(model.TimestampLayout))
}

// NotAvailableError reports a listing that is missing or not public.
type NotAvailableError struct {
	OwnerID int64
	FilmID  int64
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("film %d is not offered by user %d", e.FilmID, e.OwnerID)
}

// FormatUnavailableError reports a format the listing does not offer.
type FormatUnavailableError struct {
	Format model.Format
}

func (e *FormatUnavailableError) Error() string {
	return fmt.Sprintf("format %s is not offered", e.Format)
}

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
