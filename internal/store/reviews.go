package store

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/popcornhub/internal/model"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Aggregate summarizes the reviews of a film. Average is nil when Count is 0.
type Aggregate struct {
	Average *float64 `json:"average_rating"`
	Count   int      `json:"count"`
}

// ParseRating converts a form value to a rating. Anything that is not an
// integer becomes 0 and is later clamped to MinRating.
func ParseRating(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// UpsertReview stores the user's rating and comment for a film, replacing a
// previous review in place.
func UpsertReview(doc *model.Document, userID, filmID int64, rating int, comment string, now time.Time) *model.Review {
	rating = min(max(rating, MinRating), MaxRating)
	comment = strings.TrimSpace(comment)

	if r := FindReview(doc, userID, filmID); r != nil {
		r.Rating = rating
		r.Comment = comment
		r.CreatedAt = model.NewTimestamp(now)
		return r
	}

	maxID := doc.MaxQuarantinedID(model.CollectionReviews)
	for _, r := range doc.Reviews {
		maxID = max(maxID, r.ID)
	}
	doc.Reviews = append(doc.Reviews, model.Review{
		ID:        maxID + 1,
		UserID:    userID,
		FilmID:    filmID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: model.NewTimestamp(now),
	})
	return &doc.Reviews[len(doc.Reviews)-1]
}

// FindReview returns the user's review of a film, or nil.
func FindReview(doc *model.Document, userID, filmID int64) *model.Review {
	for i := range doc.Reviews {
		r := &doc.Reviews[i]
		if r.UserID == userID && r.FilmID == filmID {
			return r
		}
	}
	return nil
}

// ListReviewsForFilm returns the reviews of a film in insertion order.
func ListReviewsForFilm(doc *model.Document, filmID int64) []model.Review {
	var out []model.Review
	for _, r := range doc.Reviews {
		if r.FilmID == filmID {
			out = append(out, r)
		}
	}
	return out
}

// AggregateForFilm returns the review count and the average rating rounded
// to one decimal, halves to even.
func AggregateForFilm(doc *model.Document, filmID int64) Aggregate {
	var sum, count int
	for _, r := range doc.Reviews {
		if r.FilmID == filmID {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return Aggregate{}
	}
	avg := math.RoundToEven(float64(sum)/float64(count)*10) / 10
	return Aggregate{Average: &avg, Count: count}
}
