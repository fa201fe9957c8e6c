// Package ledger holds ratings and reviews keyed by (movie, user).
//
// Two implementations share one contract: Memory for the in-process
// offline mode, and SQLite behind the API server. Either way there is
// at most one rating per (movie, user) pair, reviews are append-only,
// and a review implicitly creates a rating only when that pair had
// none yet.
package ledger

import (
	"context"
	"errors"
	"math"
	"strings"

	"moviehub/pkg/models"
)

const (
	MinRating = 1
	MaxRating = 5

	// MinReviewLen is the minimum trimmed review length in runes.
	MinReviewLen = 10
)

var (
	ErrInvalidRatingValue = errors.New("rating must be between 1 and 5")
	ErrReviewTooShort     = errors.New("review text too short")
)

type Ledger interface {
	// UpsertRating replaces the pair's rating value, or appends a new
	// rating when the pair had none.
	UpsertRating(ctx context.Context, movieID, userID string, value int) error

	// AddReview appends a review. It never updates an existing review
	// and never overwrites an existing rating.
	AddReview(ctx context.Context, movieID, userID, userName, text string, rating int) (models.Review, error)

	// RatingsFor and ReviewsFor return entries in insertion order.
	RatingsFor(ctx context.Context, movieID string) ([]models.Rating, error)
	ReviewsFor(ctx context.Context, movieID string) ([]models.Review, error)

	// UserRating returns the user's rating for the movie, 0 when none.
	UserRating(ctx context.Context, movieID, userID string) (int, error)

	// AverageRating returns the mean of the ledger's ratings for the
	// movie rounded to one decimal. When the ledger holds no rating for
	// the movie it returns fallback, the server-aggregate value carried
	// on the movie itself.
	AverageRating(ctx context.Context, movieID string, fallback float64) (float64, error)
}

// ValidateRating checks the 1..5 bound shared by both implementations.
func ValidateRating(value int) error {
	if value < MinRating || value > MaxRating {
		return ErrInvalidRatingValue
	}
	return nil
}

// ValidateReview checks the minimum trimmed length.
func ValidateReview(text string) error {
	if len([]rune(strings.TrimSpace(text))) < MinReviewLen {
		return ErrReviewTooShort
	}
	return nil
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
