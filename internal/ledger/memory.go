package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"moviehub/pkg/models"
)

// Memory is the in-process ledger used in offline/demo mode and as the
// client-side echo of submitted ratings. Entries live for the process
// lifetime. Safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	ratings []models.Rating
	reviews []models.Review
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) UpsertRating(ctx context.Context, movieID, userID string, value int) error {
	if err := ValidateRating(value); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.ratings {
		if r.MovieID == movieID && r.UserID == userID {
			m.ratings[i].Value = value
			m.ratings[i].At = time.Now().UTC()
			return nil
		}
	}
	m.ratings = append(m.ratings, models.Rating{
		MovieID: movieID,
		UserID:  userID,
		Value:   value,
		At:      time.Now().UTC(),
	})
	return nil
}

func (m *Memory) AddReview(ctx context.Context, movieID, userID, userName, text string, rating int) (models.Review, error) {
	if err := ValidateRating(rating); err != nil {
		return models.Review{}, err
	}
	if err := ValidateReview(text); err != nil {
		return models.Review{}, err
	}

	review := models.Review{
		ID:       uuid.NewString(),
		MovieID:  movieID,
		UserID:   userID,
		UserName: userName,
		Rating:   rating,
		Text:     text,
		Date:     time.Now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews = append(m.reviews, review)

	// create the pair's rating only if it does not exist yet
	for _, r := range m.ratings {
		if r.MovieID == movieID && r.UserID == userID {
			return review, nil
		}
	}
	m.ratings = append(m.ratings, models.Rating{
		MovieID: movieID,
		UserID:  userID,
		Value:   rating,
		At:      review.Date,
	})
	return review, nil
}

func (m *Memory) RatingsFor(ctx context.Context, movieID string) ([]models.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Rating, 0, 4)
	for _, r := range m.ratings {
		if r.MovieID == movieID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) ReviewsFor(ctx context.Context, movieID string) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Review, 0, 4)
	for _, r := range m.reviews {
		if r.MovieID == movieID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) UserRating(ctx context.Context, movieID, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.ratings {
		if r.MovieID == movieID && r.UserID == userID {
			return r.Value, nil
		}
	}
	return 0, nil
}

func (m *Memory) AverageRating(ctx context.Context, movieID string, fallback float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum, n := 0, 0
	for _, r := range m.ratings {
		if r.MovieID == movieID {
			sum += r.Value
			n++
		}
	}
	if n == 0 {
		return fallback, nil
	}
	return round1(float64(sum) / float64(n)), nil
}
