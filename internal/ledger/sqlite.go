package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moviehub/pkg/models"
)

// SQLite persists the ledger through database/sql. It backs the API
// server; the schema lives in docs/schema.sql.
type SQLite struct {
	DB *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{DB: db}
}

func (s *SQLite) UpsertRating(ctx context.Context, movieID, userID string, value int) error {
	if err := ValidateRating(value); err != nil {
		return err
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO ratings (movie_id, user_id, rating, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(movie_id, user_id) DO UPDATE SET
			rating = excluded.rating,
			updated_at = excluded.updated_at
	`, movieID, userID, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

func (s *SQLite) AddReview(ctx context.Context, movieID, userID, userName, text string, rating int) (models.Review, error) {
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

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Review{}, fmt.Errorf("begin add review: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reviews (id, movie_id, user_id, user_name, rating, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, review.ID, review.MovieID, review.UserID, review.UserName, review.Rating, review.Text, review.Date); err != nil {
		return models.Review{}, fmt.Errorf("insert review: %w", err)
	}

	// only create the rating when the pair has none; never overwrite
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ratings (movie_id, user_id, rating, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(movie_id, user_id) DO NOTHING
	`, review.MovieID, review.UserID, review.Rating, review.Date); err != nil {
		return models.Review{}, fmt.Errorf("insert review rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Review{}, fmt.Errorf("commit add review: %w", err)
	}
	return review, nil
}

func (s *SQLite) RatingsFor(ctx context.Context, movieID string) ([]models.Rating, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT movie_id, user_id, rating, updated_at
		FROM ratings
		WHERE movie_id = ?
		ORDER BY rowid ASC
	`, movieID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	out := make([]models.Rating, 0, 8)
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.MovieID, &r.UserID, &r.Value, &r.At); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (s *SQLite) ReviewsFor(ctx context.Context, movieID string) ([]models.Review, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, movie_id, user_id, user_name, rating, text, created_at
		FROM reviews
		WHERE movie_id = ?
		ORDER BY rowid ASC
	`, movieID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	out := make([]models.Review, 0, 8)
	for rows.Next() {
		var (
			r    models.Review
			text sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.MovieID, &r.UserID, &r.UserName, &r.Rating, &text, &r.Date); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		r.Text = text.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (s *SQLite) UserRating(ctx context.Context, movieID, userID string) (int, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT rating FROM ratings
		WHERE movie_id = ? AND user_id = ?
	`, movieID, userID)

	var value int
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("user rating: %w", err)
	}
	return value, nil
}

func (s *SQLite) AverageRating(ctx context.Context, movieID string, fallback float64) (float64, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)
		FROM ratings
		WHERE movie_id = ?
	`, movieID)

	var (
		n   int
		avg float64
	)
	if err := row.Scan(&n, &avg); err != nil {
		return 0, fmt.Errorf("average rating: %w", err)
	}
	if n == 0 {
		return fallback, nil
	}
	return round1(avg), nil
}
