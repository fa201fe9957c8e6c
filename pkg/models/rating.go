package models

import "time"

// Rating is a single user's rating of a movie. There is at most one
// rating per (movie, user) pair; submitting again replaces the value.
type Rating struct {
	MovieID string    `json:"movie_id"`
	UserID  string    `json:"user_id"`
	Value   int       `json:"rating"` // 1..5
	At      time.Time `json:"at"`
}

// Review is a written review. Unlike ratings, a user may leave several
// reviews for the same movie; entries are append-only.
type Review struct {
	ID       string    `json:"id"`
	MovieID  string    `json:"movie_id"`
	UserID   string    `json:"user_id"`
	UserName string    `json:"user_name"`
	Rating   int       `json:"rating"` // 1..5
	Text     string    `json:"text"`
	Date     time.Time `json:"date"`
}
