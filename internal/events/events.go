package events

import "time"

const (
	TypeRatingSubmitted = "rating.submitted"
	TypeReviewAdded     = "review.added"
)

type Event struct {
	Type    string    `json:"type"`
	MovieID string    `json:"movie_id"`
	UserID  string    `json:"user_id"`
	Rating  int       `json:"rating,omitempty"`
	At      time.Time `json:"at"`
}
