// Package gateway mediates between the engine and its data source.
//
// One Backend interface, two implementations selected at construction:
// HTTPBackend talks to the remote movie API with the session's bearer
// token, LocalBackend serves a fixture entirely in process. Callers
// never branch on which mode is active.
package gateway

import (
	"context"
	"errors"

	"moviehub/pkg/models"
)

var (
	// ErrUnauthenticated is returned before any backend call when the
	// operation needs a session and none is present.
	ErrUnauthenticated = errors.New("login required")

	// ErrCatalogLoadFailed wraps any transport or response failure
	// during a catalog load. The store keeps its last good state.
	ErrCatalogLoadFailed = errors.New("catalog load failed")
)

// Backend is a raw-record data source. Everything it returns passes
// through the Normalizer before entering the catalog store.
type Backend interface {
	FetchMovies(ctx context.Context, sess *models.Session) ([]models.RawMovie, error)
	FetchMovie(ctx context.Context, sess *models.Session, id string) (models.RawMovie, error)
	SubmitRating(ctx context.Context, sess *models.Session, movieID string, value int) error
	SubmitReview(ctx context.Context, sess *models.Session, movieID, text string, rating int) error
	FetchRecommendations(ctx context.Context, sess *models.Session, limit int) ([]models.RawMovie, error)
	UpdatePreferences(ctx context.Context, sess *models.Session, prefs []string) error
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Register(ctx context.Context, username, password string) error
}
