package gateway

import (
	"context"
	"fmt"

	"moviehub/internal/catalog"
	"moviehub/internal/recommend"
	"moviehub/pkg/models"
)

// LocalBackend serves a fixture entirely in process: demo and test
// mode. Login accepts any non-empty credentials; ratings and reviews
// are carried by the gateway's ledger, so the backend itself has
// nothing to persist.
type LocalBackend struct {
	fixture []models.RawMovie
	store   *catalog.Store
}

// NewLocalBackend serves raws as the catalog. store must be the same
// store the gateway loads, so recommendations rank the live catalog.
func NewLocalBackend(raws []models.RawMovie, store *catalog.Store) *LocalBackend {
	return &LocalBackend{fixture: raws, store: store}
}

func (b *LocalBackend) FetchMovies(ctx context.Context, sess *models.Session) ([]models.RawMovie, error) {
	return append([]models.RawMovie(nil), b.fixture...), nil
}

func (b *LocalBackend) FetchMovie(ctx context.Context, sess *models.Session, id string) (models.RawMovie, error) {
	m, err := b.store.GetByID(id)
	if err != nil {
		return models.RawMovie{}, err
	}
	return m.Raw(), nil
}

// SubmitRating and SubmitReview succeed without side effects: in local
// mode the gateway's ledger is the authority and records the entry.
func (b *LocalBackend) SubmitRating(ctx context.Context, sess *models.Session, movieID string, value int) error {
	if _, err := b.store.GetByID(movieID); err != nil {
		return err
	}
	return nil
}

func (b *LocalBackend) SubmitReview(ctx context.Context, sess *models.Session, movieID, text string, rating int) error {
	if _, err := b.store.GetByID(movieID); err != nil {
		return err
	}
	return nil
}

func (b *LocalBackend) FetchRecommendations(ctx context.Context, sess *models.Session, limit int) ([]models.RawMovie, error) {
	var prefs []string
	if sess != nil {
		prefs = sess.Preferences
	}
	ranked := recommend.Rank(b.store.All(), prefs, limit)
	raws := make([]models.RawMovie, len(ranked))
	for i, m := range ranked {
		raws[i] = m.Raw()
	}
	return raws, nil
}

// UpdatePreferences is a no-op: local preferences live in the session
// file the caller already rewrites.
func (b *LocalBackend) UpdatePreferences(ctx context.Context, sess *models.Session, prefs []string) error {
	return nil
}

func (b *LocalBackend) Login(ctx context.Context, username, password string) (*models.Session, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password required")
	}
	return &models.Session{
		ID:    "local:" + username,
		Email: username,
		Role:  models.RoleUser,
	}, nil
}

func (b *LocalBackend) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("username and password required")
	}
	return nil
}
