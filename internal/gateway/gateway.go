package gateway

import (
	"context"
	"fmt"
	"log"
	"sync"

	"moviehub/internal/catalog"
	"moviehub/internal/ledger"
	"moviehub/pkg/models"
)

// Gateway is the session-facing entry point: it loads the catalog from
// the active backend, submits ratings and reviews, and fetches
// recommendations. The ledger doubles as the client-side record of the
// session's own ratings and reviews in both modes.
type Gateway struct {
	backend Backend
	store   *catalog.Store
	ledger  ledger.Ledger

	mu      sync.Mutex
	started uint64 // generation of the most recently started load
}

func New(backend Backend, store *catalog.Store, led ledger.Ledger) *Gateway {
	return &Gateway{backend: backend, store: store, ledger: led}
}

func (g *Gateway) Store() *catalog.Store { return g.store }
func (g *Gateway) Ledger() ledger.Ledger { return g.ledger }

// LoadCatalog fetches raw records and replaces the store. On failure
// the store keeps its last good state (or stays empty if never
// loaded). A load that was superseded by a newer one before its
// response arrived is discarded, so a session change mid-flight can
// never clobber the newer catalog.
func (g *Gateway) LoadCatalog(ctx context.Context, sess *models.Session) error {
	g.mu.Lock()
	g.started++
	gen := g.started
	g.mu.Unlock()

	raws, err := g.backend.FetchMovies(ctx, sess)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogLoadFailed, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if gen != g.started {
		log.Printf("[gateway] discarding stale catalog load (gen %d < %d)", gen, g.started)
		return nil
	}
	skipped := g.store.Load(raws)
	log.Printf("[gateway] catalog loaded: %d movies, %d skipped", g.store.Len(), skipped)
	return nil
}

// GetMovie reads from the loaded catalog; it never goes remote for a
// single record, the catalog is the session's source of truth.
func (g *Gateway) GetMovie(id string) (models.Movie, error) {
	return g.store.GetByID(id)
}

// SubmitRating validates locally, delegates to the backend, then echoes
// the rating into the ledger so the session immediately sees its own
// value.
func (g *Gateway) SubmitRating(ctx context.Context, sess *models.Session, movieID string, value int) error {
	if !sess.Authenticated() {
		return ErrUnauthenticated
	}
	if err := ledger.ValidateRating(value); err != nil {
		return err
	}
	if err := g.backend.SubmitRating(ctx, sess, movieID, value); err != nil {
		return fmt.Errorf("submit rating: %w", err)
	}
	return g.ledger.UpsertRating(ctx, movieID, userKey(sess), value)
}

// SubmitReview validates locally, delegates, then appends to the
// ledger. The ledger entry is returned so the caller can render it.
func (g *Gateway) SubmitReview(ctx context.Context, sess *models.Session, movieID, text string, rating int) (models.Review, error) {
	if !sess.Authenticated() {
		return models.Review{}, ErrUnauthenticated
	}
	if err := ledger.ValidateRating(rating); err != nil {
		return models.Review{}, err
	}
	if err := ledger.ValidateReview(text); err != nil {
		return models.Review{}, err
	}
	if err := g.backend.SubmitReview(ctx, sess, movieID, text, rating); err != nil {
		return models.Review{}, fmt.Errorf("submit review: %w", err)
	}
	return g.ledger.AddReview(ctx, movieID, userKey(sess), displayName(sess), text, rating)
}

// Recommendations returns normalized recommendations for the session:
// server-side ranking online, the local scorer offline — callers
// cannot tell which.
func (g *Gateway) Recommendations(ctx context.Context, sess *models.Session, limit int) ([]models.Movie, error) {
	if !sess.Authenticated() {
		return nil, ErrUnauthenticated
	}
	raws, err := g.backend.FetchRecommendations(ctx, sess, limit)
	if err != nil {
		return nil, fmt.Errorf("recommendations: %w", err)
	}

	out := make([]models.Movie, 0, len(raws))
	for _, raw := range raws {
		m, err := catalog.Normalize(raw)
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// UpdatePreferences pushes the preference list to the backend so
// online recommendations rank with it on the server side.
func (g *Gateway) UpdatePreferences(ctx context.Context, sess *models.Session, prefs []string) error {
	if !sess.Authenticated() {
		return ErrUnauthenticated
	}
	if err := g.backend.UpdatePreferences(ctx, sess, prefs); err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	return nil
}

func (g *Gateway) Login(ctx context.Context, username, password string) (*models.Session, error) {
	return g.backend.Login(ctx, username, password)
}

func (g *Gateway) Register(ctx context.Context, username, password string) error {
	return g.backend.Register(ctx, username, password)
}

func userKey(sess *models.Session) string {
	if sess.ID != "" {
		return sess.ID
	}
	return sess.Email
}

func displayName(sess *models.Session) string {
	if sess.Name != "" {
		return sess.Name
	}
	if sess.Email != "" {
		return sess.Email
	}
	return "User"
}
