package gateway

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"moviehub/internal/catalog"
	"moviehub/internal/ledger"
	"moviehub/pkg/models"
)

// fakeBackend scripts backend behavior per test.
type fakeBackend struct {
	LocalBackend // unused methods fall through to harmless defaults

	fetchMovies  func(ctx context.Context, sess *models.Session) ([]models.RawMovie, error)
	submitRating func(ctx context.Context, sess *models.Session, movieID string, value int) error
	submitCalls  int
}

func (f *fakeBackend) FetchMovies(ctx context.Context, sess *models.Session) ([]models.RawMovie, error) {
	if f.fetchMovies != nil {
		return f.fetchMovies(ctx, sess)
	}
	return nil, nil
}

func (f *fakeBackend) SubmitRating(ctx context.Context, sess *models.Session, movieID string, value int) error {
	f.submitCalls++
	if f.submitRating != nil {
		return f.submitRating(ctx, sess, movieID, value)
	}
	return nil
}

func (f *fakeBackend) SubmitReview(ctx context.Context, sess *models.Session, movieID, text string, rating int) error {
	f.submitCalls++
	return nil
}

func userSession() *models.Session {
	return &models.Session{ID: "u1", Email: "alice@example.com", Role: models.RoleUser, Token: "tok"}
}

func TestLoadCatalogNormalizes(t *testing.T) {
	store := catalog.NewStore()
	fb := &fakeBackend{fetchMovies: func(context.Context, *models.Session) ([]models.RawMovie, error) {
		return []models.RawMovie{
			{MongoID: "a1", Title: "Inception", Genre: models.StringList{"Sci-Fi"}},
			{Title: "no id, dropped"},
		}, nil
	}}
	g := New(fb, store, ledger.NewMemory())

	if err := g.LoadCatalog(context.Background(), nil); err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if store.Len() != 1 || store.Skipped() != 1 {
		t.Errorf("store: len=%d skipped=%d, want 1/1", store.Len(), store.Skipped())
	}
	if _, err := g.GetMovie("a1"); err != nil {
		t.Errorf("GetMovie(a1) error = %v", err)
	}
}

func TestLoadCatalogFailureKeepsLastGoodState(t *testing.T) {
	store := catalog.NewStore()
	fail := false
	fb := &fakeBackend{fetchMovies: func(context.Context, *models.Session) ([]models.RawMovie, error) {
		if fail {
			return nil, fmt.Errorf("connection refused")
		}
		return []models.RawMovie{{ID: "1", Title: "Heat"}}, nil
	}}
	g := New(fb, store, ledger.NewMemory())

	if err := g.LoadCatalog(context.Background(), nil); err != nil {
		t.Fatalf("first load error = %v", err)
	}

	fail = true
	err := g.LoadCatalog(context.Background(), nil)
	if !errors.Is(err, ErrCatalogLoadFailed) {
		t.Fatalf("failed load error = %v, want ErrCatalogLoadFailed", err)
	}
	if store.Len() != 1 {
		t.Errorf("failed load cleared the catalog: len = %d, want 1", store.Len())
	}
}

func TestLoadCatalogStaleResponseDiscarded(t *testing.T) {
	store := catalog.NewStore()
	release := make(chan struct{})
	calls := 0
	fb := &fakeBackend{fetchMovies: func(context.Context, *models.Session) ([]models.RawMovie, error) {
		calls++
		if calls == 1 {
			<-release // first load resolves after the second started
			return []models.RawMovie{{ID: "stale", Title: "Stale"}}, nil
		}
		return []models.RawMovie{{ID: "fresh", Title: "Fresh"}}, nil
	}}
	g := New(fb, store, ledger.NewMemory())

	done := make(chan error, 1)
	go func() { done <- g.LoadCatalog(context.Background(), nil) }()

	// second load supersedes the first, then the first resolves
	for {
		g.mu.Lock()
		started := g.started
		g.mu.Unlock()
		if started >= 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if err := g.LoadCatalog(context.Background(), nil); err != nil {
		t.Fatalf("second load error = %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first load error = %v", err)
	}

	if _, err := g.GetMovie("fresh"); err != nil {
		t.Errorf("fresh catalog missing: %v", err)
	}
	if _, err := g.GetMovie("stale"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("stale load overwrote the newer catalog")
	}
}

func TestSubmitRatingRequiresSession(t *testing.T) {
	g := New(&fakeBackend{}, catalog.NewStore(), ledger.NewMemory())

	if err := g.SubmitRating(context.Background(), nil, "1", 4); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("nil session error = %v, want ErrUnauthenticated", err)
	}
	if err := g.SubmitRating(context.Background(), &models.Session{}, "1", 4); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("empty session error = %v, want ErrUnauthenticated", err)
	}
}

func TestSubmitRatingEchoesToLedger(t *testing.T) {
	led := ledger.NewMemory()
	fb := &fakeBackend{}
	g := New(fb, catalog.NewStore(), led)

	if err := g.SubmitRating(context.Background(), userSession(), "m1", 4); err != nil {
		t.Fatalf("SubmitRating() error = %v", err)
	}
	if fb.submitCalls != 1 {
		t.Errorf("backend calls = %d, want 1", fb.submitCalls)
	}
	if got, _ := led.UserRating(context.Background(), "m1", "u1"); got != 4 {
		t.Errorf("ledger rating = %d, want 4", got)
	}
}

func TestSubmitRatingValidatesBeforeBackend(t *testing.T) {
	fb := &fakeBackend{}
	g := New(fb, catalog.NewStore(), ledger.NewMemory())

	err := g.SubmitRating(context.Background(), userSession(), "m1", 9)
	if !errors.Is(err, ledger.ErrInvalidRatingValue) {
		t.Fatalf("error = %v, want ErrInvalidRatingValue", err)
	}
	if fb.submitCalls != 0 {
		t.Errorf("invalid rating reached the backend")
	}
}

func TestSubmitReviewValidatesBeforeBackend(t *testing.T) {
	fb := &fakeBackend{}
	g := New(fb, catalog.NewStore(), ledger.NewMemory())

	_, err := g.SubmitReview(context.Background(), userSession(), "m1", "too short", 4)
	if !errors.Is(err, ledger.ErrReviewTooShort) {
		t.Fatalf("error = %v, want ErrReviewTooShort", err)
	}
	if fb.submitCalls != 0 {
		t.Errorf("short review reached the backend")
	}

	review, err := g.SubmitReview(context.Background(), userSession(), "m1", "a genuinely great movie", 5)
	if err != nil {
		t.Fatalf("SubmitReview() error = %v", err)
	}
	if review.UserName != "alice@example.com" || review.Rating != 5 {
		t.Errorf("review = %+v", review)
	}
}

func TestOfflineModeEndToEnd(t *testing.T) {
	store := catalog.NewStore()
	fixture := []models.RawMovie{
		{ID: "1", Title: "Inception", Genre: models.StringList{"Sci-Fi", "Action"}, Rating: 8.8},
		{ID: "2", Title: "Goodfellas", Genre: models.StringList{"Crime"}, Rating: 8.7},
		{ID: "3", Title: "The Matrix", Genre: models.StringList{"Sci-Fi"}, Rating: 8.7},
	}
	g := New(NewLocalBackend(fixture, store), store, ledger.NewMemory())
	ctx := context.Background()

	if err := g.LoadCatalog(ctx, nil); err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	sess, err := g.Login(ctx, "demo", "demo")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	sess.Preferences = []string{"Sci-Fi"}

	recs, err := g.Recommendations(ctx, sess, 6)
	if err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}
	if len(recs) != 2 || recs[0].Title != "Inception" {
		t.Errorf("Recommendations = %v", recs)
	}

	if err := g.SubmitRating(ctx, sess, "2", 5); err != nil {
		t.Fatalf("SubmitRating() error = %v", err)
	}
	if err := g.SubmitRating(ctx, sess, "missing", 5); err == nil {
		t.Error("rating an unknown movie should fail in local mode")
	}
}
