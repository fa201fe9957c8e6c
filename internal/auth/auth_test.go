package auth

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
)

const userSchema = `
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'user',
  preferences TEXT NOT NULL DEFAULT '[]',
  token_version INTEGER NOT NULL DEFAULT 0,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

func testRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(userSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return NewRepo(db)
}

func testTokens() TokenService {
	return TokenService{
		Secret:   []byte("test-secret"),
		Issuer:   "moviehub-test",
		Duration: time.Hour,
	}
}

func TestSignParseRoundTrip(t *testing.T) {
	ts := testTokens()
	u := &User{ID: "u1", Username: "alice", Role: "admin", TokenVersion: 3}

	token, exp, err := ts.Sign(u)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatal("expiry should be in the future")
	}

	claims, err := ts.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.Username != "alice" || claims.Role != "admin" || claims.TokenVersion != 3 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _, err := testTokens().Sign(&User{ID: "u1", Username: "alice"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	other := TokenService{Secret: []byte("different"), Issuer: "x", Duration: time.Hour}
	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected parse to fail with wrong secret")
	}
}

func TestRepoCreateAndPreferences(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	u, err := repo.Create(ctx, "alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Role != "user" || len(u.Preferences) != 0 {
		t.Fatalf("unexpected defaults: %+v", u)
	}

	if err := repo.UpdatePreferences(ctx, u.ID, []string{"Sci-Fi", "Drama"}); err != nil {
		t.Fatalf("update preferences: %v", err)
	}

	got, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || len(got.Preferences) != 2 || got.Preferences[0] != "Sci-Fi" {
		t.Fatalf("preferences round trip broken: %+v", got)
	}
}

func TestRepoGetMissingUserReturnsNil(t *testing.T) {
	repo := testRepo(t)
	got, err := repo.GetByUsername(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestMiddlewareRejectsBumpedTokenVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := testRepo(t)
	ctx := context.Background()
	ts := testTokens()

	u, err := repo.Create(ctx, "alice", "", "hash")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	token, _, err := ts.Sign(u)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	router := gin.New()
	router.Use(AuthMiddleware(ts, repo))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": MustGetClaims(c).Username})
	})

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("fresh token: status = %d, want 200", code)
	}

	if err := repo.BumpTokenVersion(ctx, u.ID); err != nil {
		t.Fatalf("bump: %v", err)
	}

	if code := do(); code != http.StatusUnauthorized {
		t.Fatalf("stale token: status = %d, want 401", code)
	}
}
