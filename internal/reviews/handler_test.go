package reviews

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"

	"moviehub/internal/auth"
	"moviehub/internal/ledger"
	"moviehub/internal/moviestore"
	"moviehub/pkg/models"
)

const movieSchema = `
CREATE TABLE movies (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    year INTEGER,
    director TEXT,
    genre TEXT NOT NULL DEFAULT '[]',
    rating REAL NOT NULL DEFAULT 0,
    description TEXT,
    movie_cast TEXT NOT NULL DEFAULT '[]',
    duration TEXT,
    country TEXT,
    language TEXT,
    poster TEXT
);
`

func newTestRouter(t *testing.T) (*gin.Engine, ledger.Ledger) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(movieSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	movies := moviestore.NewRepo(db)
	if err := movies.SaveMovies(context.Background(), []models.Movie{
		{ID: "1", Title: "Inception", Rating: 8.8, Genre: []string{"Sci-Fi"}, Cast: []string{}},
	}); err != nil {
		t.Fatalf("seed movies: %v", err)
	}

	led := ledger.NewMemory()
	h := NewHandler(led, movies, nil)

	router := gin.New()
	api := router.Group("/api")
	h.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(func(c *gin.Context) {
		c.Set(auth.CtxClaimsKey, &auth.Claims{UserID: "u1", Username: "alice"})
	})
	h.RegisterProtectedRoutes(protected)

	return router, led
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateStoresAndReturnsAverage(t *testing.T) {
	router, led := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/rate", map[string]any{
		"movie_id": "1", "rating": 4,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		AverageRating float64 `json:"average_rating"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AverageRating != 4.0 {
		t.Errorf("average = %v, want 4.0", resp.AverageRating)
	}

	got, err := led.UserRating(context.Background(), "1", "u1")
	if err != nil || got != 4 {
		t.Fatalf("ledger rating = %d, %v", got, err)
	}
}

func TestRateRejectsOutOfRange(t *testing.T) {
	router, _ := newTestRouter(t)
	for _, v := range []int{0, 6} {
		w := doRequest(t, router, http.MethodPost, "/api/rate", map[string]any{
			"movie_id": "1", "rating": v,
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("rating %d: status = %d, want 400", v, w.Code)
		}
	}
}

func TestRateUnknownMovieIs404(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doRequest(t, router, http.MethodPost, "/api/rate", map[string]any{
		"movie_id": "nope", "rating": 3,
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestCreateReviewAndList(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/reviews", map[string]any{
		"movie_id": "1", "rating": 5, "text": "an instant classic",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}

	w = doRequest(t, router, http.MethodGet, "/api/movies/1/reviews", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}

	var resp struct {
		Reviews []models.Review `json:"reviews"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Reviews) != 1 || resp.Reviews[0].UserName != "alice" {
		t.Fatalf("unexpected reviews: %+v", resp.Reviews)
	}
}

func TestCreateReviewRejectsShortText(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doRequest(t, router, http.MethodPost, "/api/reviews", map[string]any{
		"movie_id": "1", "rating": 5, "text": "too short",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestAverageRatingFallsBackToCatalogValue(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doRequest(t, router, http.MethodGet, "/api/movies/1/rating", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		AverageRating float64 `json:"average_rating"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AverageRating != 8.8 {
		t.Errorf("average = %v, want catalog fallback 8.8", resp.AverageRating)
	}
}
