package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"moviehub/internal/catalog"
	"moviehub/internal/moviestore"
	"moviehub/pkg/database"
	"moviehub/pkg/models"
)

// Pulls a catalog from a remote source (the API server, the mirror, or
// any endpoint speaking one of the tolerated raw shapes), normalizes
// it and upserts it into the local database.
func main() {
	url := flag.String("url", "http://localhost:9000/api/movies", "catalog source URL")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	raws, err := fetchRaw(ctx, *url)
	if err != nil {
		log.Fatalf("fetch failed: %v", err)
	}

	movies := make([]models.Movie, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		m, err := catalog.Normalize(raw)
		if err != nil {
			skipped++
			log.Printf("[import] skipping record %q: %v", raw.Title, err)
			continue
		}
		movies = append(movies, m)
	}

	repo := moviestore.NewRepo(db)
	if err := repo.SaveMovies(ctx, movies); err != nil {
		log.Fatalf("save movies failed: %v", err)
	}

	log.Printf("imported %d movies from %s (%d skipped)", len(movies), *url, skipped)
}

// fetchRaw accepts either a bare JSON array or a {"movies": [...]}
// envelope.
func fetchRaw(ctx context.Context, url string) ([]models.RawMovie, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var raws []models.RawMovie
	if err := json.Unmarshal(body, &raws); err == nil {
		return raws, nil
	}

	var envelope struct {
		Movies []models.RawMovie `json:"movies"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return envelope.Movies, nil
}
