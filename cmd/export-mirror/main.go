package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"moviehub/internal/moviestore"
	"moviehub/pkg/database"
)

// MirrorMovie is the mirror's wire shape. It deliberately differs from
// the canonical form: numeric ids under "movieId", the year as a
// string, list fields as comma-joined strings. The normalizer has to
// cope with all of that when the mirror is used as a catalog source.
type MirrorMovie struct {
	MovieID     int     `json:"movieId"`
	Title       string  `json:"title"`
	Year        string  `json:"year,omitempty"`
	Director    string  `json:"director,omitempty"`
	Genre       string  `json:"genre,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	Description string  `json:"description,omitempty"`
	Cast        string  `json:"cast,omitempty"`
	Duration    string  `json:"duration,omitempty"`
	Country     string  `json:"country,omitempty"`
	Language    string  `json:"language,omitempty"`
	Poster      string  `json:"poster,omitempty"`
}

func main() {
	var (
		outPath = flag.String("out", "data/mirror.json", "output JSON path")
		limit   = flag.Int("limit", 500, "how many movies to export")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	repo := moviestore.NewRepo(db)
	movies, err := repo.List(ctx, moviestore.ListQuery{Limit: *limit})
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}

	out := make([]MirrorMovie, 0, len(movies))
	for _, m := range movies {
		id, err := strconv.Atoi(m.ID)
		if err != nil {
			// mirror ids are numeric; skip anything that isn't
			log.Printf("[mirror] skipping %q: non-numeric id %q", m.Title, m.ID)
			continue
		}

		year := ""
		if m.Year != 0 {
			year = strconv.Itoa(m.Year)
		}

		out = append(out, MirrorMovie{
			MovieID:     id,
			Title:       m.Title,
			Year:        year,
			Director:    m.Director,
			Genre:       strings.Join(m.Genre, ", "),
			Rating:      m.Rating,
			Description: m.Description,
			Cast:        strings.Join(m.Cast, ", "),
			Duration:    m.Duration,
			Country:     m.Country,
			Language:    m.Language,
			Poster:      m.Poster,
		})
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(*outPath, b, 0o644); err != nil {
		log.Fatalf("write %s: %v", *outPath, err)
	}

	log.Printf("exported %d movies to %s", len(out), *outPath)
}
