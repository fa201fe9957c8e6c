package main

import (
	"context"
	"flag"
	"log"
	"time"

	"moviehub/internal/catalog"
	"moviehub/internal/fixture"
	"moviehub/internal/moviestore"
	"moviehub/pkg/database"
	"moviehub/pkg/models"
)

func main() {
	in := flag.String("movies", fixture.DefaultPath, "input CSV path for movies")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	raws, err := fixture.Load(*in)
	if err != nil {
		log.Fatalf("load fixture failed: %v", err)
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

	log.Printf("imported %d movies from %s (%d skipped)", len(movies), *in, skipped)
}
