package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"moviehub/pkg/database"
)

func main() {
	var (
		moviesOut  = flag.String("movies", "data/movies_export.csv", "output CSV path for movies")
		ratingsOut = flag.String("ratings", "data/ratings_export.csv", "output CSV path for ratings")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := exportMovies(ctx, db, *moviesOut); err != nil {
		log.Fatalf("export movies failed: %v", err)
	}
	if err := exportRatings(ctx, db, *ratingsOut); err != nil {
		log.Fatalf("export ratings failed: %v", err)
	}

	log.Printf("exported movies to %s and ratings to %s", *moviesOut, *ratingsOut)
}

func exportMovies(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"id", "title", "year", "director", "genre", "rating",
		"description", "cast", "duration", "country", "language", "poster",
	}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT id, title, year, director, genre, rating, description, movie_cast, duration, country, language, poster
        FROM movies
        ORDER BY title
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id          string
			title       string
			year        sql.NullInt64
			director    sql.NullString
			genreJSON   string
			rating      sql.NullFloat64
			description sql.NullString
			castJSON    string
			duration    sql.NullString
			country     sql.NullString
			language    sql.NullString
			poster      sql.NullString
		)

		if err := rows.Scan(&id, &title, &year, &director, &genreJSON, &rating,
			&description, &castJSON, &duration, &country, &language, &poster); err != nil {
			return err
		}

		yearStr := ""
		if year.Valid && year.Int64 != 0 {
			yearStr = strconv.FormatInt(year.Int64, 10)
		}

		if err := w.Write([]string{
			id,
			title,
			yearStr,
			director.String,
			joinedList(genreJSON),
			strconv.FormatFloat(rating.Float64, 'f', 1, 64),
			description.String,
			joinedList(castJSON),
			duration.String,
			country.String,
			language.String,
			poster.String,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportRatings(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"movie_id", "user_id", "rating", "updated_at"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT movie_id, user_id, rating, updated_at
        FROM ratings
        ORDER BY updated_at DESC
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			movieID   string
			userID    string
			rating    int
			updatedAt sql.NullTime
		)

		if err := rows.Scan(&movieID, &userID, &rating, &updatedAt); err != nil {
			return err
		}

		updated := ""
		if updatedAt.Valid {
			updated = updatedAt.Time.Format(time.RFC3339)
		}

		if err := w.Write([]string{
			movieID,
			userID,
			strconv.Itoa(rating),
			updated,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

// joinedList flattens a stored JSON array into the comma form the
// import tool reads back.
func joinedList(jsonText string) string {
	var items []string
	if err := json.Unmarshal([]byte(jsonText), &items); err != nil {
		return jsonText
	}
	return strings.Join(items, ", ")
}
