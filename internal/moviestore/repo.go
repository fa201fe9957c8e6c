package moviestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"moviehub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q      string   // keyword search in title/director
	Genres []string // any-match
	Year   int
	Limit  int
	Offset int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const movieColumns = `id, title, year, director, genre, rating, description, movie_cast, duration, country, language, poster`

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Movie, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		WHERE id = ?
	`, id)

	m, err := scanMovie(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByID: %w", err)
	}
	return m, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Movie, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Movie, 0, q.Limit)
	for rows.Next() {
		m, err := scanMovie(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// SaveMovies upserts the given catalog slice into the movies table.
// Genre and cast lists are stored as JSON text.
func (r *Repo) SaveMovies(ctx context.Context, movies []models.Movie) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO movies (`+movieColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  title = excluded.title,
		  year = excluded.year,
		  director = excluded.director,
		  genre = excluded.genre,
		  rating = excluded.rating,
		  description = excluded.description,
		  movie_cast = excluded.movie_cast,
		  duration = excluded.duration,
		  country = excluded.country,
		  language = excluded.language,
		  poster = excluded.poster
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, m := range movies {
		genreJSON, err := json.Marshal(m.Genre)
		if err != nil {
			return fmt.Errorf("marshal genre for %s: %w", m.ID, err)
		}
		castJSON, err := json.Marshal(m.Cast)
		if err != nil {
			return fmt.Errorf("marshal cast for %s: %w", m.ID, err)
		}

		if _, err := stmt.ExecContext(
			ctx,
			m.ID,
			m.Title,
			m.Year,
			m.Director,
			string(genreJSON),
			m.Rating,
			m.Description,
			string(castJSON),
			m.Duration,
			m.Country,
			m.Language,
			m.Poster,
		); err != nil {
			return fmt.Errorf("exec upsert for %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type Stats struct {
	Movies  int     `json:"movies"`
	Genres  int     `json:"genres"`
	AvgYear float64 `json:"avg_year"`
}

func (r *Repo) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	if err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(AVG(year), 0) FROM movies
	`).Scan(&s.Movies, &s.AvgYear); err != nil {
		return s, fmt.Errorf("stats scan: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT genre FROM movies`)
	if err != nil {
		return s, fmt.Errorf("stats genres: %w", err)
	}
	defer rows.Close()

	seen := map[string]bool{}
	for rows.Next() {
		var genreJSON string
		if err := rows.Scan(&genreJSON); err != nil {
			return s, fmt.Errorf("stats genre scan: %w", err)
		}
		var genres []string
		_ = json.Unmarshal([]byte(genreJSON), &genres)
		for _, g := range genres {
			seen[strings.ToLower(g)] = true
		}
	}
	s.Genres = len(seen)
	return s, rows.Err()
}

func scanMovie(scan func(dest ...any) error) (*models.Movie, error) {
	var (
		m           models.Movie
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

	if err := scan(
		&m.ID, &m.Title, &year, &director, &genreJSON, &rating,
		&description, &castJSON, &duration, &country, &language, &poster,
	); err != nil {
		return nil, err
	}

	m.Year = int(year.Int64)
	m.Director = director.String
	m.Rating = rating.Float64
	m.Description = description.String
	m.Duration = duration.String
	m.Country = country.String
	m.Language = language.String
	m.Poster = poster.String

	_ = json.Unmarshal([]byte(genreJSON), &m.Genre)
	_ = json.Unmarshal([]byte(castJSON), &m.Cast)
	if m.Genre == nil {
		m.Genre = []string{}
	}
	if m.Cast == nil {
		m.Cast = []string{}
	}
	return &m, nil
}

// buildListSQL builds either COUNT(*) or SELECT list.
// genre filter is "any-match" by doing LIKE searches inside stored JSON text.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `
		SELECT ` + movieColumns + `
		FROM movies
	`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM movies`
	}

	var where []string
	var args []any

	if strings.TrimSpace(q.Q) != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(director) LIKE ?)")
		kw := "%" + strings.ToLower(strings.TrimSpace(q.Q)) + "%"
		args = append(args, kw, kw)
	}

	if q.Year > 0 {
		where = append(where, "year = ?")
		args = append(args, q.Year)
	}

	// any-match genre filter against JSON string
	if len(q.Genres) > 0 {
		var genreOr []string
		for _, g := range q.Genres {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			genreOr = append(genreOr, "LOWER(genre) LIKE ?")
			args = append(args, `%`+strings.ToLower(g)+`%`)
		}
		if len(genreOr) > 0 {
			where = append(where, "("+strings.Join(genreOr, " OR ")+")")
		}
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY title ASC"
		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 500 {
			limit = 100
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}

	return sqlStr, args
}
