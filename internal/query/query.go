// Package query answers search, filter and sort requests over the
// catalog. All operations are pure reads: inputs are never mutated and
// results are fresh slices.
package query

import (
	"context"
	"log"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"moviehub/internal/catalog"
	"moviehub/internal/ledger"
	"moviehub/pkg/models"
)

// DefaultLimit bounds TopRated and Latest when the caller passes none.
const DefaultLimit = 10

type SortKey string

const (
	SortTitle  SortKey = "title"
	SortRating SortKey = "rating"
	SortYear   SortKey = "year"
)

// Engine reads the catalog store and, when a ledger is attached, ranks
// by the ledger-authoritative average rating (falling back to each
// movie's server-aggregate rating field).
type Engine struct {
	store  *catalog.Store
	ledger ledger.Ledger
	coll   *collate.Collator
}

// New builds an engine. led may be nil, in which case the movies' own
// rating fields are the only rating authority.
func New(store *catalog.Store, led ledger.Ledger) *Engine {
	return &Engine{
		store:  store,
		ledger: led,
		coll:   collate.New(language.English),
	}
}

// Search returns movies whose title, director or any genre element
// contains the query, case-insensitively. An empty query returns the
// full catalog.
func (e *Engine) Search(q string) []models.Movie {
	all := e.store.All()
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return all
	}

	out := make([]models.Movie, 0, len(all))
	for _, m := range all {
		if matches(m, q) {
			out = append(out, m)
		}
	}
	return out
}

func matches(m models.Movie, q string) bool {
	if strings.Contains(strings.ToLower(m.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(m.Director), q) {
		return true
	}
	for _, g := range m.Genre {
		if strings.Contains(strings.ToLower(g), q) {
			return true
		}
	}
	return false
}

// FilterByGenre keeps movies whose genre list contains g exactly.
func (e *Engine) FilterByGenre(g string) []models.Movie {
	return filterByGenre(e.store.All(), g)
}

func filterByGenre(movies []models.Movie, g string) []models.Movie {
	out := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		for _, have := range m.Genre {
			if have == g {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// SortBy orders a copy of movies by the given key: title ascending
// with locale-aware collation, rating and year descending. The sort is
// stable, so ties keep their prior relative order. An unknown key
// returns the input order unchanged.
func (e *Engine) SortBy(ctx context.Context, movies []models.Movie, key SortKey) []models.Movie {
	out := append([]models.Movie(nil), movies...)

	switch key {
	case SortTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return e.coll.CompareString(out[i].Title, out[j].Title) < 0
		})
	case SortRating:
		ratings := e.effectiveRatings(ctx, out)
		sort.SliceStable(out, func(i, j int) bool {
			return ratings[out[i].ID] > ratings[out[j].ID]
		})
	case SortYear:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Year > out[j].Year
		})
	}
	return out
}

// TopRated returns the limit highest-rated movies (default 10).
func (e *Engine) TopRated(ctx context.Context, limit int) []models.Movie {
	return take(e.SortBy(ctx, e.store.All(), SortRating), limit)
}

// Latest returns the limit most recent movies by year (default 10).
func (e *Engine) Latest(ctx context.Context, limit int) []models.Movie {
	return take(e.SortBy(ctx, e.store.All(), SortYear), limit)
}

// Apply composes the UI's standard pipeline in its fixed order:
// search, then genre filter, then sort. Empty query and genre are
// pass-throughs; an empty key keeps catalog order.
func (e *Engine) Apply(ctx context.Context, q, genre string, key SortKey) []models.Movie {
	out := e.Search(q)
	if genre != "" {
		out = filterByGenre(out, genre)
	}
	if key != "" {
		out = e.SortBy(ctx, out, key)
	}
	return out
}

// effectiveRatings resolves each movie's ranking value once per sort.
// Ledger errors fall back to the movie's own aggregate field; a sort
// should never fail because the rating backend hiccupped.
func (e *Engine) effectiveRatings(ctx context.Context, movies []models.Movie) map[string]float64 {
	out := make(map[string]float64, len(movies))
	for _, m := range movies {
		out[m.ID] = m.Rating
		if e.ledger == nil {
			continue
		}
		avg, err := e.ledger.AverageRating(ctx, m.ID, m.Rating)
		if err != nil {
			log.Printf("[query] average rating for %s: %v", m.ID, err)
			continue
		}
		out[m.ID] = avg
	}
	return out
}

func take(movies []models.Movie, limit int) []models.Movie {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(movies) > limit {
		movies = movies[:limit]
	}
	return movies
}
