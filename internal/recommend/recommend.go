// Package recommend ranks the catalog against a user's genre
// preferences.
package recommend

import (
	"sort"

	"moviehub/internal/catalog"
	"moviehub/pkg/models"
)

// DefaultLimit is used when callers pass no limit.
const DefaultLimit = 6

// Scorer binds the ranking to a catalog store for client-side use.
type Scorer struct {
	store *catalog.Store
}

func New(store *catalog.Store) *Scorer {
	return &Scorer{store: store}
}

// Recommend ranks the catalog against prefs. With no preferences it
// returns the first limit movies in catalog order, a neutral fallback
// for users who have not picked genres yet.
func (s *Scorer) Recommend(prefs []string, limit int) []models.Movie {
	return Rank(s.store.All(), prefs, limit)
}

// Rank scores each movie by how many preference genres appear in its
// genre list, drops zero-score movies, and orders by score descending
// with the movie's aggregate rating as the tiebreaker. The sort is
// stable, so a fixed catalog and preference list always produce the
// same order.
func Rank(movies []models.Movie, prefs []string, limit int) []models.Movie {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(prefs) == 0 {
		if len(movies) > limit {
			movies = movies[:limit]
		}
		return append([]models.Movie(nil), movies...)
	}

	type scored struct {
		movie models.Movie
		score int
	}
	ranked := make([]scored, 0, len(movies))
	for _, m := range movies {
		if n := Score(m, prefs); n > 0 {
			ranked = append(ranked, scored{movie: m, score: n})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].movie.Rating > ranked[j].movie.Rating
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]models.Movie, len(ranked))
	for i, r := range ranked {
		out[i] = r.movie
	}
	return out
}

// Score counts how many preference genres the movie carries. Matching
// is exact: preferences come from the same normalized genre vocabulary
// the catalog uses.
func Score(m models.Movie, prefs []string) int {
	n := 0
	for _, p := range prefs {
		for _, g := range m.Genre {
			if g == p {
				n++
				break
			}
		}
	}
	return n
}
