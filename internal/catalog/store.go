package catalog

import (
	"errors"
	"log"
	"sync"

	"moviehub/pkg/models"
)

// ErrNotFound is returned by GetByID when no movie has the given id.
var ErrNotFound = errors.New("movie not found")

// Store holds the normalized movie collection for the current session.
//
// A load replaces the whole collection; there is no incremental
// patching. All mutation goes through Load/Replace under one mutex so
// the store is safe with a concurrent runtime even though the logical
// model has a single mutator.
type Store struct {
	mu      sync.RWMutex
	movies  []models.Movie
	byID    map[string]int
	skipped int
}

func NewStore() *Store {
	return &Store{byID: make(map[string]int)}
}

// Load normalizes every raw record and replaces the collection.
// Records without an identity are dropped and counted, never fatal.
// Returns the number of skipped records.
func (s *Store) Load(raws []models.RawMovie) int {
	movies := make([]models.Movie, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		m, err := Normalize(raw)
		if err != nil {
			skipped++
			continue
		}
		movies = append(movies, m)
	}
	if skipped > 0 {
		log.Printf("[catalog] load skipped %d record(s) without identity", skipped)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies = movies
	s.byID = index(movies)
	s.skipped = skipped
	return skipped
}

// Replace swaps in an already-canonical collection.
func (s *Store) Replace(movies []models.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies = append([]models.Movie(nil), movies...)
	s.byID = index(s.movies)
	s.skipped = 0
}

// GetByID looks up a movie by exact string id. Ids are compared as
// strings regardless of how the source typed them, since numeric raw
// ids are stringified during normalization.
func (s *Store) GetByID(id string) (models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return models.Movie{}, ErrNotFound
	}
	return s.movies[i], nil
}

// All returns the collection in load order. The slice is a copy.
func (s *Store) All() []models.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Movie(nil), s.movies...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies)
}

// Skipped reports how many records the last load dropped.
func (s *Store) Skipped() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skipped
}

func index(movies []models.Movie) map[string]int {
	byID := make(map[string]int, len(movies))
	for i, m := range movies {
		if _, dup := byID[m.ID]; dup {
			continue // first occurrence wins
		}
		byID[m.ID] = i
	}
	return byID
}
