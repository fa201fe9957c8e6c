package catalog

import (
	"errors"
	"strings"

	"moviehub/pkg/models"
)

// PlaceholderPoster is used when a source record carries no poster URL.
const PlaceholderPoster = "https://via.placeholder.com/300x450?text=No+Image"

// ErrMissingIdentity marks a raw record that carries no id under any of
// the known keys. Such records are dropped; we never synthesize an id.
var ErrMissingIdentity = errors.New("movie record has no id")

// Normalize maps a raw source record into the canonical Movie shape.
//
// Identity is resolved in order id, _id, movieId. Genre and cast are
// already list-coerced by the wire types; here they are trimmed and
// guaranteed non-nil. Missing scalars get their documented defaults.
// Normalize is pure and idempotent: a canonical movie round-tripped
// through Raw() normalizes to itself.
func Normalize(raw models.RawMovie) (models.Movie, error) {
	id := firstID(raw.ID, raw.MongoID, raw.MovieID)
	if id == "" {
		return models.Movie{}, ErrMissingIdentity
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = "Untitled"
	}

	poster := strings.TrimSpace(raw.Poster)
	if poster == "" {
		poster = PlaceholderPoster
	}

	return models.Movie{
		ID:          id,
		Title:       title,
		Year:        int(raw.Year),
		Director:    strings.TrimSpace(raw.Director),
		Genre:       cleanList(raw.Genre),
		Rating:      raw.Rating,
		Description: raw.Description,
		Cast:        cleanList(raw.Cast),
		Duration:    strings.TrimSpace(raw.Duration),
		Country:     strings.TrimSpace(raw.Country),
		Language:    strings.TrimSpace(raw.Language),
		Poster:      poster,
	}, nil
}

func firstID(ids ...models.FlexID) string {
	for _, id := range ids {
		if s := strings.TrimSpace(string(id)); s != "" {
			return s
		}
	}
	return ""
}

// cleanList trims each element and drops empties, keeping order and
// duplicates. Never returns nil.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
