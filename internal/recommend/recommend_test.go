package recommend

import (
	"fmt"
	"testing"

	"moviehub/internal/catalog"
	"moviehub/pkg/models"
)

func fixedCatalog() []models.Movie {
	return []models.Movie{
		{ID: "1", Title: "Inception", Genre: []string{"Sci-Fi", "Action", "Thriller"}, Rating: 8.8},
		{ID: "2", Title: "The Matrix", Genre: []string{"Sci-Fi", "Action"}, Rating: 8.7},
		{ID: "3", Title: "Goodfellas", Genre: []string{"Crime"}, Rating: 8.7},
		{ID: "4", Title: "Blade Runner", Genre: []string{"Sci-Fi"}, Rating: 8.1},
		{ID: "5", Title: "Heat", Genre: []string{"Action", "Crime"}, Rating: 8.2},
	}
}

func TestRankEmptyPreferences(t *testing.T) {
	movies := make([]models.Movie, 8)
	for i := range movies {
		movies[i] = models.Movie{ID: fmt.Sprintf("%d", i), Title: fmt.Sprintf("Movie %d", i)}
	}

	got := Rank(movies, nil, 6)
	if len(got) != 6 {
		t.Fatalf("len = %d, want 6", len(got))
	}
	for i, m := range got {
		if m.ID != fmt.Sprintf("%d", i) {
			t.Errorf("position %d = %s, want catalog order", i, m.ID)
		}
	}
}

func TestRankScoresAndTiebreak(t *testing.T) {
	got := Rank(fixedCatalog(), []string{"Sci-Fi", "Action"}, 6)

	want := []string{"Inception", "The Matrix", "Heat", "Blade Runner"}
	if len(got) != len(want) {
		t.Fatalf("Rank = %d results, want %d (score-0 movies dropped)", len(got), len(want))
	}
	for i := range want {
		if got[i].Title != want[i] {
			t.Errorf("rank[%d] = %s, want %s", i, got[i].Title, want[i])
		}
	}

	// Goodfellas (Crime only) must be excluded entirely
	for _, m := range got {
		if m.Title == "Goodfellas" {
			t.Errorf("score-0 movie included")
		}
	}
}

func TestRankRatingTiebreak(t *testing.T) {
	movies := []models.Movie{
		{ID: "low", Genre: []string{"Drama"}, Rating: 6.0},
		{ID: "high", Genre: []string{"Drama"}, Rating: 9.0},
	}
	got := Rank(movies, []string{"Drama"}, 6)
	if got[0].ID != "high" {
		t.Errorf("tie not broken by rating: %v", got[0].ID)
	}
}

func TestRankDeterministic(t *testing.T) {
	a := Rank(fixedCatalog(), []string{"Sci-Fi", "Crime"}, 6)
	b := Rank(fixedCatalog(), []string{"Sci-Fi", "Crime"}, 6)
	if len(a) != len(b) {
		t.Fatal("non-deterministic length")
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Errorf("non-deterministic order at %d: %s vs %s", i, a[i].ID, b[i].ID)
		}
	}
}

func TestRankLimit(t *testing.T) {
	got := Rank(fixedCatalog(), []string{"Sci-Fi", "Action", "Crime"}, 2)
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
	// default limit applies when zero
	got = Rank(fixedCatalog(), nil, 0)
	if len(got) != 5 {
		t.Errorf("default-limit len = %d, want full 5-movie catalog", len(got))
	}
}

func TestScorerUsesStore(t *testing.T) {
	s := catalog.NewStore()
	s.Replace(fixedCatalog())
	got := New(s).Recommend([]string{"Crime"}, 6)
	if len(got) != 2 || got[0].Title != "Goodfellas" {
		t.Errorf("Recommend(Crime) = %v", got)
	}
}
