package catalog

import (
	"errors"
	"testing"

	"moviehub/pkg/models"
)

func TestStoreLoadSkipsBadRecords(t *testing.T) {
	s := NewStore()
	skipped := s.Load([]models.RawMovie{
		{ID: "1", Title: "Heat"},
		{Title: "no identity"},
		{MongoID: "abc", Title: "Memento"},
		{},
	})

	if skipped != 2 {
		t.Fatalf("Load skipped = %d, want 2", skipped)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if s.Skipped() != 2 {
		t.Errorf("Skipped() = %d, want 2", s.Skipped())
	}

	all := s.All()
	if all[0].Title != "Heat" || all[1].Title != "Memento" {
		t.Errorf("load order not preserved: %v, %v", all[0].Title, all[1].Title)
	}
}

func TestStoreLoadReplacesWholesale(t *testing.T) {
	s := NewStore()
	s.Load([]models.RawMovie{{ID: "1", Title: "First"}})
	s.Load([]models.RawMovie{{ID: "2", Title: "Second"}})

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after reload", s.Len())
	}
	if _, err := s.GetByID("1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(old id) error = %v, want ErrNotFound", err)
	}
	if m, err := s.GetByID("2"); err != nil || m.Title != "Second" {
		t.Errorf("GetByID(2) = %+v, %v", m, err)
	}
}

func TestStoreGetByID(t *testing.T) {
	s := NewStore()
	s.Load([]models.RawMovie{
		{MovieID: "42", Title: "Heat"},
		{ID: "abc", Title: "Memento"},
	})

	// numeric source id is looked up as a string
	m, err := s.GetByID("42")
	if err != nil {
		t.Fatalf("GetByID(42) error = %v", err)
	}
	if m.Title != "Heat" {
		t.Errorf("Title = %q, want Heat", m.Title)
	}

	if _, err := s.GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStoreAllReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Load([]models.RawMovie{{ID: "1", Title: "Heat"}})

	all := s.All()
	all[0].Title = "mutated"

	m, _ := s.GetByID("1")
	if m.Title != "Heat" {
		t.Errorf("store mutated through All(): %q", m.Title)
	}
}
