// Package session persists the logged-in user's session the way the
// web client kept it in local storage: one opaque JSON record under a
// well-known path, read once at startup, written on login and profile
// changes, removed on logout.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"moviehub/pkg/models"
)

type Store struct {
	Path string
}

func NewStore(path string) *Store {
	return &Store{Path: path}
}

// DefaultPath is ~/.moviehub/session.json unless overridden with
// MOVIEHUB_SESSION_PATH.
func DefaultPath() string {
	if p := os.Getenv("MOVIEHUB_SESSION_PATH"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "./.moviehub-session.json"
	}
	return filepath.Join(home, ".moviehub", "session.json")
}

// Load reads the persisted session. A missing file is not an error:
// it returns (nil, nil), meaning nobody is logged in.
func (s *Store) Load() (*models.Session, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *Store) Save(sess *models.Session) error {
	if sess == nil {
		return errors.New("nil session")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("session dir: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the persisted session; clearing a missing session is
// a no-op.
func (s *Store) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// UpdatePreferences rewrites the stored session with a new preference
// list and returns the updated session.
func (s *Store) UpdatePreferences(prefs []string) (*models.Session, error) {
	sess, err := s.Load()
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, errors.New("no active session")
	}
	sess.Preferences = append([]string(nil), prefs...)
	if err := s.Save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}
