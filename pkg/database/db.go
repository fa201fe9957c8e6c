package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const envDBPath = "MOVIEHUB_DB_PATH"

type Config struct {
	Path string
}

// DefaultConfig resolves the database location: the MOVIEHUB_DB_PATH
// environment variable wins, otherwise ~/.moviehub/data.db.
func DefaultConfig() Config {
	if p := os.Getenv(envDBPath); p != "" {
		return Config{Path: p}
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return Config{Path: filepath.Join(home, ".moviehub", "data.db")}
}

// dsn turns a file path into a sqlite DSN with the pragmas every
// moviehub binary needs. WAL lets the API server and the CSV importers
// share the same file without stepping on each other.
func dsn(path string) string {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
}

func Open(cfg Config) (*sql.DB, error) {
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
	}

	// sql.Open is lazy; force the first connection so a bad path
	// surfaces at startup instead of on the first query
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", cfg.Path, err)
	}
	return db, nil
}

func MustOpen(cfg Config) *sql.DB {
	db, err := Open(cfg)
	if err != nil {
		log.Fatalf("[database] %v", err)
	}
	return db
}
