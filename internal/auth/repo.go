package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Preferences  []string  `json:"preferences"`
	TokenVersion int       `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         "user",
		Preferences:  []string{},
		CreatedAt:    time.Now().UTC(),
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, role, preferences, token_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role, "[]", u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getWhere(ctx, "username = ?", username)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getWhere(ctx, "id = ?", id)
}

func (r *Repo) getWhere(ctx context.Context, cond string, arg any) (*User, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, role, preferences, token_version, created_at
		FROM users WHERE `+cond, arg)

	var u User
	var prefs string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &prefs, &u.TokenVersion, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if err := json.Unmarshal([]byte(prefs), &u.Preferences); err != nil {
		u.Preferences = []string{}
	}
	if u.Preferences == nil {
		u.Preferences = []string{}
	}
	return &u, nil
}

func (r *Repo) GetTokenVersion(ctx context.Context, id string) (int, error) {
	var v int
	err := r.DB.QueryRowContext(ctx, `SELECT token_version FROM users WHERE id = ?`, id).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("token version: %w", err)
	}
	return v, nil
}

// BumpTokenVersion invalidates every token previously issued to the user.
func (r *Repo) BumpTokenVersion(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET token_version = token_version + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("bump token version: %w", err)
	}
	return nil
}

func (r *Repo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (r *Repo) UpdatePreferences(ctx context.Context, id string, prefs []string) error {
	if prefs == nil {
		prefs = []string{}
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, `UPDATE users SET preferences = ? WHERE id = ?`, string(data), id)
	if err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	return nil
}

func (r *Repo) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
