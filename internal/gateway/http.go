package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"moviehub/pkg/models"
)

// HTTPBackend is the remote movie API client. It only ships raw
// records; normalization happens in the gateway.
type HTTPBackend struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPBackend(baseURL string) *HTTPBackend {
	return &HTTPBackend{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (b *HTTPBackend) FetchMovies(ctx context.Context, sess *models.Session) ([]models.RawMovie, error) {
	data, err := b.do(ctx, http.MethodGet, "/api/movies", token(sess), nil)
	if err != nil {
		return nil, err
	}
	return decodeMovieList(data, "movies")
}

func (b *HTTPBackend) FetchMovie(ctx context.Context, sess *models.Session, id string) (models.RawMovie, error) {
	data, err := b.do(ctx, http.MethodGet, "/api/movies/"+id, token(sess), nil)
	if err != nil {
		return models.RawMovie{}, err
	}
	var raw models.RawMovie
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.RawMovie{}, fmt.Errorf("decode movie: %w", err)
	}
	return raw, nil
}

func (b *HTTPBackend) SubmitRating(ctx context.Context, sess *models.Session, movieID string, value int) error {
	payload := map[string]any{"movie_id": movieID, "rating": value}
	_, err := b.do(ctx, http.MethodPost, "/api/rate", token(sess), payload)
	return err
}

func (b *HTTPBackend) SubmitReview(ctx context.Context, sess *models.Session, movieID, text string, rating int) error {
	payload := map[string]any{"movie_id": movieID, "rating": rating, "text": text}
	_, err := b.do(ctx, http.MethodPost, "/api/reviews", token(sess), payload)
	return err
}

func (b *HTTPBackend) FetchRecommendations(ctx context.Context, sess *models.Session, limit int) ([]models.RawMovie, error) {
	payload := map[string]any{"limit": limit}
	if sess != nil && len(sess.Preferences) > 0 {
		payload["preferences"] = sess.Preferences
	}
	data, err := b.do(ctx, http.MethodPost, "/api/recommendations", token(sess), payload)
	if err != nil {
		return nil, err
	}
	return decodeMovieList(data, "recommendations")
}

// UpdatePreferences stores the preference list on the user's profile
// so server-side recommendations rank with it.
func (b *HTTPBackend) UpdatePreferences(ctx context.Context, sess *models.Session, prefs []string) error {
	payload := map[string]any{"preferences": prefs}
	_, err := b.do(ctx, http.MethodPut, "/api/preferences", token(sess), payload)
	return err
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID          string   `json:"id"`
		Username    string   `json:"username"`
		Email       string   `json:"email"`
		Role        string   `json:"role"`
		Preferences []string `json:"preferences"`
	} `json:"user"`
}

func (b *HTTPBackend) Login(ctx context.Context, username, password string) (*models.Session, error) {
	payload := map[string]string{"username": username, "password": password}
	data, err := b.do(ctx, http.MethodPost, "/api/login", "", payload)
	if err != nil {
		return nil, err
	}

	var resp loginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}

	sess := &models.Session{
		ID:          resp.User.ID,
		Email:       username,
		Name:        resp.User.Username,
		Role:        resp.User.Role,
		Token:       resp.Token,
		Preferences: resp.User.Preferences,
	}
	if sess.Role == "" {
		sess.Role = models.RoleUser
	}
	// servers that only return a token still identify the user inside it
	if sess.ID == "" {
		sess.ID = subjectOf(resp.Token)
	}
	return sess, nil
}

func (b *HTTPBackend) Register(ctx context.Context, username, password string) error {
	payload := map[string]string{"username": username, "password": password}
	_, err := b.do(ctx, http.MethodPost, "/api/register", "", payload)
	return err
}

func (b *HTTPBackend) do(ctx context.Context, method, path, bearer string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s failed: status %d: %s",
			method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}

// decodeMovieList accepts both response shapes the API is known to
// produce: {"<key>": [...]} and a bare array.
func decodeMovieList(data []byte, key string) ([]models.RawMovie, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var raws []models.RawMovie
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("decode movie list: %w", err)
		}
		return raws, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode movie list: %w", err)
	}
	inner, ok := envelope[key]
	if !ok {
		return nil, fmt.Errorf("movie list response has no %q field", key)
	}
	var raws []models.RawMovie
	if err := json.Unmarshal(inner, &raws); err != nil {
		return nil, fmt.Errorf("decode movie list: %w", err)
	}
	return raws, nil
}

func token(sess *models.Session) string {
	if sess == nil {
		return ""
	}
	return sess.Token
}

// subjectOf extracts the subject claim without verifying the
// signature; the token is the server's to verify, the client only
// needs the identity for display and ledger keys.
func subjectOf(tok string) string {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}
