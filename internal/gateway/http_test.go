package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"moviehub/pkg/models"
)

func TestHTTPBackendFetchMoviesEnvelope(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"movies":[{"_id":"a1","title":"Inception","genre":"Sci-Fi, Action"},{"movieId":42,"title":"Heat"}]}`))
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL)
	raws, err := b.FetchMovies(context.Background(), &models.Session{Token: "tok"})
	if err != nil {
		t.Fatalf("FetchMovies() error = %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if len(raws) != 2 {
		t.Fatalf("got %d raws, want 2", len(raws))
	}
	if string(raws[0].MongoID) != "a1" || len(raws[0].Genre) != 2 {
		t.Errorf("raw[0] = %+v", raws[0])
	}
	if string(raws[1].MovieID) != "42" {
		t.Errorf("numeric movieId = %q, want \"42\"", raws[1].MovieID)
	}
}

func TestHTTPBackendFetchMoviesBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"1","title":"Heat"}]`))
	}))
	defer srv.Close()

	raws, err := NewHTTPBackend(srv.URL).FetchMovies(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchMovies() error = %v", err)
	}
	if len(raws) != 1 || raws[0].Title != "Heat" {
		t.Errorf("raws = %+v", raws)
	}
}

func TestHTTPBackendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewHTTPBackend(srv.URL).FetchMovies(context.Background(), nil); err == nil {
		t.Error("expected error on 500 response")
	}
}

func TestHTTPBackendFetchRecommendationsSendsPreferences(t *testing.T) {
	var gotBody struct {
		Preferences []string `json:"preferences"`
		Limit       int      `json:"limit"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/recommendations" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Write([]byte(`{"recommendations":[{"id":"1","title":"Inception"}]}`))
	}))
	defer srv.Close()

	sess := &models.Session{Token: "tok", Preferences: []string{"Sci-Fi", "Action"}}
	raws, err := NewHTTPBackend(srv.URL).FetchRecommendations(context.Background(), sess, 6)
	if err != nil {
		t.Fatalf("FetchRecommendations() error = %v", err)
	}
	if len(raws) != 1 {
		t.Fatalf("got %d raws, want 1", len(raws))
	}
	if gotBody.Limit != 6 {
		t.Errorf("limit = %d, want 6", gotBody.Limit)
	}
	if len(gotBody.Preferences) != 2 || gotBody.Preferences[0] != "Sci-Fi" || gotBody.Preferences[1] != "Action" {
		t.Errorf("preferences in request = %v, want the session's list", gotBody.Preferences)
	}
}

func TestHTTPBackendUpdatePreferences(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody struct {
		Preferences []string `json:"preferences"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Write([]byte(`{"preferences":["Drama"]}`))
	}))
	defer srv.Close()

	sess := &models.Session{Token: "tok"}
	if err := NewHTTPBackend(srv.URL).UpdatePreferences(context.Background(), sess, []string{"Drama"}); err != nil {
		t.Fatalf("UpdatePreferences() error = %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/api/preferences" {
		t.Errorf("request = %s %s, want PUT /api/preferences", gotMethod, gotPath)
	}
	if len(gotBody.Preferences) != 1 || gotBody.Preferences[0] != "Drama" {
		t.Errorf("preferences in request = %v", gotBody.Preferences)
	}
}

func TestHTTPBackendLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"token":"tok","user":{"id":"u1","username":"alice","role":"admin","preferences":["Sci-Fi"]}}`))
	}))
	defer srv.Close()

	sess, err := NewHTTPBackend(srv.URL).Login(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if sess.ID != "u1" || sess.Token != "tok" || sess.Role != "admin" {
		t.Errorf("session = %+v", sess)
	}
	if len(sess.Preferences) != 1 || sess.Preferences[0] != "Sci-Fi" {
		t.Errorf("preferences = %v", sess.Preferences)
	}
}

func TestHTTPBackendLoginTokenOnly(t *testing.T) {
	// HS256 token with sub "u9"; signature is irrelevant to the client
	tok := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
		"eyJzdWIiOiJ1OSJ9." +
		"invalid-signature"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"` + tok + `"}`))
	}))
	defer srv.Close()

	sess, err := NewHTTPBackend(srv.URL).Login(context.Background(), "bob", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if sess.ID != "u9" {
		t.Errorf("subject from token = %q, want u9", sess.ID)
	}
	if sess.Role != models.RoleUser {
		t.Errorf("default role = %q, want user", sess.Role)
	}
}
