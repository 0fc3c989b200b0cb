package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/erazemk/popcornhub/internal/api"
	"github.com/erazemk/popcornhub/internal/config"
	"github.com/erazemk/popcornhub/internal/db"
	"github.com/erazemk/popcornhub/internal/docstore"
)

// startApp wires the front end against a real data service over a JSON file,
// a TMDB stand-in that is always down, and miniredis.
func startApp(t *testing.T, authLimit int) (*httptest.Server, string) {
	t.Helper()

	dataFile := filepath.Join(t.TempDir(), "popcornhub.json")
	data := httptest.NewServer(docstore.NewServer(docstore.NewFileBackend(dataFile)))
	t.Cleanup(data.Close)

	tmdbDown := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_message":"maintenance"}`, http.StatusServiceUnavailable)
	}))
	t.Cleanup(tmdbDown.Close)

	cfg := config.Defaults()
	cfg.DataURL = data.URL
	cfg.TMDBBaseURL = tmdbDown.URL
	cfg.TMDBAPIKey = "test"
	cfg.RedisAddr = miniredis.RunT(t).Addr()
	cfg.AuthRateLimit = authLimit

	a, err := newApp(context.Background(), cfg, db.NewTestDB(t))
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	t.Cleanup(a.Close)

	server := httptest.NewServer(a.handler)
	t.Cleanup(server.Close)
	return server, dataFile
}

func send(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSignupRentAcrossServices(t *testing.T) {
	server, dataFile := startApp(t, 10)
	creds := map[string]string{"username": "dave", "password": "popcorn123"}

	if resp := send(t, http.MethodPost, server.URL+"/api/auth/signup", "", creds); resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", resp.StatusCode)
	}

	resp := send(t, http.MethodPost, server.URL+"/api/auth/login", "", creds)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		t.Fatalf("decoding login: %v", err)
	}

	resp = send(t, http.MethodGet, server.URL+"/api/films/603", login.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("film: expected 200, got %d", resp.StatusCode)
	}
	var detail struct {
		Film struct {
			Title string `json:"title"`
		} `json:"film"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		t.Fatalf("decoding film: %v", err)
	}
	if detail.Film.Title != "Film #603" {
		t.Errorf("expected a placeholder title, got %q", detail.Film.Title)
	}

	if resp := send(t, http.MethodPost, server.URL+"/api/films/603/rent", login.Token, nil); resp.StatusCode != http.StatusCreated {
		t.Fatalf("rent: expected 201, got %d", resp.StatusCode)
	}

	saved, err := os.ReadFile(dataFile)
	if err != nil {
		t.Fatalf("reading data file: %v", err)
	}
	if !strings.Contains(string(saved), `"movie_id": 603`) || !strings.Contains(string(saved), `"username": "dave"`) {
		t.Errorf("data file does not hold the rental and user:\n%s", saved)
	}
}

func TestRequestIDAndPages(t *testing.T) {
	server, _ := startApp(t, 10)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	req, _ := http.NewRequest(http.MethodGet, server.URL+"/", nil)
	req.Header.Set(api.RequestIDHeader, "req-42")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Errorf("expected redirect to /login, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if got := resp.Header.Get(api.RequestIDHeader); got != "req-42" {
		t.Errorf("expected request id to be echoed, got %q", got)
	}

	resp, err = client.Get(server.URL + "/static/style.css")
	if err != nil {
		t.Fatalf("GET style.css: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for static assets, got %d", resp.StatusCode)
	}
}

func TestAuthRateLimit(t *testing.T) {
	server, _ := startApp(t, 2)
	creds := map[string]string{"username": "nobody", "password": "whatever1"}

	for i, want := range []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests} {
		if resp := send(t, http.MethodPost, server.URL+"/api/auth/login", "", creds); resp.StatusCode != want {
			t.Errorf("attempt %d: expected %d, got %d", i+1, want, resp.StatusCode)
		}
	}
}
