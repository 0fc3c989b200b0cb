package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestProvider(t *testing.T) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /movie/603", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "key" {
			http.Error(w, "missing key", http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("language") != "fr-FR" {
			http.Error(w, "wrong language", http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{
			"id": 603, "title": "Matrix", "release_date": "1999-03-31",
			"overview": "Un pirate informatique...", "poster_path": "/matrix.jpg",
			"genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science-Fiction"}],
			"credits": {
				"cast": [
					{"name": "Keanu Reeves", "character": "Neo", "profile_path": "/keanu.jpg"},
					{"name": "Laurence Fishburne", "character": "Morpheus"},
					{"name": "A"}, {"name": "B"}, {"name": "C"}, {"name": "D"},
					{"name": "E"}, {"name": "F"}, {"name": "G"}
				],
				"crew": [
					{"name": "Lana Wachowski", "job": "Director"},
					{"name": "Joel Silver", "job": "Producer"},
					{"name": "Lilly Wachowski", "job": "Director"}
				]
			}
		}`))
	})
	mux.HandleFunc("GET /movie/popular", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "2" {
			http.Error(w, "wrong page", http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"page": 2, "total_pages": 500, "total_results": 10000,
			"results": [{"id": 1, "title": "One", "release_date": "2020-01-01"}, {"id": 2, "title": "Two"}]}`))
	})
	mux.HandleFunc("GET /search/movie", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") != "Matrix" {
			w.Write([]byte(`{"page": 1, "results": []}`))
			return
		}
		w.Write([]byte(`{"page": 1, "total_pages": 1, "total_results": 1, "results": [{"id": 603, "title": "Matrix"}]}`))
	})
	mux.HandleFunc("GET /movie/603/videos", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [
			{"key": "teaser", "site": "YouTube", "type": "Teaser", "iso_639_1": "fr"},
			{"key": "en-trailer", "site": "YouTube", "type": "Trailer", "iso_639_1": "en"},
			{"key": "vimeo", "site": "Vimeo", "type": "Trailer", "iso_639_1": "fr"},
			{"key": "fr-trailer", "site": "YouTube", "type": "Trailer", "iso_639_1": "fr"}
		]}`))
	})
	mux.HandleFunc("GET /search/person", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") != "Keanu Reeves" {
			w.Write([]byte(`{"results": []}`))
			return
		}
		w.Write([]byte(`{"results": [{"id": 6384, "name": "Keanu Reeves", "known_for_department": "Acting", "profile_path": "/keanu.jpg"}]}`))
	})
	mux.HandleFunc("GET /person/6384/movie_credits", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cast": [{"id": 603, "title": "Matrix"}, {"id": 245891, "title": "John Wick"}]}`))
	})
	mux.HandleFunc("GET /genre/movie/list", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"genres": [{"id": 28, "name": "Action"}, {"id": 35, "name": "Comédie"}]}`))
	})
	mux.HandleFunc("GET /movie/404", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_message": "not found"}`, http.StatusNotFound)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewClient(Config{BaseURL: srv.URL, ImageBase: "https://img.test/t/p", APIKey: "key"})
}

func TestFilm(t *testing.T) {
	c := newTestProvider(t)

	f, err := c.Film(context.Background(), 603)
	if err != nil {
		t.Fatalf("Film: %v", err)
	}
	if f.Title != "Matrix" || f.Year != 1999 {
		t.Errorf("title/year = %q/%d", f.Title, f.Year)
	}
	if f.Director != "Lana Wachowski, Lilly Wachowski" {
		t.Errorf("director = %q", f.Director)
	}
	if f.PosterURL != "https://img.test/t/p/w500/matrix.jpg" {
		t.Errorf("poster = %q", f.PosterURL)
	}
	if len(f.Genres) != 2 || f.Genres[1] != "Science-Fiction" {
		t.Errorf("genres = %v", f.Genres)
	}
	if len(f.Cast) != MaxCast {
		t.Fatalf("cast = %d, want %d", len(f.Cast), MaxCast)
	}
	if f.Cast[0].ProfileURL != "https://img.test/t/p/w185/keanu.jpg" {
		t.Errorf("profile = %q", f.Cast[0].ProfileURL)
	}
	if f.Cast[1].ProfileURL != "" {
		t.Errorf("missing profile should stay empty, got %q", f.Cast[1].ProfileURL)
	}
}

func TestFilmNotFound(t *testing.T) {
	c := newTestProvider(t)

	_, err := c.Film(context.Background(), 404)
	var upErr *UpstreamUnavailableError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamUnavailableError, got %v", err)
	}
}

func TestUnreachableProvider(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Popular(context.Background(), 1)
	var upErr *UpstreamUnavailableError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamUnavailableError, got %v", err)
	}
}

func TestPopular(t *testing.T) {
	c := newTestProvider(t)

	p, err := c.Popular(context.Background(), 2)
	if err != nil {
		t.Fatalf("Popular: %v", err)
	}
	if p.Page != 2 || p.TotalPages != 500 || len(p.Films) != 2 {
		t.Errorf("page = %+v", p)
	}
	if p.Films[0].Year != 2020 || p.Films[1].Year != 0 {
		t.Errorf("years = %d, %d", p.Films[0].Year, p.Films[1].Year)
	}
}

func TestTrailerKeyPrefersLanguage(t *testing.T) {
	c := newTestProvider(t)

	key, err := c.TrailerKey(context.Background(), "Matrix", 1999)
	if err != nil {
		t.Fatalf("TrailerKey: %v", err)
	}
	if key != "fr-trailer" {
		t.Errorf("key = %q, want fr-trailer", key)
	}

	c.Language = "de-DE"
	key, err = c.TrailerKey(context.Background(), "Matrix", 0)
	if err != nil {
		t.Fatalf("TrailerKey: %v", err)
	}
	if key != "en-trailer" {
		t.Errorf("fallback key = %q, want en-trailer", key)
	}

	key, err = c.TrailerKey(context.Background(), "Nothing", 0)
	if err != nil || key != "" {
		t.Errorf("no match = %q, %v", key, err)
	}
}

func TestSearchPerson(t *testing.T) {
	c := newTestProvider(t)

	p, err := c.SearchPerson(context.Background(), "Keanu Reeves")
	if err != nil {
		t.Fatalf("SearchPerson: %v", err)
	}
	if p == nil || p.ID != 6384 || p.ProfileURL != "https://img.test/t/p/w185/keanu.jpg" {
		t.Fatalf("person = %+v", p)
	}

	films, err := c.PersonFilms(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("PersonFilms: %v", err)
	}
	if len(films) != 2 {
		t.Errorf("films = %d, want 2", len(films))
	}

	none, err := c.SearchPerson(context.Background(), "Nobody")
	if err != nil || none != nil {
		t.Errorf("unknown person = %+v, %v", none, err)
	}
}

func TestGenres(t *testing.T) {
	c := newTestProvider(t)

	genres, err := c.Genres(context.Background())
	if err != nil {
		t.Fatalf("Genres: %v", err)
	}
	if len(genres) != 2 || genres[1].Name != "Comédie" {
		t.Errorf("genres = %+v", genres)
	}
}

type countingLookup struct {
	calls atomic.Int32
}

func (l *countingLookup) Film(_ context.Context, id int64) (*Film, error) {
	l.calls.Add(1)
	if id%2 == 0 {
		return nil, &UpstreamUnavailableError{Op: "film", Err: errors.New("boom")}
	}
	return &Film{ID: id, Title: "ok"}, nil
}

func TestFetchFilmsFallsBackToPlaceholder(t *testing.T) {
	lookup := &countingLookup{}

	films := FetchFilms(context.Background(), lookup, []int64{1, 2, 3, 4}, 2)
	if len(films) != 4 {
		t.Fatalf("len = %d, want 4", len(films))
	}
	if films[1].Title != "ok" || films[3].Title != "ok" {
		t.Errorf("resolved films = %+v %+v", films[1], films[3])
	}
	if films[2].Title != "Film #2" {
		t.Errorf("placeholder title = %q", films[2].Title)
	}
	if lookup.calls.Load() != 4 {
		t.Errorf("calls = %d, want 4", lookup.calls.Load())
	}
}
