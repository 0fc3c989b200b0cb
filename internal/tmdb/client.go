// Package tmdb is a small client for The Movie Database API. Every lookup is
// best-effort: failures are reported as *UpstreamUnavailableError and callers
// render a placeholder instead.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Defaults.
const (
	DefaultBaseURL   = "https://api.themoviedb.org/3"
	DefaultImageBase = "https://image.tmdb.org/t/p"
	DefaultLanguage  = "fr-FR"
	DefaultTimeout   = 5 * time.Second

	PosterSize  = "w500"
	ProfileSize = "w185"

	// MaxCast is how many cast members a film detail carries.
	MaxCast = 8
)

// UpstreamUnavailableError reports a failed metadata lookup.
type UpstreamUnavailableError struct {
	Op  string
	Err error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("metadata provider %s: %v", e.Op, e.Err)
}

func (e *UpstreamUnavailableError) Unwrap() error { return e.Err }

// Config configures a Client. Zero fields take the defaults.
type Config struct {
	BaseURL   string
	ImageBase string
	APIKey    string
	Language  string
	Timeout   time.Duration
}

// Client queries the metadata provider.
type Client struct {
	BaseURL   string
	ImageBase string
	APIKey    string
	Language  string
	HTTP      *http.Client
}

// NewClient returns a client for cfg.
func NewClient(cfg Config) *Client {
	c := &Client{
		BaseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		ImageBase: strings.TrimRight(cfg.ImageBase, "/"),
		APIKey:    cfg.APIKey,
		Language:  cfg.Language,
		HTTP:      &http.Client{Timeout: cfg.Timeout},
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.ImageBase == "" {
		c.ImageBase = DefaultImageBase
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if cfg.Timeout <= 0 {
		c.HTTP.Timeout = DefaultTimeout
	}
	return c
}

// ImageURL builds an image URL, or "" when path is empty.
func (c *Client) ImageURL(size, path string) string {
	if path == "" {
		return ""
	}
	return c.ImageBase + "/" + size + path
}

// get fetches path with the API key and language set and decodes the JSON
// response into out.
func (c *Client) get(ctx context.Context, op, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.APIKey)
	if params.Get("language") == "" {
		params.Set("language", c.Language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return &UpstreamUnavailableError{Op: op, Err: err}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &UpstreamUnavailableError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &UpstreamUnavailableError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamUnavailableError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// Film resolves a film with its director and leading cast.
func (c *Client) Film(ctx context.Context, id int64) (*Film, error) {
	var m movie
	params := url.Values{"append_to_response": {"credits"}}
	if err := c.get(ctx, "film", "/movie/"+strconv.FormatInt(id, 10), params, &m); err != nil {
		return nil, err
	}
	return c.toFilm(m), nil
}

// Popular returns a page of popular films.
func (c *Client) Popular(ctx context.Context, page int) (*Page, error) {
	return c.page(ctx, "popular", "/movie/popular", url.Values{}, page)
}

// Search returns films matching query, optionally restricted to a release year.
func (c *Client) Search(ctx context.Context, query string, year, page int) (*Page, error) {
	params := url.Values{"query": {query}}
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}
	return c.page(ctx, "search", "/search/movie", params, page)
}

// Discover returns films of a genre.
func (c *Client) Discover(ctx context.Context, genreID int64, page int) (*Page, error) {
	params := url.Values{"with_genres": {strconv.FormatInt(genreID, 10)}}
	return c.page(ctx, "discover", "/discover/movie", params, page)
}

func (c *Client) page(ctx context.Context, op, path string, params url.Values, page int) (*Page, error) {
	params.Set("page", strconv.Itoa(max(page, 1)))
	var p moviePage
	if err := c.get(ctx, op, path, params, &p); err != nil {
		return nil, err
	}

	out := &Page{
		Page:         p.Page,
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
		Films:        make([]Film, 0, len(p.Results)),
	}
	for _, m := range p.Results {
		out.Films = append(out.Films, *c.toFilm(m))
	}
	return out, nil
}

// Genres lists the film genres.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	var body struct {
		Genres []Genre `json:"genres"`
	}
	if err := c.get(ctx, "genres", "/genre/movie/list", nil, &body); err != nil {
		return nil, err
	}
	return body.Genres, nil
}

// SearchPerson returns the best match for name, or nil when nothing matches.
func (c *Client) SearchPerson(ctx context.Context, name string) (*Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	var body struct {
		Results []person `json:"results"`
	}
	params := url.Values{"query": {name}, "include_adult": {"false"}}
	if err := c.get(ctx, "person search", "/search/person", params, &body); err != nil {
		return nil, err
	}
	if len(body.Results) == 0 {
		return nil, nil
	}

	p := body.Results[0]
	return &Person{
		ID:         p.ID,
		Name:       p.Name,
		Department: p.KnownForDepartment,
		ProfileURL: c.ImageURL(ProfileSize, p.ProfilePath),
	}, nil
}

// PersonFilms lists the films a person appeared in.
func (c *Client) PersonFilms(ctx context.Context, personID int64) ([]Film, error) {
	var body struct {
		Cast []movie `json:"cast"`
	}
	path := "/person/" + strconv.FormatInt(personID, 10) + "/movie_credits"
	if err := c.get(ctx, "person credits", path, nil, &body); err != nil {
		return nil, err
	}

	films := make([]Film, 0, len(body.Cast))
	for _, m := range body.Cast {
		films = append(films, *c.toFilm(m))
	}
	return films, nil
}

// TrailerKey finds a YouTube trailer for the film best matching title and
// year, preferring one in the client's language. It returns "" if none exists.
func (c *Client) TrailerKey(ctx context.Context, title string, year int) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", nil
	}

	page, err := c.Search(ctx, title, year, 1)
	if err != nil {
		return "", err
	}
	if len(page.Films) == 0 {
		return "", nil
	}

	var body struct {
		Results []video `json:"results"`
	}
	path := "/movie/" + strconv.FormatInt(page.Films[0].ID, 10) + "/videos"
	if err := c.get(ctx, "videos", path, nil, &body); err != nil {
		return "", err
	}

	lang, _, _ := strings.Cut(c.Language, "-")
	fallback := ""
	for _, v := range body.Results {
		if v.Site != "YouTube" || v.Type != "Trailer" {
			continue
		}
		if v.Language == lang || v.Language == c.Language {
			return v.Key, nil
		}
		if fallback == "" {
			fallback = v.Key
		}
	}
	return fallback, nil
}
