package tmdb

import (
	"fmt"
	"strconv"
	"strings"
)

// Film is the display metadata of a film.
type Film struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Year      int          `json:"year,omitempty"`
	Director  string       `json:"director,omitempty"`
	Synopsis  string       `json:"synopsis,omitempty"`
	PosterURL string       `json:"poster_url,omitempty"`
	Genres    []string     `json:"genres,omitempty"`
	Cast      []CastMember `json:"cast,omitempty"`
}

// CastMember is an actor credited on a film.
type CastMember struct {
	Name       string `json:"name"`
	Character  string `json:"character,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// Person is an actor or crew member.
type Person struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// Genre is a provider genre.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Page is one page of film results.
type Page struct {
	Films        []Film `json:"films"`
	Page         int    `json:"page"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
}

// Placeholder stands in for a film whose metadata could not be fetched.
func Placeholder(id int64) *Film {
	return &Film{ID: id, Title: fmt.Sprintf("Film #%d", id)}
}

type movie struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Name          string `json:"name"`
	OriginalTitle string `json:"original_title"`
	ReleaseDate   string `json:"release_date"`
	FirstAirDate  string `json:"first_air_date"`
	Overview      string `json:"overview"`
	PosterPath    string `json:"poster_path"`
	Genres        []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Credits *struct {
		Cast []struct {
			Name        string `json:"name"`
			Character   string `json:"character"`
			ProfilePath string `json:"profile_path"`
		} `json:"cast"`
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
}

type moviePage struct {
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
	Results      []movie `json:"results"`
}

type person struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	KnownForDepartment string `json:"known_for_department"`
	ProfilePath        string `json:"profile_path"`
}

type video struct {
	Key      string `json:"key"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Language string `json:"iso_639_1"`
}

func (c *Client) toFilm(m movie) *Film {
	f := &Film{
		ID:        m.ID,
		Title:     firstNonEmpty(m.Title, m.Name, m.OriginalTitle),
		Synopsis:  m.Overview,
		PosterURL: c.ImageURL(PosterSize, m.PosterPath),
	}

	date := firstNonEmpty(m.ReleaseDate, m.FirstAirDate)
	if len(date) >= 4 {
		f.Year, _ = strconv.Atoi(date[:4])
	}

	for _, g := range m.Genres {
		if g.Name != "" {
			f.Genres = append(f.Genres, g.Name)
		}
	}

	if m.Credits != nil {
		var directors []string
		for _, crew := range m.Credits.Crew {
			if crew.Job == "Director" && crew.Name != "" {
				directors = append(directors, crew.Name)
			}
		}
		f.Director = strings.Join(directors, ", ")

		for _, cast := range m.Credits.Cast {
			if len(f.Cast) == MaxCast {
				break
			}
			if cast.Name == "" {
				continue
			}
			f.Cast = append(f.Cast, CastMember{
				Name:       cast.Name,
				Character:  cast.Character,
				ProfileURL: c.ImageURL(ProfileSize, cast.ProfilePath),
			})
		}
	}
	return f
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
