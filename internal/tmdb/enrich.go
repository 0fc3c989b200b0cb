package tmdb

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// FilmLookup resolves film metadata by id.
type FilmLookup interface {
	Film(ctx context.Context, id int64) (*Film, error)
}

// FetchFilms resolves ids concurrently, at most limit at a time. Films that
// fail to resolve are replaced by a placeholder, so the result always has an
// entry for every id.
func FetchFilms(ctx context.Context, lookup FilmLookup, ids []int64, limit int) map[int64]*Film {
	results := make([]*Film, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for i, id := range ids {
		g.Go(func() error {
			film, err := lookup.Film(gctx, id)
			if err != nil {
				slog.Warn("film metadata unavailable", "film", id, "error", err)
				film = Placeholder(id)
			}
			results[i] = film
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[int64]*Film, len(ids))
	for i, id := range ids {
		out[id] = results[i]
	}
	return out
}
