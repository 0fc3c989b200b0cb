package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/popcornhub/internal/api"
	"github.com/erazemk/popcornhub/internal/config"
	"github.com/erazemk/popcornhub/internal/db"
	"github.com/erazemk/popcornhub/internal/docstore"
	"github.com/erazemk/popcornhub/internal/events"
	"github.com/erazemk/popcornhub/internal/films"
	"github.com/erazemk/popcornhub/internal/ratelimit"
	"github.com/erazemk/popcornhub/internal/tmdb"
	"github.com/erazemk/popcornhub/internal/web"
)

// app is the wired front end.
type app struct {
	handler http.Handler
	closers []func() error
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			slog.Error("failed to close resource", "error", err)
		}
	}
}

// newApp connects the collaborators named in cfg and builds the combined
// API and page handler. The data service being down is logged, not fatal.
func newApp(ctx context.Context, cfg config.FileConfig, database *sql.DB) (*app, error) {
	jwtSecret, err := db.GetJWTSecret(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("getting JWT secret: %w", err)
	}

	data := docstore.NewClient(cfg.DataURL, cfg.DataTimeout())
	if err := data.Health(ctx); err != nil {
		slog.Warn("data service not reachable yet", "url", cfg.DataURL, "error", err)
	}
	docs := docstore.NewManager(data)

	if cfg.TMDBAPIKey == "" {
		slog.Warn("no TMDB API key configured, film metadata will be placeholders")
	}
	filmService := films.New(tmdb.NewClient(cfg.TMDB()), cfg.FetchConcurrency)

	a := &app{}

	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		l, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "", cfg.AuthRateLimit, cfg.AuthWindow())
		if err != nil {
			return nil, fmt.Errorf("creating rate limiter: %w", err)
		}
		limiter = l
		a.closers = append(a.closers, l.Close)
		slog.Info("login rate limiting enabled", "redis", cfg.RedisAddr, "limit", cfg.AuthRateLimit, "window", cfg.AuthWindow())
	}

	var publisher events.Publisher = events.Discard{}
	if cfg.AMQPURL != "" {
		publisher = events.NewAMQPPublisher(cfg.AMQPURL)
		slog.Info("rental events enabled")
	}

	apiRouter := api.NewRouter(&api.Deps{
		DB:        database,
		Docs:      docs,
		Films:     filmService,
		Events:    publisher,
		Limiter:   limiter,
		JWTSecret: jwtSecret,
		Now:       time.Now,
	})
	webRouter, err := web.NewRouter(&web.Server{
		DB:            database,
		Docs:          docs,
		Films:         filmService,
		Events:        publisher,
		Limiter:       limiter,
		JWTSecret:     jwtSecret,
		SecureCookies: cfg.SecureCookies,
		Now:           time.Now,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("setting up web router: %w", err)
	}

	// API routes take priority, pages handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	a.handler = api.RequestID(api.LoggingMiddleware(mux))
	return a, nil
}
