package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SavePoster stores or replaces the uploaded poster of a film.
func SavePoster(ctx context.Context, db *sql.DB, filmID int64, data []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO posters (film_id, data, mime) VALUES (?, ?, ?)
		 ON CONFLICT (film_id) DO UPDATE SET data = excluded.data, mime = excluded.mime, updated_at = CURRENT_TIMESTAMP`,
		filmID, data, mime,
	)
	if err != nil {
		return fmt.Errorf("saving poster: %w", err)
	}
	return nil
}

// GetPoster returns the poster bytes and MIME type, or nil if none exists.
func GetPoster(ctx context.Context, db *sql.DB, filmID int64) ([]byte, string, error) {
	var data []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM posters WHERE film_id = ?`, filmID,
	).Scan(&data, &mime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting poster: %w", err)
	}
	return data, mime, nil
}
