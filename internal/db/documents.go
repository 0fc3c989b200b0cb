package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrVersionMismatch is returned by WriteDocument when the stored version
// differs from the expected one.
var ErrVersionMismatch = errors.New("document version mismatch")

// ReadDocument returns the stored document body and its version. An empty
// store yields a nil body and version 0.
func ReadDocument(ctx context.Context, db *sql.DB) ([]byte, int64, error) {
	var body string
	var version int64
	err := db.QueryRowContext(ctx,
		`SELECT body, version FROM documents WHERE id = 1`,
	).Scan(&body, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("reading document: %w", err)
	}
	return []byte(body), version, nil
}

// WriteDocument replaces the stored document and returns the new version.
// If expected is non-negative the write only succeeds when the stored
// version equals it.
func WriteDocument(ctx context.Context, db *sql.DB, body []byte, expected int64) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var current int64
	err = tx.QueryRowContext(ctx, `SELECT version FROM documents WHERE id = 1`).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("reading document version: %w", err)
	}

	if expected >= 0 && expected != current {
		return 0, fmt.Errorf("%w: have %d, expected %d", ErrVersionMismatch, current, expected)
	}

	next := current + 1
	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, body, version) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET body = excluded.body, version = excluded.version, updated_at = CURRENT_TIMESTAMP`,
		string(body), next,
	)
	if err != nil {
		return 0, fmt.Errorf("writing document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing document: %w", err)
	}
	return next, nil
}
