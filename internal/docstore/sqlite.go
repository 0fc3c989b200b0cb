package docstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/erazemk/popcornhub/internal/db"
)

// SQLiteBackend keeps the document in a single versioned row.
type SQLiteBackend struct {
	DB *sql.DB
}

// NewSQLiteBackend returns a backend on an open database with the schema applied.
func NewSQLiteBackend(database *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{DB: database}
}

func (b *SQLiteBackend) Read(ctx context.Context) ([]byte, int64, error) {
	return db.ReadDocument(ctx, b.DB)
}

func (b *SQLiteBackend) Write(ctx context.Context, body []byte, expected int64) (int64, error) {
	version, err := db.WriteDocument(ctx, b.DB, body, expected)
	if errors.Is(err, db.ErrVersionMismatch) {
		return 0, ErrConflict
	}
	return version, err
}
