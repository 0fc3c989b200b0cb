package db

import (
	"database/sql"
	"testing"
)

// NewTestDB opens a fresh in-memory database with the schema applied and
// closes it when t ends. Packages outside db use it too, so it lives in a
// regular file.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("NewTestDB: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("NewTestDB: %v", err)
	}
	return database
}
