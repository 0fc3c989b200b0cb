package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RevokeToken records a logged-out session's JTI until the token would have
// expired. Entries past their expiry are dropped on the way.
func RevokeToken(ctx context.Context, db *sql.DB, jti string, expiresAt time.Time) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, time.Now().UTC().Unix(),
	); err != nil {
		return fmt.Errorf("pruning revoked tokens: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?)
		 ON CONFLICT (jti) DO NOTHING`,
		jti, expiresAt.UTC().Unix(),
	); err != nil {
		return fmt.Errorf("revoking token %s: %w", jti, err)
	}
	return tx.Commit()
}

// IsTokenRevoked reports whether the session with this JTI was logged out.
func IsTokenRevoked(ctx context.Context, db *sql.DB, jti string) (bool, error) {
	var revoked bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = ?)`, jti,
	).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return revoked, nil
}
