package model

import (
	"fmt"
	"strings"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

// User is an account stored in the document. PasswordHash is persisted with
// the document and must never be rendered to clients.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email,omitempty"`
	PasswordHash string     `json:"password_hash"`
	IsAdmin      bool       `json:"is_admin"`
	CreatedAt    *Timestamp `json:"created_at,omitempty"`
}

// SameUsername compares usernames case-insensitively.
func SameUsername(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ValidatePassword checks the signup password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
