package store

import (
	"strings"
	"time"

	"github.com/erazemk/popcornhub/internal/model"
)

// CreateUser appends a user with the next free id. Usernames are unique
// regardless of case.
func CreateUser(doc *model.Document, username, email, passwordHash string, isAdmin bool, now time.Time) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || passwordHash == "" {
		return nil, invalid("username and password are required")
	}
	if GetUserByUsername(doc, username) != nil {
		return nil, ErrUsernameTaken
	}

	maxID := doc.MaxQuarantinedID(model.CollectionUsers)
	for _, u := range doc.Users {
		maxID = max(maxID, u.ID)
	}
	created := model.NewTimestamp(now)
	doc.Users = append(doc.Users, model.User{
		ID:           maxID + 1,
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
		CreatedAt:    &created,
	})
	return &doc.Users[len(doc.Users)-1], nil
}

// GetUser returns the user with the given id, or nil.
func GetUser(doc *model.Document, id int64) *model.User {
	for i := range doc.Users {
		if doc.Users[i].ID == id {
			return &doc.Users[i]
		}
	}
	return nil
}

// GetUserByUsername finds a user case-insensitively, or returns nil.
func GetUserByUsername(doc *model.Document, username string) *model.User {
	for i := range doc.Users {
		if model.SameUsername(doc.Users[i].Username, username) {
			return &doc.Users[i]
		}
	}
	return nil
}

// HasAdmin reports whether any admin account exists.
func HasAdmin(doc *model.Document) bool {
	for _, u := range doc.Users {
		if u.IsAdmin {
			return true
		}
	}
	return false
}

// Usernames maps user ids to usernames.
func Usernames(doc *model.Document) map[int64]string {
	out := make(map[int64]string, len(doc.Users))
	for _, u := range doc.Users {
		out[u.ID] = u.Username
	}
	return out
}
