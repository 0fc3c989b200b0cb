package store

import (
	"errors"
	"testing"

	"github.com/erazemk/popcornhub/internal/model"
)

func TestCreateUser(t *testing.T) {
	doc := model.NewDocument()

	u, err := CreateUser(doc, "  Alice ", "alice@example.com", "hash", false, testNow)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID != 1 || u.Username != "Alice" {
		t.Errorf("unexpected user %+v", u)
	}
	if u.CreatedAt == nil || !u.CreatedAt.Equal(testNow) {
		t.Errorf("expected created_at %v, got %v", testNow, u.CreatedAt)
	}

	_, err = CreateUser(doc, "ALICE", "", "hash", false, testNow)
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}

	_, err = CreateUser(doc, "", "", "hash", false, testNow)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}

	doc.Users = append(doc.Users, model.User{ID: 10, Username: "imported"})
	next, err := CreateUser(doc, "bob", "", "hash", true, testNow)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if next.ID != 11 {
		t.Errorf("expected id 11, got %d", next.ID)
	}
	if !HasAdmin(doc) {
		t.Error("expected admin to exist")
	}
}

func TestGetUserByUsername(t *testing.T) {
	doc := newTestDocument(t)

	if u := GetUserByUsername(doc, "BOB"); u == nil || u.ID != 2 {
		t.Errorf("expected bob, got %+v", u)
	}
	if u := GetUserByUsername(doc, "nobody"); u != nil {
		t.Errorf("expected nil, got %+v", u)
	}
	if u := GetUser(doc, 3); u == nil || u.Username != "carol" {
		t.Errorf("expected carol, got %+v", u)
	}
	if names := Usernames(doc); names[1] != "alice" || len(names) != 3 {
		t.Errorf("unexpected usernames %v", names)
	}
}

func TestToggleFavorite(t *testing.T) {
	doc := newTestDocument(t)

	if !ToggleFavorite(doc, 1, 42) {
		t.Fatal("expected favorite after first toggle")
	}
	ToggleFavorite(doc, 1, 7)
	if !IsFavorite(doc, 1, 42) || IsFavorite(doc, 2, 42) {
		t.Error("unexpected favorite state")
	}
	if ToggleFavorite(doc, 1, 42) {
		t.Fatal("expected not favorite after second toggle")
	}
	if ids := FavoriteFilmIDs(doc, 1); len(ids) != 1 || ids[0] != 7 {
		t.Errorf("expected [7], got %v", ids)
	}
}

func TestCatalog(t *testing.T) {
	doc := newTestDocument(t)

	DeleteFilm(doc, 42)
	DeleteFilm(doc, 42)
	if !IsDeleted(doc, 42) || len(doc.DeletedFilms) != 1 {
		t.Fatalf("expected film deleted once, got %v", doc.DeletedFilms)
	}

	if err := AddToCatalog(doc, 42); err != nil {
		t.Fatalf("AddToCatalog: %v", err)
	}
	if IsDeleted(doc, 42) || !InCatalog(doc, 42) {
		t.Error("expected film restored to catalog")
	}

	var verr *ValidationError
	if err := AddToCatalog(doc, 42); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for duplicate, got %v", err)
	}

	DeleteFilm(doc, 42)
	if InCatalog(doc, 42) || !IsDeleted(doc, 42) {
		t.Error("expected film removed from catalog")
	}
}

func TestSetOverride(t *testing.T) {
	doc := newTestDocument(t)
	MarkPoster(doc, 42)

	o := SetOverride(doc, 42, model.FilmOverride{
		Title:  " New title ",
		Genres: []string{" Drama", "", "Comedy "},
	})
	if o.Title != "New title" {
		t.Errorf("expected trimmed title, got %q", o.Title)
	}
	if len(o.Genres) != 2 || o.Genres[0] != "Drama" || o.Genres[1] != "Comedy" {
		t.Errorf("unexpected genres %v", o.Genres)
	}
	if !o.HasPoster {
		t.Error("expected poster flag to be kept")
	}

	got, ok := GetOverride(doc, 42)
	if !ok || got.Title != "New title" {
		t.Errorf("expected stored override, got %+v", got)
	}
	if _, ok := GetOverride(doc, 7); ok {
		t.Error("expected no override for film 7")
	}
}
