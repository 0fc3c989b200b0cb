package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Collection names as they appear in the stored document.
const (
	CollectionUsers         = "users"
	CollectionOwnerships    = "user_owns"
	CollectionRentals       = "rentals"
	CollectionReviews       = "reviews"
	CollectionFavorites     = "favorites"
	CollectionLibrary       = "library"
	CollectionCatalog       = "catalog"
	CollectionDeletedFilms  = "deleted_films"
	CollectionFilmOverrides = "film_overrides"
	CollectionQuarantine    = "quarantine"
)

// Document is the single JSON document shared by all users.
type Document struct {
	Users         []User                  `json:"users"`
	Ownerships    []Ownership             `json:"user_owns"`
	Rentals       []Rental                `json:"rentals"`
	Reviews       []Review                `json:"reviews"`
	Favorites     map[string][]int64      `json:"favorites"`
	Library       map[string][]int64      `json:"library"`
	Catalog       []int64                 `json:"catalog"`
	DeletedFilms  []int64                 `json:"deleted_films"`
	FilmOverrides map[string]FilmOverride `json:"film_overrides"`
	Quarantine    []QuarantinedEntry      `json:"quarantine,omitempty"`

	// Version is the storage version the document was loaded at, 0 if unknown.
	Version int64 `json:"-"`
	// Extra holds unknown top-level keys so they survive a save.
	Extra map[string]json.RawMessage `json:"-"`
}

// QuarantinedEntry is a stored entry that failed validation at load time.
// It is written back verbatim and never reaches the rental logic.
type QuarantinedEntry struct {
	Collection string          `json:"collection"`
	Key        string          `json:"key,omitempty"`
	Reason     string          `json:"reason"`
	Entry      json.RawMessage `json:"entry"`
}

// NewDocument returns an empty document with every collection present.
func NewDocument() *Document {
	return &Document{
		Users:         []User{},
		Ownerships:    []Ownership{},
		Rentals:       []Rental{},
		Reviews:       []Review{},
		Favorites:     map[string][]int64{},
		Library:       map[string][]int64{},
		Catalog:       []int64{},
		DeletedFilms:  []int64{},
		FilmOverrides: map[string]FilmOverride{},
		Extra:         map[string]json.RawMessage{},
	}
}

// UserKey is the map key used for per-user collections.
func UserKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// FilmKey is the map key used for per-film collections.
func FilmKey(filmID int64) string {
	return strconv.FormatInt(filmID, 10)
}

func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	data, err := json.Marshal(plain(d))
	if err != nil || len(d.Extra) == 0 {
		return data, err
	}

	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range d.Extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// DecodeDocument parses a stored document. Entries that cannot be decoded or
// break a record invariant are moved to Quarantine instead of failing the load.
// Only a non-object root is an error.
func DecodeDocument(data []byte) (*Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if raw == nil {
		return nil, errors.New("decoding document: root is not an object")
	}

	doc := NewDocument()
	if q, ok := raw[CollectionQuarantine]; ok {
		if err := json.Unmarshal(q, &doc.Quarantine); err != nil {
			return nil, fmt.Errorf("decoding quarantine: %w", err)
		}
	}

	for key, value := range raw {
		switch key {
		case CollectionUsers:
			doc.Users = decodeEntries(doc, key, value, newUserValidator())
		case CollectionOwnerships:
			doc.Ownerships = decodeEntries(doc, key, value, newOwnershipValidator())
		case CollectionRentals:
			doc.Rentals = decodeEntries(doc, key, value, newRentalValidator())
		case CollectionReviews:
			doc.Reviews = decodeEntries(doc, key, value, newReviewValidator())
		case CollectionFavorites:
			doc.Favorites = decodeIDLists(doc, key, value)
		case CollectionLibrary:
			doc.Library = decodeIDLists(doc, key, value)
		case CollectionCatalog:
			doc.Catalog = decodeIDList(doc, key, "", value)
		case CollectionDeletedFilms:
			doc.DeletedFilms = decodeIDList(doc, key, "", value)
		case CollectionFilmOverrides:
			doc.FilmOverrides = decodeOverrides(doc, value)
		case CollectionQuarantine:
		default:
			doc.Extra[key] = value
		}
	}

	return doc, nil
}

func (d *Document) quarantine(collection, key, reason string, entry json.RawMessage) {
	d.Quarantine = append(d.Quarantine, QuarantinedEntry{
		Collection: collection,
		Key:        key,
		Reason:     reason,
		Entry:      entry,
	})
}

// MaxQuarantinedID returns the highest "id" among quarantined entries of a
// collection, or 0. New records must not reuse those ids.
func (d *Document) MaxQuarantinedID(collection string) int64 {
	var maxID int64
	for _, q := range d.Quarantine {
		if q.Collection != collection {
			continue
		}
		var entry struct {
			ID json.Number `json:"id"`
		}
		if err := json.Unmarshal(q.Entry, &entry); err != nil {
			continue
		}
		if id, err := entry.ID.Int64(); err == nil {
			maxID = max(maxID, id)
		}
	}
	return maxID
}

func decodeEntries[T any](doc *Document, collection string, data json.RawMessage, validate func(*T) error) []T {
	out := []T{}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		doc.quarantine(collection, "", "collection is not an array", data)
		return out
	}
	for _, r := range raws {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			doc.quarantine(collection, "", err.Error(), r)
			continue
		}
		if err := validate(&v); err != nil {
			doc.quarantine(collection, "", err.Error(), r)
			continue
		}
		out = append(out, v)
	}
	return out
}

func decodeIDList(doc *Document, collection, key string, data json.RawMessage) []int64 {
	out := []int64{}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		doc.quarantine(collection, key, "list is not an array", data)
		return out
	}
	for _, r := range raws {
		var id int64
		if err := json.Unmarshal(r, &id); err != nil || id <= 0 {
			doc.quarantine(collection, key, "invalid film id", r)
			continue
		}
		out = append(out, id)
	}
	return out
}

func decodeIDLists(doc *Document, collection string, data json.RawMessage) map[string][]int64 {
	out := map[string][]int64{}
	var raws map[string]json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		doc.quarantine(collection, "", "collection is not an object", data)
		return out
	}
	for key, r := range raws {
		if id, err := strconv.ParseInt(key, 10, 64); err != nil || id <= 0 {
			doc.quarantine(collection, key, "invalid user key", r)
			continue
		}
		out[key] = decodeIDList(doc, collection, key, r)
	}
	return out
}

func decodeOverrides(doc *Document, data json.RawMessage) map[string]FilmOverride {
	out := map[string]FilmOverride{}
	var raws map[string]json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		doc.quarantine(CollectionFilmOverrides, "", "collection is not an object", data)
		return out
	}
	for key, r := range raws {
		var o FilmOverride
		if err := json.Unmarshal(r, &o); err != nil {
			doc.quarantine(CollectionFilmOverrides, key, err.Error(), r)
			continue
		}
		out[key] = o
	}
	return out
}

func newUserValidator() func(*User) error {
	seen := map[int64]bool{}
	return func(u *User) error {
		if u.ID <= 0 {
			return errors.New("user id must be positive")
		}
		if u.Username == "" {
			return errors.New("username is empty")
		}
		if seen[u.ID] {
			return fmt.Errorf("duplicate user id %d", u.ID)
		}
		seen[u.ID] = true
		return nil
	}
}

func newOwnershipValidator() func(*Ownership) error {
	type key struct{ user, film int64 }
	seen := map[key]bool{}
	return func(o *Ownership) error {
		if o.UserID <= 0 || o.FilmID <= 0 {
			return errors.New("ownership ids must be positive")
		}
		if !o.HasBluray && !o.HasDigital {
			return errors.New("ownership has no format")
		}
		k := key{o.UserID, o.FilmID}
		if seen[k] {
			return fmt.Errorf("duplicate ownership for user %d film %d", o.UserID, o.FilmID)
		}
		for _, f := range []Format{FormatBluray, FormatDigital} {
			if p := o.PriceFor(f); p != nil && *p < 0 {
				return fmt.Errorf("negative %s price", f)
			}
			if d := o.MaxDaysFor(f); d != nil && *d < 1 {
				return fmt.Errorf("%s max days must be positive", f)
			}
		}
		if !o.HasBluray {
			o.BlurayPrice, o.BlurayMaxDays = nil, nil
		}
		if !o.HasDigital {
			o.DigitalPrice, o.DigitalMaxDays = nil, nil
		}
		seen[k] = true
		return nil
	}
}

func newRentalValidator() func(*Rental) error {
	seen := map[int64]bool{}
	return func(r *Rental) error {
		if r.ID <= 0 || r.UserID <= 0 || r.FilmID <= 0 {
			return errors.New("rental ids must be positive")
		}
		if r.ExpiresAt.IsZero() {
			return errors.New("rental has no expiry")
		}
		if r.Format != "" && !r.Format.Valid() {
			return fmt.Errorf("unknown format %q", r.Format)
		}
		if r.OwnerID != nil && r.Format == "" {
			return errors.New("owner rental has no format")
		}
		if r.PriceCents < 0 {
			return errors.New("negative rental price")
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate rental id %d", r.ID)
		}
		seen[r.ID] = true
		return nil
	}
}

func newReviewValidator() func(*Review) error {
	type key struct{ user, film int64 }
	seenID := map[int64]bool{}
	seen := map[key]bool{}
	return func(r *Review) error {
		if r.ID <= 0 || r.UserID <= 0 || r.FilmID <= 0 {
			return errors.New("review ids must be positive")
		}
		if r.Rating < 1 || r.Rating > 5 {
			return fmt.Errorf("rating %d out of range", r.Rating)
		}
		k := key{r.UserID, r.FilmID}
		if seenID[r.ID] || seen[k] {
			return errors.New("duplicate review")
		}
		seenID[r.ID] = true
		seen[k] = true
		return nil
	}
}
