// Package docstore persists the shared document. It provides the storage
// backends, the HTTP data service in front of them, a client for that
// service, and a Manager that serializes load-mutate-save cycles.
package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/erazemk/popcornhub/internal/model"
)

// ErrConflict is returned when a conditional save finds a newer document.
var ErrConflict = errors.New("document changed since it was loaded")

// StorageError wraps any failure to load or save the document. Callers treat
// it as retryable.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("document store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store loads and saves the whole document.
type Store interface {
	Load(ctx context.Context) (*model.Document, error)
	Save(ctx context.Context, doc *model.Document) error
}

// Backend reads and writes the raw document body. Read returns a nil body
// for an empty store. Write with expected >= 0 fails with ErrConflict when
// the stored version differs; backends without versions ignore it.
type Backend interface {
	Read(ctx context.Context) ([]byte, int64, error)
	Write(ctx context.Context, body []byte, expected int64) (int64, error)
}
