package docstore

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/erazemk/popcornhub/internal/model"
)

// Manager serializes document updates made by this process. Each Update is a
// full load-mutate-save cycle under one lock; versioned stores additionally
// reject saves that race with other processes.
type Manager struct {
	store Store
	mu    sync.Mutex

	quarantined atomic.Int64
}

// NewManager returns a Manager over s.
func NewManager(s Store) *Manager {
	return &Manager{store: s}
}

// Read loads a snapshot of the document. Changes to it are not saved.
func (m *Manager) Read(ctx context.Context) (*model.Document, error) {
	doc, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	m.noteQuarantine(doc)
	return doc, nil
}

// Update loads the document, applies fn and saves the result. Nothing is
// saved when fn returns an error; that error is returned unchanged.
func (m *Manager) Update(ctx context.Context, fn func(doc *model.Document) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	m.noteQuarantine(doc)

	if err := fn(doc); err != nil {
		return err
	}
	return m.store.Save(ctx, doc)
}

// noteQuarantine logs entries quarantined since the previous load.
func (m *Manager) noteQuarantine(doc *model.Document) {
	n := int64(len(doc.Quarantine))
	prev := m.quarantined.Swap(n)
	if n <= prev {
		return
	}
	for _, q := range doc.Quarantine[prev:] {
		slog.Warn("quarantined document entry", "collection", q.Collection, "key", q.Key, "reason", q.Reason)
	}
}
