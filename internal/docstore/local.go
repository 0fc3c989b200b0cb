package docstore

import (
	"context"
	"encoding/json"

	"github.com/erazemk/popcornhub/internal/model"
)

// Local is a Store that talks to a Backend in-process.
type Local struct {
	Backend Backend
}

// NewLocal returns a Store over b.
func NewLocal(b Backend) *Local {
	return &Local{Backend: b}
}

// Load reads and validates the document. An empty backend yields an empty document.
func (l *Local) Load(ctx context.Context) (*model.Document, error) {
	body, version, err := l.Backend.Read(ctx)
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	return decode(body, version)
}

// Save writes the document, conditionally when it carries a version.
func (l *Local) Save(ctx context.Context, doc *model.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}

	version, err := l.Backend.Write(ctx, body, expectedVersion(doc))
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	doc.Version = version
	return nil
}

func decode(body []byte, version int64) (*model.Document, error) {
	if body == nil {
		doc := model.NewDocument()
		doc.Version = version
		return doc, nil
	}
	doc, err := model.DecodeDocument(body)
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	doc.Version = version
	return doc, nil
}

func expectedVersion(doc *model.Document) int64 {
	if doc.Version > 0 {
		return doc.Version
	}
	return -1
}
