package cache

import (
	"context"

	"github.com/procdoc/sopgov/internal/document"
)

// SnapshotCache caches the latest committed state of documents for the read
// path. It is strictly write-behind: entries are set or invalidated only
// after a successful commit, so a hit can never be ahead of the ledger.
type SnapshotCache interface {
	// Get returns the cached document, or nil on miss.
	Get(ctx context.Context, id string) (*document.Document, error)
	// Set stores the latest committed state.
	Set(ctx context.Context, doc *document.Document) error
	// Invalidate drops the cached entry.
	Invalidate(ctx context.Context, id string) error
}

// Nop is the cache used when no redis endpoint is configured.
type Nop struct {
}

func NewNop() Nop {
	return Nop{}
}

func (Nop) Get(ctx context.Context, id string) (*document.Document, error) {
	return nil, nil
}

func (Nop) Set(ctx context.Context, doc *document.Document) error {
	return nil
}

func (Nop) Invalidate(ctx context.Context, id string) error {
	return nil
}
