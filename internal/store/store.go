package store

import (
	"context"
	"errors"
	"time"

	"github.com/procdoc/sopgov/internal/model"
)

var (
	// ErrDocumentNotFound is returned for an unknown document id.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrVersionNotFound is returned for a sequence number out of range.
	ErrVersionNotFound = errors.New("version not found")
)

type Store interface {
	DocumentStore
	VersionStore
	// Transaction runs f atomically; any error rolls the whole unit back.
	// Document updates and their ledger commits always share one transaction
	// so state and ledger never diverge.
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type DocumentStore interface {
	// CreateDocument creates a new document.
	CreateDocument(ctx context.Context, doc *model.Document) error
	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*model.Document, error)
	// ListDocuments retrieves all documents.
	ListDocuments(ctx context.Context) ([]*model.Document, error)
	// UpdateDocument updates a document.
	UpdateDocument(ctx context.Context, doc *model.Document) error
	// DeleteDocument soft deletes a document. Its version rows are kept.
	DeleteDocument(ctx context.Context, id string) error
	// EraseDocument hard deletes a document row. Version rows persist for audit.
	EraseDocument(ctx context.Context, id string) error
	// ListDeletedBefore lists soft-deleted documents older than the cutoff.
	ListDeletedBefore(ctx context.Context, cutoff time.Time) ([]*model.Document, error)
}

type VersionStore interface {
	// CreateVersion appends a ledger entry. Entries are never updated or deleted.
	CreateVersion(ctx context.Context, version *model.DocumentVersion) error
	// GetVersion retrieves a ledger entry by document id and sequence number.
	GetVersion(ctx context.Context, docID string, seq int64) (*model.DocumentVersion, error)
	// ListVersions retrieves up to limit entries with seq > afterSeq, ascending.
	ListVersions(ctx context.Context, docID string, afterSeq int64, limit int) ([]*model.DocumentVersion, error)
	// CountVersions returns the number of ledger entries for a document.
	CountVersions(ctx context.Context, docID string) (int64, error)
}
