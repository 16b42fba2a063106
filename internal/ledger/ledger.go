// Package ledger is the append-only audit trail. Every accepted mutation or
// lifecycle transition commits exactly one full snapshot of the document's
// sections; snapshots are never updated or deleted, and sequence numbers are
// 1..N with no gaps.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/procdoc/sopgov/internal/compress"
	"github.com/procdoc/sopgov/internal/document"
	"github.com/procdoc/sopgov/internal/model"
	"github.com/procdoc/sopgov/internal/store"
)

// Entry is the decoded form of one ledger row.
type Entry struct {
	DocumentID  string             `json:"document_id"`
	Seq         int64              `json:"seq"`
	Actor       string             `json:"actor"`
	Role        string             `json:"role"`
	State       document.State     `json:"state"`
	Revision    string             `json:"revision"`
	Description string             `json:"description"`
	CommittedAt time.Time          `json:"committed_at"`
	Sections    []document.Section `json:"sections,omitempty"`
}

// Ledger records and reconstructs document history. Commit writes through the
// caller's transaction; reads go to the main store.
type Ledger struct {
	store     store.Store
	codec     compress.Compress
	codecName string
}

func New(st store.Store, codec compress.Compress, codecName string) *Ledger {
	return &Ledger{
		store:     st,
		codec:     codec,
		codecName: codecName,
	}
}

// Commit appends a snapshot of doc as sequence number doc.Version. It must
// run inside the same transaction that persists the document update; the
// caller has already incremented doc.Version. Any error here fails the whole
// transaction so no partial commit is ever visible.
func (l *Ledger) Commit(ctx context.Context, tx store.Store, doc *document.Document, actor, role, description string) (*model.DocumentVersion, error) {
	if doc.Version < 1 {
		return nil, fmt.Errorf("commit: document %s has no version assigned", doc.ID)
	}

	data, err := json.Marshal(doc.Sections)
	if err != nil {
		return nil, fmt.Errorf("commit: marshal snapshot: %w", err)
	}
	encoded, err := l.codec.Encode(data)
	if err != nil {
		return nil, fmt.Errorf("commit: encode snapshot: %w", err)
	}

	version := &model.DocumentVersion{
		DocumentID:  doc.ID,
		Seq:         doc.Version,
		Actor:       actor,
		Role:        role,
		State:       string(doc.State),
		Revision:    doc.Revision,
		Description: description,
		Snapshot:    string(encoded),
		Compression: l.codecName,
		CommittedAt: time.Now().UTC(),
	}

	if err := tx.CreateVersion(ctx, version); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return version, nil
}

// At reconstructs the document exactly as it existed immediately after the
// given commit.
func (l *Ledger) At(ctx context.Context, docID string, seq int64) (*document.Document, error) {
	if seq < 1 {
		return nil, store.ErrVersionNotFound
	}

	row, err := l.store.GetVersion(ctx, docID, seq)
	if err != nil {
		return nil, err
	}

	sections, err := row.DecodeSnapshot()
	if err != nil {
		return nil, err
	}

	current, err := l.store.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	doc, err := current.Decode()
	if err != nil {
		return nil, err
	}

	doc.Sections = sections
	doc.State = document.State(row.State)
	doc.Revision = row.Revision
	doc.Version = row.Seq
	doc.UpdatedAt = row.CommittedAt
	return doc, nil
}

// Count returns the number of committed versions for a document.
func (l *Ledger) Count(ctx context.Context, docID string) (int64, error) {
	return l.store.CountVersions(ctx, docID)
}

func decodeEntry(row *model.DocumentVersion, withSnapshot bool) (*Entry, error) {
	entry := &Entry{
		DocumentID:  row.DocumentID,
		Seq:         row.Seq,
		Actor:       row.Actor,
		Role:        row.Role,
		State:       document.State(row.State),
		Revision:    row.Revision,
		Description: row.Description,
		CommittedAt: row.CommittedAt,
	}

	if withSnapshot {
		sections, err := row.DecodeSnapshot()
		if err != nil {
			return nil, err
		}
		entry.Sections = sections
	}

	return entry, nil
}
