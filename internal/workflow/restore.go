package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/procdoc/sopgov/internal/document"
	"github.com/procdoc/sopgov/internal/model"
	"github.com/procdoc/sopgov/internal/store"
)

// Restore replaces the document's sections with the snapshot at the given
// sequence number. History is never rewritten: the restore itself is a new
// commit. Admin only, and the document must be editable.
func (e *Engine) Restore(ctx context.Context, docID string, actor Actor, seq int64) (*document.Document, error) {
	mu := e.lock(docID)
	mu.Lock()
	defer mu.Unlock()

	var updated *document.Document
	var committed *model.DocumentVersion

	err := e.store.Transaction(ctx, func(tx store.Store) error {
		row, err := tx.GetDocument(ctx, docID)
		if err != nil {
			return err
		}
		doc, err := row.Decode()
		if err != nil {
			return err
		}

		if actor.Role != RoleAdmin || !doc.Editable() {
			return &AuthorizationError{
				Actor:     actor,
				State:     doc.State,
				Operation: fmt.Sprintf("restore version %d", seq),
			}
		}

		versionRow, err := tx.GetVersion(ctx, docID, seq)
		if err != nil {
			return err
		}
		sections, err := versionRow.DecodeSnapshot()
		if err != nil {
			return err
		}

		next := doc.Clone()
		next.Sections = sections
		next.UpdatedAt = time.Now().UTC()
		next.Version = doc.Version + 1

		if err := e.persist(ctx, tx, row, next); err != nil {
			return err
		}

		committed, err = e.ledger.Commit(ctx, tx, next, actor.User, string(actor.Role),
			fmt.Sprintf("restored sections from version %d", seq))
		if err != nil {
			return err
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.afterCommit(ctx, updated, committed)
	return updated, nil
}
