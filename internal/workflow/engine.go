// Package workflow is the authorization layer over the document model and
// the version ledger. Every content mutation and lifecycle transition passes
// through the Engine, which checks the actor's role against the current
// lifecycle state, applies the change, and commits exactly one ledger entry —
// all inside one store transaction, serialized per document.
package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Masterminds/semver"
	"github.com/procdoc/sopgov/internal/cache"
	"github.com/procdoc/sopgov/internal/compress"
	"github.com/procdoc/sopgov/internal/document"
	"github.com/procdoc/sopgov/internal/ledger"
	"github.com/procdoc/sopgov/internal/model"
	"github.com/procdoc/sopgov/internal/queue"
	"github.com/procdoc/sopgov/internal/store"
	"github.com/sirupsen/logrus"
)

// Engine gates mutations and lifecycle transitions.
type Engine struct {
	store     store.Store
	ledger    *ledger.Ledger
	cache     cache.SnapshotCache
	queue     queue.AuditQueue
	codec     compress.Compress
	codecName string

	// one mutex per document id; apply+commit pairs never interleave
	locks sync.Map
}

func NewEngine(st store.Store, led *ledger.Ledger, snapshots cache.SnapshotCache, audit queue.AuditQueue, codec compress.Compress, codecName string) *Engine {
	return &Engine{
		store:     st,
		ledger:    led,
		cache:     snapshots,
		queue:     audit,
		codec:     codec,
		codecName: codecName,
	}
}

func (e *Engine) lock(docID string) *sync.Mutex {
	mu, _ := e.locks.LoadOrStore(docID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Create persists a new document in draft state. Creation itself commits no
// version; the ledger starts with the first accepted mutation.
func (e *Engine) Create(ctx context.Context, spec document.Spec, actor Actor) (*document.Document, error) {
	if _, ok := roles[actor.Role]; !ok {
		return nil, fmt.Errorf("unknown role: %q", actor.Role)
	}

	spec.CreatedBy = actor.User
	doc, err := document.New(spec)
	if err != nil {
		return nil, err
	}
	if doc.Number == "" {
		doc.Number = document.GenerateNumber("SOP", "", doc.CreatedAt)
	}

	row, err := model.Encode(doc, e.codec, e.codecName)
	if err != nil {
		return nil, err
	}

	if err := e.store.CreateDocument(ctx, row); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	logrus.Infof("created document %s (%s)", doc.ID, doc.Number)
	return doc, nil
}

// Submit applies a content mutation proposal. The proposal is authorized
// against the current state, applied atomically, persisted, and committed to
// the ledger as one unit. On any failure nothing is visible to readers.
func (e *Engine) Submit(ctx context.Context, docID string, actor Actor, p document.Proposal, description string) (*document.Document, error) {
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

		if !CanEdit(actor.Role, doc.State) {
			return &AuthorizationError{Actor: actor, State: doc.State, Operation: "edit content"}
		}

		if description == "" {
			description = p.Describe(doc)
		}

		next, err := doc.Apply(p, actor.User, time.Now().UTC())
		if err != nil {
			return err
		}
		next.Version = doc.Version + 1

		if err := e.persist(ctx, tx, row, next); err != nil {
			return err
		}

		committed, err = e.ledger.Commit(ctx, tx, next, actor.User, string(actor.Role), description)
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

// Transition moves a document between lifecycle states and records a
// transition-only version. Approving stamps the approver, bumps the revision
// label and sets the effective date; an admin unlock returns the document to
// draft without touching content.
func (e *Engine) Transition(ctx context.Context, docID string, actor Actor, to document.State) (*document.Document, error) {
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

		if !CanTransition(actor.Role, doc.State, to) {
			return &AuthorizationError{
				Actor:     actor,
				State:     doc.State,
				Operation: fmt.Sprintf("transition to %s", to),
			}
		}

		now := time.Now().UTC()
		next := doc.Clone()
		next.State = to
		next.UpdatedAt = now
		next.Version = doc.Version + 1

		var description string
		switch to {
		case document.StateUnderReview:
			description = "submitted for review"
		case document.StateApproved:
			rev, err := semver.NewVersion(next.Revision)
			if err != nil {
				return fmt.Errorf("revision label %q: %w", next.Revision, err)
			}
			bumped := rev.IncMajor()
			next.Revision = bumped.String()
			next.Approver = actor.User
			next.EffectiveDate = &now
			description = fmt.Sprintf("approved as revision %s", next.Revision)
		case document.StateDraft:
			description = "unlocked for editing"
		}

		if err := e.persist(ctx, tx, row, next); err != nil {
			return err
		}

		committed, err = e.ledger.Commit(ctx, tx, next, actor.User, string(actor.Role), description)
		if err != nil {
			return err
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.Infof("document %s is now %s (version %d)", docID, updated.State, updated.Version)
	e.afterCommit(ctx, updated, committed)
	return updated, nil
}

// Get returns the current committed state of a document, trying the snapshot
// cache first.
func (e *Engine) Get(ctx context.Context, docID string) (*document.Document, error) {
	if doc, err := e.cache.Get(ctx, docID); err == nil && doc != nil {
		return doc, nil
	} else if err != nil {
		logrus.Warnf("snapshot cache read failed for %s: %v", docID, err)
	}

	row, err := e.store.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}

	return row.Decode()
}

func (e *Engine) persist(ctx context.Context, tx store.Store, prev *model.Document, next *document.Document) error {
	row, err := model.Encode(next, e.codec, e.codecName)
	if err != nil {
		return err
	}
	// carry gorm bookkeeping so Save updates instead of recreating
	row.Model = prev.Model

	return tx.UpdateDocument(ctx, row)
}

// afterCommit refreshes the cache and publishes the audit event. Both are
// best-effort: the version is already durable.
func (e *Engine) afterCommit(ctx context.Context, doc *document.Document, version *model.DocumentVersion) {
	if err := e.cache.Set(ctx, doc); err != nil {
		logrus.Warnf("snapshot cache update failed for %s: %v", doc.ID, err)
	}

	err := e.queue.PublishCommit(ctx, queue.CommitEvent{
		DocumentID:  version.DocumentID,
		Seq:         version.Seq,
		Actor:       version.Actor,
		Role:        version.Role,
		State:       version.State,
		Description: version.Description,
		CommittedAt: version.CommittedAt,
	})
	if err != nil {
		logrus.Errorf("audit event publish failed for %s/%d: %v", version.DocumentID, version.Seq, err)
	}
}
