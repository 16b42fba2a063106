package service

import (
	"context"
	"fmt"
	"time"

	"github.com/procdoc/sopgov/internal/cache"
	"github.com/procdoc/sopgov/internal/document"
	"github.com/procdoc/sopgov/internal/generate"
	"github.com/procdoc/sopgov/internal/ledger"
	"github.com/procdoc/sopgov/internal/store"
	"github.com/procdoc/sopgov/internal/template"
	"github.com/procdoc/sopgov/internal/workflow"
	"github.com/sirupsen/logrus"
)

// DocumentService is the facade the CLI and HTTP server use. Every call takes
// the acting user and role explicitly; nothing here holds session state.
type DocumentService struct {
	engine    *workflow.Engine
	ledger    *ledger.Ledger
	store     store.Store
	router    *generate.Router
	templates *template.Library
	cache     cache.SnapshotCache
}

func NewDocumentService(engine *workflow.Engine, led *ledger.Ledger, st store.Store, router *generate.Router, templates *template.Library, snapshots cache.SnapshotCache) *DocumentService {
	return &DocumentService{
		engine:    engine,
		ledger:    led,
		store:     st,
		router:    router,
		templates: templates,
		cache:     snapshots,
	}
}

// Templates exposes the template library for listing and lookup.
func (s *DocumentService) Templates() *template.Library {
	return s.templates
}

// CreateDocumentRequest describes a new document. Template and Sections are
// mutually exclusive; with neither set the document starts blank.
type CreateDocumentRequest struct {
	Title     string                 `json:"title"`
	Number    string                 `json:"number"`
	Template  string                 `json:"template"`
	Company   string                 `json:"company"`
	Division  string                 `json:"division"`
	Standards []string               `json:"standards"`
	Sections  []document.SectionSpec `json:"sections"`
}

// CreateDocument creates a document from a template, explicit sections, or
// blank.
func (s *DocumentService) CreateDocument(ctx context.Context, actor workflow.Actor, req CreateDocumentRequest) (*document.Document, error) {
	spec := document.Spec{
		Title:     req.Title,
		Number:    req.Number,
		Company:   req.Company,
		Division:  req.Division,
		Standards: req.Standards,
		Sections:  req.Sections,
	}

	if req.Template != "" {
		def, err := s.templates.Get(req.Template)
		if err != nil {
			return nil, err
		}
		sections, err := def.SectionSpecs()
		if err != nil {
			return nil, err
		}

		spec.Template = def.Name
		spec.Sections = sections
		if spec.Title == "" {
			spec.Title = def.Title
		}
		if spec.Number == "" {
			spec.Number = document.GenerateNumber(def.DocNumberPrefix, def.Category, time.Now().UTC())
		}
		if def.Standard != "" {
			spec.Standards = appendUnique(spec.Standards, def.Standard)
		}
	}

	return s.engine.Create(ctx, spec, actor)
}

// GetDocument returns the current committed state.
func (s *DocumentService) GetDocument(ctx context.Context, id string) (*document.Document, error) {
	return s.engine.Get(ctx, id)
}

// ListDocuments returns the current state of every document.
func (s *DocumentService) ListDocuments(ctx context.Context) ([]*document.Document, error) {
	rows, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]*document.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := row.Decode()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// EditSection submits a manual content edit.
func (s *DocumentService) EditSection(ctx context.Context, actor workflow.Actor, docID, sectionID, content string) (*document.Document, error) {
	doc, err := s.engine.Get(ctx, docID)
	if err != nil {
		return nil, err
	}

	proposal, err := doc.ProposeEdit(sectionID, content)
	if err != nil {
		return nil, err
	}

	return s.engine.Submit(ctx, docID, actor, proposal, "")
}

// AddSection inserts a new section. Position -1 appends.
func (s *DocumentService) AddSection(ctx context.Context, actor workflow.Actor, docID string, position int, title, contentType, seed string) (*document.Document, error) {
	doc, err := s.engine.Get(ctx, docID)
	if err != nil {
		return nil, err
	}

	ct, err := document.ParseContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", document.ErrInvalidProposal, err)
	}

	proposal, err := doc.ProposeAddSection(position, title, ct, seed)
	if err != nil {
		return nil, err
	}

	return s.engine.Submit(ctx, docID, actor, proposal, "")
}

// RemoveSection removes a section.
func (s *DocumentService) RemoveSection(ctx context.Context, actor workflow.Actor, docID, sectionID string) (*document.Document, error) {
	doc, err := s.engine.Get(ctx, docID)
	if err != nil {
		return nil, err
	}

	proposal, err := doc.ProposeRemoveSection(sectionID)
	if err != nil {
		return nil, err
	}

	return s.engine.Submit(ctx, docID, actor, proposal, "")
}

// ReorderSections applies a complete new section ordering.
func (s *DocumentService) ReorderSections(ctx context.Context, actor workflow.Actor, docID string, order []string) (*document.Document, error) {
	doc, err := s.engine.Get(ctx, docID)
	if err != nil {
		return nil, err
	}

	proposal, err := doc.ProposeReorder(order)
	if err != nil {
		return nil, err
	}

	return s.engine.Submit(ctx, docID, actor, proposal, "")
}

// GenerateResult pairs the updated document with the generation outcome so
// callers can warn when the placeholder answered.
type GenerateResult struct {
	Document *document.Document `json:"document"`
	Backend  string             `json:"backend"`
	Fallback bool               `json:"fallback"`
}

// GenerateSection routes the section to a generation backend and submits the
// produced content as a regular edit, flagged as generated. A canceled
// generation submits nothing.
func (s *DocumentService) GenerateSection(ctx context.Context, actor workflow.Actor, docID, sectionID, instructions string) (*GenerateResult, error) {
	doc, err := s.engine.Get(ctx, docID)
	if err != nil {
		return nil, err
	}
	sec, err := doc.Section(sectionID)
	if err != nil {
		return nil, err
	}

	selector := s.router.Route(sec.Title)
	result, err := s.router.Generate(ctx, selector, generate.Request{
		DocumentTitle: doc.Title,
		SectionTitle:  sec.Title,
		ContentType:   string(sec.Type),
		Standards:     doc.Standards,
		PriorContent:  sec.Content,
		Instructions:  instructions,
	})
	if err != nil {
		return nil, err
	}

	if result.Fallback {
		logrus.Warnf("placeholder content used for section %q of document %s", sec.Title, docID)
	}

	proposal, err := doc.ProposeGenerated(sectionID, result.Content, result.Backend)
	if err != nil {
		return nil, err
	}

	updated, err := s.engine.Submit(ctx, docID, actor, proposal, "")
	if err != nil {
		return nil, err
	}

	return &GenerateResult{
		Document: updated,
		Backend:  result.Backend,
		Fallback: result.Fallback,
	}, nil
}

// SubmitForReview moves a draft document into review.
func (s *DocumentService) SubmitForReview(ctx context.Context, actor workflow.Actor, docID string) (*document.Document, error) {
	return s.engine.Transition(ctx, docID, actor, document.StateUnderReview)
}

// Approve locks a document under review.
func (s *DocumentService) Approve(ctx context.Context, actor workflow.Actor, docID string) (*document.Document, error) {
	return s.engine.Transition(ctx, docID, actor, document.StateApproved)
}

// Unlock returns an approved document to draft. Admin only, enforced by the
// transition table.
func (s *DocumentService) Unlock(ctx context.Context, actor workflow.Actor, docID string) (*document.Document, error) {
	return s.engine.Transition(ctx, docID, actor, document.StateDraft)
}

// ListVersions returns the document's history, metadata only, ascending.
func (s *DocumentService) ListVersions(ctx context.Context, docID string) ([]*ledger.Entry, error) {
	if _, err := s.store.GetDocument(ctx, docID); err != nil {
		return nil, err
	}

	return s.ledger.History(docID, false).All(ctx)
}

// GetVersion reconstructs the document as of the given commit. This is the
// snapshot accessor export consumers use.
func (s *DocumentService) GetVersion(ctx context.Context, docID string, seq int64) (*document.Document, error) {
	return s.ledger.At(ctx, docID, seq)
}

// RestoreVersion replays an old snapshot as a new commit.
func (s *DocumentService) RestoreVersion(ctx context.Context, actor workflow.Actor, docID string, seq int64) (*document.Document, error) {
	return s.engine.Restore(ctx, docID, actor, seq)
}

// DeleteDocument soft deletes a document. The version history is kept.
func (s *DocumentService) DeleteDocument(ctx context.Context, actor workflow.Actor, docID string) error {
	if err := s.store.DeleteDocument(ctx, docID); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, docID); err != nil {
		logrus.Warnf("snapshot cache invalidation failed for %s: %v", docID, err)
	}

	logrus.Infof("document %s deleted by %s", docID, actor.User)
	return nil
}

func appendUnique(list []string, v string) []string {
	for _, item := range list {
		if item == v {
			return list
		}
	}
	return append(list, v)
}
