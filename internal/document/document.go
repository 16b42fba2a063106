// Package document holds the authoritative in-memory state of an SOP document
// and exposes mutation primitives as proposals. Proposals never mutate the
// document directly; they are validated here and applied by the workflow
// engine after authorization.
package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a document. Transitions are owned by the
// workflow package; the document only records the current value.
type State string

const (
	StateDraft       State = "draft"
	StateUnderReview State = "under_review"
	StateApproved    State = "approved"
)

// Section is a titled, typed content unit within a document.
type Section struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	Type        ContentType `json:"type"`
	Position    int         `json:"position"`
	AIGenerated bool        `json:"ai_generated,omitempty"`
	Backend     string      `json:"backend,omitempty"`
	UpdatedBy   string      `json:"updated_by,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at,omitempty"`
}

// Document is an SOP document composed of ordered sections.
type Document struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Number        string     `json:"number"`
	Revision      string     `json:"revision"`
	EffectiveDate *time.Time `json:"effective_date,omitempty"`
	State         State      `json:"state"`
	Sections      []Section  `json:"sections"`
	Company       string     `json:"company,omitempty"`
	Division      string     `json:"division,omitempty"`
	Standards     []string   `json:"standards,omitempty"`
	Template      string     `json:"template,omitempty"`
	Approver      string     `json:"approver,omitempty"`
	CreatedBy     string     `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Version is the sequence number of the last committed ledger entry.
	// Zero for a document that has never been committed.
	Version int64 `json:"version"`
}

// Spec describes a new document. Sections may be empty for a blank start, in
// which case a single empty text section is created.
type Spec struct {
	Title     string
	Number    string
	Company   string
	Division  string
	Standards []string
	Template  string
	CreatedBy string
	Sections  []SectionSpec
}

// SectionSpec describes one section of a new document.
type SectionSpec struct {
	Title string      `json:"title"`
	Type  ContentType `json:"type"`
	Seed  string      `json:"seed"`
}

// New builds a document from a spec. It fails with ErrInvalidTemplate if the
// section definitions are malformed.
func New(spec Spec) (*Document, error) {
	if spec.Title == "" {
		return nil, fmt.Errorf("%w: document title is empty", ErrInvalidTemplate)
	}

	sections := spec.Sections
	if len(sections) == 0 {
		// blank start
		sections = []SectionSpec{{Title: "Untitled Section", Type: ContentText}}
	}

	now := time.Now().UTC()
	doc := &Document{
		ID:        uuid.New().String(),
		Title:     spec.Title,
		Number:    spec.Number,
		Revision:  "0.1.0",
		State:     StateDraft,
		Company:   spec.Company,
		Division:  spec.Division,
		Standards: append([]string(nil), spec.Standards...),
		Template:  spec.Template,
		CreatedBy: spec.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	titles := make(map[string]struct{}, len(sections))
	for i, def := range sections {
		if def.Title == "" {
			return nil, fmt.Errorf("%w: section %d has an empty title", ErrInvalidTemplate, i)
		}
		if _, ok := titles[def.Title]; ok {
			return nil, fmt.Errorf("%w: duplicate section title %q", ErrInvalidTemplate, def.Title)
		}
		titles[def.Title] = struct{}{}

		if _, ok := contentTypes[def.Type]; !ok {
			return nil, fmt.Errorf("%w: section %q has unknown content type %q", ErrInvalidTemplate, def.Title, def.Type)
		}
		if err := ValidateContent(def.Type, def.Seed); err != nil {
			return nil, fmt.Errorf("%w: section %q seed: %v", ErrInvalidTemplate, def.Title, err)
		}

		doc.Sections = append(doc.Sections, Section{
			ID:        uuid.New().String(),
			Title:     def.Title,
			Content:   def.Seed,
			Type:      def.Type,
			Position:  i,
			UpdatedBy: spec.CreatedBy,
			UpdatedAt: now,
		})
	}

	return doc, nil
}

// Section returns the section with the given id.
func (d *Document) Section(id string) (*Section, error) {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return &d.Sections[i], nil
		}
	}

	return nil, &SectionError{SectionID: id, Err: ErrSectionNotFound}
}

// Clone returns a deep copy of the document. Apply mutates a clone so a failed
// structural change never leaves the caller with a half-updated document.
func (d *Document) Clone() *Document {
	clone := *d
	clone.Sections = append([]Section(nil), d.Sections...)
	clone.Standards = append([]string(nil), d.Standards...)
	return &clone
}

// Editable reports whether the lifecycle state permits content mutations.
func (d *Document) Editable() bool {
	return d.State == StateDraft || d.State == StateUnderReview
}

// reindex recomputes contiguous section positions after remove or reorder.
func (d *Document) reindex() {
	for i := range d.Sections {
		d.Sections[i].Position = i
	}
}
