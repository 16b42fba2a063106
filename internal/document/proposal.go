package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProposalKind enumerates the mutation kinds a document accepts.
type ProposalKind string

const (
	ProposalEdit    ProposalKind = "edit"
	ProposalAdd     ProposalKind = "add"
	ProposalRemove  ProposalKind = "remove"
	ProposalReorder ProposalKind = "reorder"
)

// Proposal describes a validated mutation. It is produced by the Propose*
// methods and applied by the workflow engine after authorization; building a
// proposal never changes the document.
type Proposal struct {
	Kind      ProposalKind
	SectionID string

	// edit
	Content     string
	Before      string
	AIGenerated bool
	Backend     string

	// add
	Title    string
	Type     ContentType
	Position int
	Seed     string

	// reorder: the complete new ordering of section ids
	Order []string
}

// Describe renders a short change summary for the ledger entry.
func (p Proposal) Describe(d *Document) string {
	switch p.Kind {
	case ProposalEdit:
		if sec, err := d.Section(p.SectionID); err == nil {
			if p.AIGenerated {
				return fmt.Sprintf("generated content for section %q via %s", sec.Title, p.Backend)
			}
			return fmt.Sprintf("edited section %q", sec.Title)
		}
		return "edited section"
	case ProposalAdd:
		return fmt.Sprintf("added section %q", p.Title)
	case ProposalRemove:
		if sec, err := d.Section(p.SectionID); err == nil {
			return fmt.Sprintf("removed section %q", sec.Title)
		}
		return "removed section"
	case ProposalReorder:
		return "reordered sections"
	}
	return string(p.Kind)
}

// ProposeEdit validates a content change against the section's declared type.
func (d *Document) ProposeEdit(sectionID, content string) (Proposal, error) {
	sec, err := d.Section(sectionID)
	if err != nil {
		return Proposal{}, err
	}

	if err := ValidateContent(sec.Type, content); err != nil {
		return Proposal{}, &SectionError{SectionID: sectionID, Err: err}
	}

	return Proposal{
		Kind:      ProposalEdit,
		SectionID: sectionID,
		Content:   content,
		Before:    sec.Content,
	}, nil
}

// ProposeGenerated is ProposeEdit for AI-produced content. The backend name is
// recorded on the section so generated text is never indistinguishable from a
// manual edit.
func (d *Document) ProposeGenerated(sectionID, content, backend string) (Proposal, error) {
	p, err := d.ProposeEdit(sectionID, content)
	if err != nil {
		return Proposal{}, err
	}

	p.AIGenerated = true
	p.Backend = backend
	return p, nil
}

// ProposeAddSection validates a new section at the given position. Position -1
// appends.
func (d *Document) ProposeAddSection(position int, title string, ct ContentType, seed string) (Proposal, error) {
	if title == "" {
		return Proposal{}, fmt.Errorf("%w: section title is empty", ErrInvalidProposal)
	}
	if _, ok := contentTypes[ct]; !ok {
		return Proposal{}, fmt.Errorf("%w: unknown content type %q", ErrInvalidProposal, ct)
	}
	if position < -1 || position > len(d.Sections) {
		return Proposal{}, fmt.Errorf("%w: position %d out of range [0..%d]", ErrInvalidProposal, position, len(d.Sections))
	}
	if err := ValidateContent(ct, seed); err != nil {
		return Proposal{}, err
	}

	if position == -1 {
		position = len(d.Sections)
	}

	return Proposal{
		Kind:     ProposalAdd,
		Title:    title,
		Type:     ct,
		Position: position,
		Seed:     seed,
	}, nil
}

// ProposeRemoveSection validates removal of a section.
func (d *Document) ProposeRemoveSection(sectionID string) (Proposal, error) {
	if _, err := d.Section(sectionID); err != nil {
		return Proposal{}, err
	}
	if len(d.Sections) == 1 {
		return Proposal{}, fmt.Errorf("%w: cannot remove the last section", ErrInvalidProposal)
	}

	return Proposal{Kind: ProposalRemove, SectionID: sectionID}, nil
}

// ProposeReorder validates a complete new ordering. The order must name every
// section exactly once; an unknown or duplicate id rejects the proposal
// wholesale.
func (d *Document) ProposeReorder(order []string) (Proposal, error) {
	if len(order) != len(d.Sections) {
		return Proposal{}, fmt.Errorf("%w: order names %d sections, document has %d", ErrInvalidProposal, len(order), len(d.Sections))
	}

	seen := make(map[string]struct{}, len(order))
	for _, id := range order {
		if _, ok := seen[id]; ok {
			return Proposal{}, &SectionError{SectionID: id, Err: ErrDuplicateSection}
		}
		seen[id] = struct{}{}

		if _, err := d.Section(id); err != nil {
			return Proposal{}, err
		}
	}

	return Proposal{Kind: ProposalReorder, Order: append([]string(nil), order...)}, nil
}

// Apply performs the mutation atomically on a clone and returns the resulting
// document. The receiver is never modified; either the whole change succeeds
// or the caller keeps the old state. Apply revalidates because the document
// may have changed between proposal and application.
func (d *Document) Apply(p Proposal, actor string, at time.Time) (*Document, error) {
	next := d.Clone()

	switch p.Kind {
	case ProposalEdit:
		sec, err := next.Section(p.SectionID)
		if err != nil {
			return nil, err
		}
		if err := ValidateContent(sec.Type, p.Content); err != nil {
			return nil, &SectionError{SectionID: p.SectionID, Err: err}
		}
		sec.Content = p.Content
		sec.AIGenerated = p.AIGenerated
		sec.Backend = p.Backend
		sec.UpdatedBy = actor
		sec.UpdatedAt = at

	case ProposalAdd:
		if p.Position < 0 || p.Position > len(next.Sections) {
			return nil, fmt.Errorf("%w: position %d out of range", ErrInvalidProposal, p.Position)
		}
		sec := Section{
			ID:        uuid.New().String(),
			Title:     p.Title,
			Content:   p.Seed,
			Type:      p.Type,
			UpdatedBy: actor,
			UpdatedAt: at,
		}
		next.Sections = append(next.Sections, Section{})
		copy(next.Sections[p.Position+1:], next.Sections[p.Position:])
		next.Sections[p.Position] = sec
		next.reindex()

	case ProposalRemove:
		idx := -1
		for i := range next.Sections {
			if next.Sections[i].ID == p.SectionID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, &SectionError{SectionID: p.SectionID, Err: ErrSectionNotFound}
		}
		next.Sections = append(next.Sections[:idx], next.Sections[idx+1:]...)
		next.reindex()

	case ProposalReorder:
		if len(p.Order) != len(next.Sections) {
			return nil, fmt.Errorf("%w: order names %d sections, document has %d", ErrInvalidProposal, len(p.Order), len(next.Sections))
		}
		reordered := make([]Section, 0, len(p.Order))
		seen := make(map[string]struct{}, len(p.Order))
		for _, id := range p.Order {
			if _, ok := seen[id]; ok {
				return nil, &SectionError{SectionID: id, Err: ErrDuplicateSection}
			}
			seen[id] = struct{}{}
			sec, err := next.Section(id)
			if err != nil {
				return nil, err
			}
			reordered = append(reordered, *sec)
		}
		next.Sections = reordered
		next.reindex()

	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidProposal, p.Kind)
	}

	next.UpdatedAt = at
	return next, nil
}
