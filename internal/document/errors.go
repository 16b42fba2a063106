package document

import (
	"errors"
	"fmt"
)

var (
	// ErrSectionNotFound is returned when a proposal names a section id the document does not contain.
	ErrSectionNotFound = errors.New("section not found")
	// ErrDuplicateSection is returned when a template or reorder introduces a duplicate section id.
	ErrDuplicateSection = errors.New("duplicate section id")
	// ErrContentTypeMismatch is returned when a payload does not match the section's declared content type.
	ErrContentTypeMismatch = errors.New("content does not match section content type")
	// ErrInvalidTemplate is returned when a template definition is malformed.
	ErrInvalidTemplate = errors.New("invalid template")
	// ErrInvalidProposal is returned when a proposal is structurally unusable.
	ErrInvalidProposal = errors.New("invalid proposal")
)

// SectionError carries the offending section id so callers can point at the
// exact section that failed validation.
type SectionError struct {
	SectionID string
	Err       error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section %s: %v", e.SectionID, e.Err)
}

func (e *SectionError) Unwrap() error {
	return e.Err
}
