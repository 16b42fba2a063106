package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/procdoc/sopgov/internal/compress"
	"github.com/procdoc/sopgov/internal/document"
	"gorm.io/gorm"
)

// Document is the persisted current state of a document. Sections are stored
// as a JSON blob (optionally compressed) so a row is a self-contained,
// inspectable record.
type Document struct {
	gorm.Model
	ID            string `gorm:"primaryKey;uuid;not null"`
	Title         string `gorm:"not null"`
	Number        string
	Revision      string
	EffectiveDate *time.Time
	State         string `gorm:"not null"`
	Company       string
	Division      string
	Standards     string // JSON array
	Template      string
	Approver      string
	CreatedBy     string
	Sections      string `gorm:"not null"` // JSON array of sections
	Compression   string // codec used for the sections column
	Version       int64  // sequence number of the last committed version
}

// DocumentVersion is one immutable ledger entry: a full snapshot of the
// document's sections at commit time. Rows are append-only; nothing updates
// or deletes them.
type DocumentVersion struct {
	gorm.Model
	DocumentID  string `gorm:"primaryKey;uuid;not null"`
	Seq         int64  `gorm:"primaryKey"`
	Actor       string `gorm:"not null"`
	Role        string `gorm:"not null"`
	State       string `gorm:"not null"`
	Revision    string
	Description string
	Snapshot    string `gorm:"not null"` // JSON array of sections
	Compression string
	CommittedAt time.Time
}

func (DocumentVersion) TableName() string {
	return "document_versions"
}

// Encode converts a domain document into its persisted form.
func Encode(doc *document.Document, codec compress.Compress, codecName string) (*Document, error) {
	sections, err := json.Marshal(doc.Sections)
	if err != nil {
		return nil, err
	}
	encoded, err := codec.Encode(sections)
	if err != nil {
		return nil, err
	}

	standards, err := json.Marshal(doc.Standards)
	if err != nil {
		return nil, err
	}

	return &Document{
		ID:            doc.ID,
		Title:         doc.Title,
		Number:        doc.Number,
		Revision:      doc.Revision,
		EffectiveDate: doc.EffectiveDate,
		State:         string(doc.State),
		Company:       doc.Company,
		Division:      doc.Division,
		Standards:     string(standards),
		Template:      doc.Template,
		Approver:      doc.Approver,
		CreatedBy:     doc.CreatedBy,
		Sections:      string(encoded),
		Compression:   codecName,
		Version:       doc.Version,
	}, nil
}

// Decode converts a persisted row back into a domain document. The codec is
// resolved from the row so rows written under an older configuration stay
// readable.
func (m *Document) Decode() (*document.Document, error) {
	codec, err := compress.ByName(m.Compression)
	if err != nil {
		return nil, err
	}

	data, err := codec.Decode([]byte(m.Sections))
	if err != nil {
		return nil, fmt.Errorf("document %s: decode sections: %w", m.ID, err)
	}

	var sections []document.Section
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("document %s: sections corrupted: %w", m.ID, err)
	}

	var standards []string
	if m.Standards != "" {
		if err := json.Unmarshal([]byte(m.Standards), &standards); err != nil {
			return nil, fmt.Errorf("document %s: standards corrupted: %w", m.ID, err)
		}
	}

	return &document.Document{
		ID:            m.ID,
		Title:         m.Title,
		Number:        m.Number,
		Revision:      m.Revision,
		EffectiveDate: m.EffectiveDate,
		State:         document.State(m.State),
		Sections:      sections,
		Company:       m.Company,
		Division:      m.Division,
		Standards:     standards,
		Template:      m.Template,
		Approver:      m.Approver,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		Version:       m.Version,
	}, nil
}

// DecodeSnapshot returns the section snapshot stored in a version row.
func (v *DocumentVersion) DecodeSnapshot() ([]document.Section, error) {
	codec, err := compress.ByName(v.Compression)
	if err != nil {
		return nil, err
	}

	data, err := codec.Decode([]byte(v.Snapshot))
	if err != nil {
		return nil, fmt.Errorf("version %s/%d: decode snapshot: %w", v.DocumentID, v.Seq, err)
	}

	var sections []document.Section
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("version %s/%d: snapshot corrupted: %w", v.DocumentID, v.Seq, err)
	}

	return sections, nil
}
