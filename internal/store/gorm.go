package store

import (
	"context"
	"errors"
	"time"

	"github.com/procdoc/sopgov/internal/model"
	"gorm.io/gorm"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) CreateDocument(ctx context.Context, doc *model.Document) error {
	return g.db.WithContext(ctx).Create(doc).Error
}

func (g *GormStore) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	return &doc, err
}

func (g *GormStore) ListDocuments(ctx context.Context) ([]*model.Document, error) {
	var docs []*model.Document
	err := g.db.WithContext(ctx).Order("created_at asc").Find(&docs).Error
	return docs, err
}

func (g *GormStore) UpdateDocument(ctx context.Context, doc *model.Document) error {
	return g.db.WithContext(ctx).Save(doc).Error
}

func (g *GormStore) DeleteDocument(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Document{}).Error
}

func (g *GormStore) EraseDocument(ctx context.Context, id string) error {
	// version rows are deliberately left in place for audit
	return g.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&model.Document{}).Error
}

func (g *GormStore) ListDeletedBefore(ctx context.Context, cutoff time.Time) ([]*model.Document, error) {
	var docs []*model.Document
	err := g.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Find(&docs).Error
	return docs, err
}

func (g *GormStore) CreateVersion(ctx context.Context, version *model.DocumentVersion) error {
	return g.db.WithContext(ctx).Create(version).Error
}

func (g *GormStore) GetVersion(ctx context.Context, docID string, seq int64) (*model.DocumentVersion, error) {
	var version model.DocumentVersion
	err := g.db.WithContext(ctx).Where("document_id = ? AND seq = ?", docID, seq).First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVersionNotFound
	}
	return &version, err
}

func (g *GormStore) ListVersions(ctx context.Context, docID string, afterSeq int64, limit int) ([]*model.DocumentVersion, error) {
	var versions []*model.DocumentVersion
	q := g.db.WithContext(ctx).Where("document_id = ? AND seq > ?", docID, afterSeq).Order("seq asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&versions).Error
	return versions, err
}

func (g *GormStore) CountVersions(ctx context.Context, docID string) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.DocumentVersion{}).Where("document_id = ?", docID).Count(&count).Error
	return count, err
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
