package jobs

import (
	"context"
	"time"

	"github.com/procdoc/sopgov/internal/store"
	"github.com/sirupsen/logrus"
)

// ArchiveCleaner erases soft-deleted documents once they are past the
// retention window. Version rows are never touched: the audit trail outlives
// the document.
type ArchiveCleaner struct {
	store     store.Store
	retention time.Duration
	schedule  string
}

func NewArchiveCleaner(st store.Store, retention time.Duration, schedule string) *ArchiveCleaner {
	return &ArchiveCleaner{
		store:     st,
		retention: retention,
		schedule:  schedule,
	}
}

func (c *ArchiveCleaner) Name() string {
	return "archive_cleaner"
}

func (c *ArchiveCleaner) Schedule() string {
	return c.schedule
}

func (c *ArchiveCleaner) Run() {
	ctx := context.Background()
	cutoff := time.Now().Add(-c.retention)

	docs, err := c.store.ListDeletedBefore(ctx, cutoff)
	if err != nil {
		logrus.Errorf("archive cleaner: listing deleted documents: %v", err)
		return
	}

	for _, doc := range docs {
		if err := c.store.EraseDocument(ctx, doc.ID); err != nil {
			logrus.Errorf("archive cleaner: erasing document %s: %v", doc.ID, err)
			continue
		}
		logrus.Infof("archive cleaner: erased document %s (deleted %s)", doc.ID, doc.DeletedAt.Time.Format(time.RFC3339))
	}
}
