package jobs

import (
	"context"

	"github.com/procdoc/sopgov/internal/cache"
	"github.com/procdoc/sopgov/internal/store"
	"github.com/sirupsen/logrus"
)

// CacheWarmer re-primes the snapshot cache from the store so reads stay warm
// after a cache restart. Best-effort: a failed document is skipped, never
// retried in the same run.
type CacheWarmer struct {
	store    store.Store
	cache    cache.SnapshotCache
	schedule string
}

func NewCacheWarmer(st store.Store, snapshots cache.SnapshotCache, schedule string) *CacheWarmer {
	return &CacheWarmer{
		store:    st,
		cache:    snapshots,
		schedule: schedule,
	}
}

func (w *CacheWarmer) Name() string {
	return "cache_warmer"
}

func (w *CacheWarmer) Schedule() string {
	return w.schedule
}

func (w *CacheWarmer) Run() {
	ctx := context.Background()

	rows, err := w.store.ListDocuments(ctx)
	if err != nil {
		logrus.Errorf("cache warmer: listing documents: %v", err)
		return
	}

	warmed := 0
	for _, row := range rows {
		doc, err := row.Decode()
		if err != nil {
			logrus.Errorf("cache warmer: decoding document %s: %v", row.ID, err)
			continue
		}
		if err := w.cache.Set(ctx, doc); err != nil {
			logrus.Warnf("cache warmer: caching document %s: %v", row.ID, err)
			continue
		}
		warmed++
	}

	logrus.Infof("cache warmer: warmed %d of %d documents", warmed, len(rows))
}
