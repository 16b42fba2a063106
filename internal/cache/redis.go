package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/procdoc/sopgov/internal/document"
	redis "github.com/redis/go-redis/v9"
)

const snapshotTTL = time.Hour

func documentKey(id string) string {
	return "document:" + id
}

var _ SnapshotCache = (*Redis)(nil)

// Redis caches latest committed document snapshots as JSON.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // No password set
		DB:       0,  // Use default DB
	})

	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, id string) (*document.Document, error) {
	res := r.client.Get(ctx, documentKey(id))
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return nil, nil
		}
		return nil, res.Err()
	}

	buf, err := res.Bytes()
	if err != nil {
		return nil, err
	}

	doc := &document.Document{}
	if err := json.Unmarshal(buf, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func (r *Redis) Set(ctx context.Context, doc *document.Document) error {
	marshal, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, documentKey(doc.ID), marshal, snapshotTTL).Err()
}

func (r *Redis) Invalidate(ctx context.Context, id string) error {
	return r.client.Del(ctx, documentKey(id)).Err()
}
