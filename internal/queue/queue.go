package queue

import (
	"context"
	"time"
)

// CommitEvent is published once per committed version so downstream audit
// consumers can follow the ledger without polling the database.
type CommitEvent struct {
	DocumentID  string    `json:"document_id"`
	Seq         int64     `json:"seq"`
	Actor       string    `json:"actor"`
	Role        string    `json:"role"`
	State       string    `json:"state"`
	Description string    `json:"description"`
	CommittedAt time.Time `json:"committed_at"`
}

// AuditQueue publishes commit events. Publishing is best-effort and happens
// after the transaction; a publish failure never rolls back a commit.
type AuditQueue interface {
	PublishCommit(ctx context.Context, event CommitEvent) error
	Close()
}

// Nop is the queue used when no broker is configured.
type Nop struct {
}

func NewNop() Nop {
	return Nop{}
}

func (Nop) PublishCommit(ctx context.Context, event CommitEvent) error {
	return nil
}

func (Nop) Close() {
}
