package ledger

import (
	"context"

	"github.com/procdoc/sopgov/internal/model"
)

const historyPageSize = 50

// Iterator walks a document's history in ascending sequence order, paging
// from the store so long histories are never loaded at once. It is restartable
// via Reset.
type Iterator struct {
	ledger       *Ledger
	docID        string
	withSnapshot bool

	buf     []*model.DocumentVersion
	lastSeq int64
	done    bool
}

// History returns an iterator over a document's versions, ascending.
// withSnapshot controls whether section snapshots are decoded; listings that
// only need metadata skip the decode.
func (l *Ledger) History(docID string, withSnapshot bool) *Iterator {
	return &Iterator{
		ledger:       l,
		docID:        docID,
		withSnapshot: withSnapshot,
	}
}

// Next returns the next entry, or nil when the history is exhausted.
func (it *Iterator) Next(ctx context.Context) (*Entry, error) {
	if len(it.buf) == 0 {
		if it.done {
			return nil, nil
		}

		page, err := it.ledger.store.ListVersions(ctx, it.docID, it.lastSeq, historyPageSize)
		if err != nil {
			return nil, err
		}
		if len(page) < historyPageSize {
			it.done = true
		}
		if len(page) == 0 {
			return nil, nil
		}
		it.buf = page
	}

	row := it.buf[0]
	it.buf = it.buf[1:]
	it.lastSeq = row.Seq

	return decodeEntry(row, it.withSnapshot)
}

// Reset restarts the iterator from the beginning.
func (it *Iterator) Reset() {
	it.buf = nil
	it.lastSeq = 0
	it.done = false
}

// All drains the iterator into a slice.
func (it *Iterator) All(ctx context.Context) ([]*Entry, error) {
	var entries []*Entry
	for {
		entry, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return entries, nil
		}
		entries = append(entries, entry)
	}
}
