package ledger

import (
	"context"
	"fmt"
	"testing"

	"github.com/procdoc/sopgov/internal/compress"
	"github.com/procdoc/sopgov/internal/document"
	"github.com/procdoc/sopgov/internal/model"
	"github.com/procdoc/sopgov/internal/store"
	"github.com/procdoc/sopgov/internal/tester"
	"github.com/stretchr/testify/assert"
)

func newTestLedger(t *testing.T) (*Ledger, store.Store) {
	t.Helper()
	tester.RemoveDBFile()
	tester.Setup()

	st := store.NewGormStore(tester.TestDB())
	return New(st, compress.NewNop(), compress.CodecNop), st
}

func seedDocument(t *testing.T, st store.Store) *document.Document {
	t.Helper()

	doc, err := document.New(document.Spec{
		Title: "Inverter Efficiency Test",
		Sections: []document.SectionSpec{
			{Title: "Purpose", Type: document.ContentText},
			{Title: "Procedure", Type: document.ContentText},
		},
	})
	assert.NoError(t, err)

	row, err := model.Encode(doc, compress.NewNop(), compress.CodecNop)
	assert.NoError(t, err)
	assert.NoError(t, st.CreateDocument(context.TODO(), row))

	return doc
}

// commit writes n sequential versions, changing the first section each time.
func commitVersions(t *testing.T, led *Ledger, st store.Store, doc *document.Document, n int) {
	t.Helper()

	for i := 1; i <= n; i++ {
		doc.Sections[0].Content = fmt.Sprintf("content v%d", i)
		doc.Version = int64(i)

		err := st.Transaction(context.TODO(), func(tx store.Store) error {
			_, err := led.Commit(context.TODO(), tx, doc, "alice", "doer", fmt.Sprintf("edit %d", i))
			return err
		})
		assert.NoError(t, err)
	}
}

func TestLedger_Commit(t *testing.T) {
	led, st := newTestLedger(t)
	doc := seedDocument(t, st)

	commitVersions(t, led, st, doc, 3)

	count, err := led.Count(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)

	entries, err := led.History(doc.ID, false).All(context.TODO())
	assert.NoError(t, err)
	assert.Len(t, entries, 3)
	for i, entry := range entries {
		assert.Equal(t, int64(i+1), entry.Seq)
		assert.Equal(t, fmt.Sprintf("edit %d", i+1), entry.Description)
		assert.Nil(t, entry.Sections)
	}
}

func TestLedger_CommitWithoutVersion(t *testing.T) {
	led, st := newTestLedger(t)
	doc := seedDocument(t, st)

	err := st.Transaction(context.TODO(), func(tx store.Store) error {
		_, err := led.Commit(context.TODO(), tx, doc, "alice", "doer", "no version assigned")
		return err
	})
	assert.Error(t, err)
}

func TestLedger_At(t *testing.T) {
	led, st := newTestLedger(t)
	doc := seedDocument(t, st)

	commitVersions(t, led, st, doc, 3)

	for i := 1; i <= 3; i++ {
		at, err := led.At(context.TODO(), doc.ID, int64(i))
		assert.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("content v%d", i), at.Sections[0].Content)
		assert.Equal(t, int64(i), at.Version)
	}

	_, err := led.At(context.TODO(), doc.ID, 0)
	assert.ErrorIs(t, err, store.ErrVersionNotFound)

	_, err = led.At(context.TODO(), doc.ID, 4)
	assert.ErrorIs(t, err, store.ErrVersionNotFound)
}

func TestLedger_HistoryWithSnapshot(t *testing.T) {
	led, st := newTestLedger(t)
	doc := seedDocument(t, st)

	commitVersions(t, led, st, doc, 2)

	entries, err := led.History(doc.ID, true).All(context.TODO())
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "content v1", entries[0].Sections[0].Content)
	assert.Equal(t, "content v2", entries[1].Sections[0].Content)
}

func TestLedger_IteratorPaging(t *testing.T) {
	led, st := newTestLedger(t)
	doc := seedDocument(t, st)

	// more versions than one iterator page
	commitVersions(t, led, st, doc, historyPageSize+7)

	it := led.History(doc.ID, false)
	var seqs []int64
	for {
		entry, err := it.Next(context.TODO())
		assert.NoError(t, err)
		if entry == nil {
			break
		}
		seqs = append(seqs, entry.Seq)
	}

	assert.Len(t, seqs, historyPageSize+7)
	for i, seq := range seqs {
		assert.Equal(t, int64(i+1), seq)
	}

	// Reset restarts from the beginning
	it.Reset()
	entry, err := it.Next(context.TODO())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), entry.Seq)
}

func TestLedger_HistoryEmpty(t *testing.T) {
	led, st := newTestLedger(t)
	doc := seedDocument(t, st)

	entries, err := led.History(doc.ID, false).All(context.TODO())
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLedger_CompressedRoundTrip(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	st := store.NewGormStore(tester.TestDB())
	led := New(st, compress.NewGZip(), compress.CodecGZip)

	doc, err := document.New(document.Spec{
		Title:    "Compressed Doc",
		Sections: []document.SectionSpec{{Title: "Purpose", Type: document.ContentText}},
	})
	assert.NoError(t, err)

	row, err := model.Encode(doc, compress.NewGZip(), compress.CodecGZip)
	assert.NoError(t, err)
	assert.NoError(t, st.CreateDocument(context.TODO(), row))

	doc.Sections[0].Content = "compressed snapshot content"
	doc.Version = 1
	err = st.Transaction(context.TODO(), func(tx store.Store) error {
		_, err := led.Commit(context.TODO(), tx, doc, "alice", "doer", "edit")
		return err
	})
	assert.NoError(t, err)

	at, err := led.At(context.TODO(), doc.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, "compressed snapshot content", at.Sections[0].Content)
}
