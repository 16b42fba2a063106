package service

import (
	"context"
	"testing"

	"github.com/procdoc/sopgov/internal/cache"
	"github.com/procdoc/sopgov/internal/compress"
	"github.com/procdoc/sopgov/internal/document"
	"github.com/procdoc/sopgov/internal/generate"
	"github.com/procdoc/sopgov/internal/ledger"
	"github.com/procdoc/sopgov/internal/queue"
	"github.com/procdoc/sopgov/internal/store"
	"github.com/procdoc/sopgov/internal/template"
	"github.com/procdoc/sopgov/internal/tester"
	"github.com/procdoc/sopgov/internal/workflow"
	"github.com/stretchr/testify/assert"
)

var (
	author   = workflow.Actor{User: "alice", Role: workflow.RoleAuthor}
	approver = workflow.Actor{User: "carol", Role: workflow.RoleApprover}
	admin    = workflow.Actor{User: "dave", Role: workflow.RoleAdmin}
)

func newTestService(t *testing.T) *DocumentService {
	t.Helper()
	tester.RemoveDBFile()
	tester.Setup()

	st := store.NewGormStore(tester.TestDB())
	codec := compress.NewNop()
	led := ledger.New(st, codec, compress.CodecNop)
	engine := workflow.NewEngine(st, led, cache.NewNop(), queue.NewNop(), codec, compress.CodecNop)
	router := generate.NewRouter()

	return NewDocumentService(engine, led, st, router, template.NewLibrary(), cache.NewNop())
}

func TestDocumentService_CreateDocument(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name         string
		req          CreateDocumentRequest
		wantSections int
		wantErr      bool
	}{
		{
			name: "explicit sections",
			req: CreateDocumentRequest{
				Title: "Custom SOP",
				Sections: []document.SectionSpec{
					{Title: "Purpose", Type: document.ContentText},
					{Title: "Procedure", Type: document.ContentText},
				},
			},
			wantSections: 2,
		},
		{
			name:         "blank document",
			req:          CreateDocumentRequest{Title: "Blank SOP"},
			wantSections: 1,
		},
		{
			name:         "from template",
			req:          CreateDocumentRequest{Template: "pv-module-qualification"},
			wantSections: 10,
		},
		{
			name:    "unknown template",
			req:     CreateDocumentRequest{Title: "X", Template: "missing"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := svc.CreateDocument(context.TODO(), author, tt.req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, doc.Sections, tt.wantSections)
			assert.Equal(t, document.StateDraft, doc.State)
			assert.NotEmpty(t, doc.Number)
			assert.Equal(t, author.User, doc.CreatedBy)

			got, err := svc.GetDocument(context.TODO(), doc.ID)
			assert.NoError(t, err)
			assert.Equal(t, doc.ID, got.ID)
		})
	}
}

func TestDocumentService_CreateFromTemplate(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.CreateDocument(context.TODO(), author, CreateDocumentRequest{
		Template: "pv-module-qualification",
	})
	assert.NoError(t, err)

	// template supplies title, number prefix and standard
	assert.Equal(t, "PV Module Design Qualification Test", doc.Title)
	assert.Contains(t, doc.Number, "SOP-PV-")
	assert.Contains(t, doc.Standards, "IEC 61215")
	assert.Equal(t, "pv-module-qualification", doc.Template)

	// table section carried over from the template
	var risk *document.Section
	for i := range doc.Sections {
		if doc.Sections[i].Title == "HSE Risk Assessment" {
			risk = &doc.Sections[i]
		}
	}
	assert.NotNil(t, risk)
	assert.Equal(t, document.ContentTable, risk.Type)
}

func TestDocumentService_EditSection(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.CreateDocument(context.TODO(), author, CreateDocumentRequest{Title: "Doc"})
	assert.NoError(t, err)

	updated, err := svc.EditSection(context.TODO(), author, doc.ID, doc.Sections[0].ID, "hello")
	assert.NoError(t, err)
	assert.Equal(t, "hello", updated.Sections[0].Content)
	assert.Equal(t, int64(1), updated.Version)

	_, err = svc.EditSection(context.TODO(), author, doc.ID, "missing", "x")
	assert.ErrorIs(t, err, document.ErrSectionNotFound)
}

func TestDocumentService_SectionLifecycle(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.CreateDocument(context.TODO(), author, CreateDocumentRequest{
		Title: "Doc",
		Sections: []document.SectionSpec{
			{Title: "Purpose", Type: document.ContentText},
			{Title: "Procedure", Type: document.ContentText},
		},
	})
	assert.NoError(t, err)

	added, err := svc.AddSection(context.TODO(), author, doc.ID, -1, "Records", "text", "")
	assert.NoError(t, err)
	assert.Len(t, added.Sections, 3)
	assert.Equal(t, "Records", added.Sections[2].Title)

	order := []string{added.Sections[2].ID, added.Sections[0].ID, added.Sections[1].ID}
	reordered, err := svc.ReorderSections(context.TODO(), author, doc.ID, order)
	assert.NoError(t, err)
	assert.Equal(t, "Records", reordered.Sections[0].Title)

	removed, err := svc.RemoveSection(context.TODO(), author, doc.ID, reordered.Sections[0].ID)
	assert.NoError(t, err)
	assert.Len(t, removed.Sections, 2)
	assert.Equal(t, int64(3), removed.Version)

	// each accepted mutation committed one version
	versions, err := svc.ListVersions(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Len(t, versions, 3)

	_, err = svc.AddSection(context.TODO(), author, doc.ID, -1, "Bad", "markdown", "")
	assert.ErrorIs(t, err, document.ErrInvalidProposal)
}

func TestDocumentService_GenerateSection(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.CreateDocument(context.TODO(), author, CreateDocumentRequest{
		Title:    "PV Module Test",
		Sections: []document.SectionSpec{{Title: "Purpose", Type: document.ContentText}},
	})
	assert.NoError(t, err)

	// no backend registered: deterministic placeholder, flagged
	res, err := svc.GenerateSection(context.TODO(), author, doc.ID, doc.Sections[0].ID, "")
	assert.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, generate.PlaceholderName, res.Backend)

	sec := res.Document.Sections[0]
	assert.True(t, sec.AIGenerated)
	assert.Equal(t, generate.PlaceholderName, sec.Backend)
	assert.NotEmpty(t, sec.Content)
	assert.Equal(t, int64(1), res.Document.Version)

	// manual edit clears the generated flag
	edited, err := svc.EditSection(context.TODO(), author, doc.ID, sec.ID, "manual text")
	assert.NoError(t, err)
	assert.False(t, edited.Sections[0].AIGenerated)
}

func TestDocumentService_ApprovalScenario(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.CreateDocument(context.TODO(), author, CreateDocumentRequest{Title: "Doc"})
	assert.NoError(t, err)

	_, err = svc.EditSection(context.TODO(), author, doc.ID, doc.Sections[0].ID, "draft content")
	assert.NoError(t, err)

	underReview, err := svc.SubmitForReview(context.TODO(), author, doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, document.StateUnderReview, underReview.State)

	approved, err := svc.Approve(context.TODO(), approver, doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, document.StateApproved, approved.State)
	assert.Equal(t, "1.0.0", approved.Revision)

	// approved documents reject edits
	_, err = svc.EditSection(context.TODO(), author, doc.ID, doc.Sections[0].ID, "late")
	assert.ErrorIs(t, err, workflow.ErrNotAuthorized)

	// author cannot unlock
	_, err = svc.Unlock(context.TODO(), author, doc.ID)
	assert.ErrorIs(t, err, workflow.ErrNotAuthorized)

	unlocked, err := svc.Unlock(context.TODO(), admin, doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, document.StateDraft, unlocked.State)

	_, err = svc.EditSection(context.TODO(), author, doc.ID, doc.Sections[0].ID, "post unlock")
	assert.NoError(t, err)
}

func TestDocumentService_Versions(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.CreateDocument(context.TODO(), author, CreateDocumentRequest{Title: "Doc"})
	assert.NoError(t, err)
	secID := doc.Sections[0].ID

	_, err = svc.EditSection(context.TODO(), author, doc.ID, secID, "v1")
	assert.NoError(t, err)
	_, err = svc.EditSection(context.TODO(), author, doc.ID, secID, "v2")
	assert.NoError(t, err)

	versions, err := svc.ListVersions(context.TODO(), doc.ID)
	assert.NoError(t, err)
	assert.Len(t, versions, 2)
	assert.Equal(t, int64(1), versions[0].Seq)
	assert.Equal(t, int64(2), versions[1].Seq)
	// listings are metadata only
	assert.Nil(t, versions[0].Sections)

	v1, err := svc.GetVersion(context.TODO(), doc.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, "v1", v1.Sections[0].Content)

	restored, err := svc.RestoreVersion(context.TODO(), admin, doc.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, "v1", restored.Sections[0].Content)
	assert.Equal(t, int64(3), restored.Version)

	_, err = svc.ListVersions(context.TODO(), "missing")
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
}

func TestDocumentService_Delete(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.CreateDocument(context.TODO(), author, CreateDocumentRequest{Title: "Doc"})
	assert.NoError(t, err)
	_, err = svc.EditSection(context.TODO(), author, doc.ID, doc.Sections[0].ID, "content")
	assert.NoError(t, err)

	assert.NoError(t, svc.DeleteDocument(context.TODO(), admin, doc.ID))

	_, err = svc.GetDocument(context.TODO(), doc.ID)
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)

	docs, err := svc.ListDocuments(context.TODO())
	assert.NoError(t, err)
	assert.Empty(t, docs)
}
