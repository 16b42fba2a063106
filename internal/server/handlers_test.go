package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/procdoc/sopgov/internal/cache"
	"github.com/procdoc/sopgov/internal/compress"
	"github.com/procdoc/sopgov/internal/document"
	"github.com/procdoc/sopgov/internal/generate"
	"github.com/procdoc/sopgov/internal/ledger"
	"github.com/procdoc/sopgov/internal/queue"
	"github.com/procdoc/sopgov/internal/service"
	"github.com/procdoc/sopgov/internal/store"
	"github.com/procdoc/sopgov/internal/template"
	"github.com/procdoc/sopgov/internal/tester"
	"github.com/procdoc/sopgov/internal/workflow"
	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	tester.RemoveDBFile()
	tester.Setup()

	st := store.NewGormStore(tester.TestDB())
	codec := compress.NewNop()
	led := ledger.New(st, codec, compress.CodecNop)
	engine := workflow.NewEngine(st, led, cache.NewNop(), queue.NewNop(), codec, compress.CodecNop)
	docs := service.NewDocumentService(engine, led, st, generate.NewRouter(), template.NewLibrary(), cache.NewNop())

	srv := httptest.NewServer(NewRouter(docs))
	t.Cleanup(srv.Close)
	return srv
}

func request(t *testing.T, srv *httptest.Server, method, path, actor, role string, body, out interface{}) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, srv.URL+path, &buf)
	assert.NoError(t, err)
	if actor != "" {
		req.Header.Set("X-Actor", actor)
		req.Header.Set("X-Role", role)
	}

	res, err := srv.Client().Do(req)
	assert.NoError(t, err)
	defer res.Body.Close()

	if out != nil {
		assert.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}

	return res.StatusCode
}

func createDoc(t *testing.T, srv *httptest.Server) *document.Document {
	t.Helper()

	var doc document.Document
	status := request(t, srv, http.MethodPost, "/v1/documents", "alice", "doer", map[string]interface{}{
		"title": "PV Module Wet Leakage Test",
	}, &doc)
	assert.Equal(t, http.StatusCreated, status)

	return &doc
}

func TestCreateAndGetDocument(t *testing.T) {
	srv := newTestServer(t)
	doc := createDoc(t, srv)

	var got document.Document
	status := request(t, srv, http.MethodGet, "/v1/documents/"+doc.ID, "", "", nil, &got)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, document.StateDraft, got.State)
}

func TestCreateDocument_RequiresActor(t *testing.T) {
	srv := newTestServer(t)

	status := request(t, srv, http.MethodPost, "/v1/documents", "", "", map[string]string{"title": "X"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = request(t, srv, http.MethodPost, "/v1/documents", "alice", "superuser", map[string]string{"title": "X"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestEditSection(t *testing.T) {
	srv := newTestServer(t)
	doc := createDoc(t, srv)

	var updated document.Document
	path := fmt.Sprintf("/v1/documents/%s/sections/%s", doc.ID, doc.Sections[0].ID)
	status := request(t, srv, http.MethodPut, path, "alice", "doer", map[string]string{"content": "hello"}, &updated)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "hello", updated.Sections[0].Content)
	assert.Equal(t, int64(1), updated.Version)

	// unknown section
	path = fmt.Sprintf("/v1/documents/%s/sections/%s", doc.ID, "missing")
	status = request(t, srv, http.MethodPut, path, "alice", "doer", map[string]string{"content": "x"}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestApprovalFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	doc := createDoc(t, srv)

	status := request(t, srv, http.MethodPost, "/v1/documents/"+doc.ID+"/review", "alice", "doer", nil, nil)
	assert.Equal(t, http.StatusOK, status)

	// doer may not approve
	status = request(t, srv, http.MethodPost, "/v1/documents/"+doc.ID+"/approve", "alice", "doer", nil, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var approved document.Document
	status = request(t, srv, http.MethodPost, "/v1/documents/"+doc.ID+"/approve", "carol", "approver", nil, &approved)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, document.StateApproved, approved.State)
	assert.Equal(t, "1.0.0", approved.Revision)

	// approved content is locked
	path := fmt.Sprintf("/v1/documents/%s/sections/%s", doc.ID, doc.Sections[0].ID)
	status = request(t, srv, http.MethodPut, path, "dave", "admin", map[string]string{"content": "late"}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// only the admin unlocks
	status = request(t, srv, http.MethodPost, "/v1/documents/"+doc.ID+"/unlock", "carol", "approver", nil, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status = request(t, srv, http.MethodPost, "/v1/documents/"+doc.ID+"/unlock", "dave", "admin", nil, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestVersionsOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	doc := createDoc(t, srv)

	path := fmt.Sprintf("/v1/documents/%s/sections/%s", doc.ID, doc.Sections[0].ID)
	for _, content := range []string{"v1", "v2"} {
		status := request(t, srv, http.MethodPut, path, "alice", "doer", map[string]string{"content": content}, nil)
		assert.Equal(t, http.StatusOK, status)
	}

	var listing struct {
		Versions []*ledger.Entry `json:"versions"`
	}
	status := request(t, srv, http.MethodGet, "/v1/documents/"+doc.ID+"/versions", "", "", nil, &listing)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, listing.Versions, 2)

	var v1 document.Document
	status = request(t, srv, http.MethodGet, "/v1/documents/"+doc.ID+"/versions/1", "", "", nil, &v1)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "v1", v1.Sections[0].Content)

	status = request(t, srv, http.MethodGet, "/v1/documents/"+doc.ID+"/versions/9", "", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// restore is admin only
	status = request(t, srv, http.MethodPost, "/v1/documents/"+doc.ID+"/versions/1/restore", "alice", "doer", nil, nil)
	assert.Equal(t, http.StatusForbidden, status)

	var restored document.Document
	status = request(t, srv, http.MethodPost, "/v1/documents/"+doc.ID+"/versions/1/restore", "dave", "admin", nil, &restored)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "v1", restored.Sections[0].Content)
	assert.Equal(t, int64(3), restored.Version)
}

func TestTemplatesAndStandards(t *testing.T) {
	srv := newTestServer(t)

	var templates struct {
		Templates []string `json:"templates"`
	}
	status := request(t, srv, http.MethodGet, "/v1/templates", "", "", nil, &templates)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, templates.Templates, "pv-module-qualification")

	var def template.Definition
	status = request(t, srv, http.MethodGet, "/v1/templates/generic-sop", "", "", nil, &def)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, def.Sections)

	status = request(t, srv, http.MethodGet, "/v1/templates/missing", "", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	var standards struct {
		Standards []template.Standard `json:"standards"`
	}
	status = request(t, srv, http.MethodGet, "/v1/standards?q=photovoltaic", "", "", nil, &standards)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, standards.Standards)
}

func TestDeleteDocument(t *testing.T) {
	srv := newTestServer(t)
	doc := createDoc(t, srv)

	status := request(t, srv, http.MethodDelete, "/v1/documents/"+doc.ID, "dave", "admin", nil, nil)
	assert.Equal(t, http.StatusOK, status)

	status = request(t, srv, http.MethodGet, "/v1/documents/"+doc.ID, "", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
