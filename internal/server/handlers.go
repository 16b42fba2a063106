package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/procdoc/sopgov/internal/document"
	"github.com/procdoc/sopgov/internal/service"
	"github.com/procdoc/sopgov/internal/store"
	"github.com/procdoc/sopgov/internal/template"
	"github.com/procdoc/sopgov/internal/workflow"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the document API onto a mux. Every mutating route
// reads the acting user from the X-Actor and X-Role headers.
func NewRouter(docs *service.DocumentService) *http.ServeMux {
	h := &handler{docs: docs}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/documents", h.createDocument)
	mux.HandleFunc("GET /v1/documents", h.listDocuments)
	mux.HandleFunc("GET /v1/documents/{id}", h.getDocument)
	mux.HandleFunc("DELETE /v1/documents/{id}", h.deleteDocument)

	mux.HandleFunc("POST /v1/documents/{id}/sections", h.addSection)
	mux.HandleFunc("PUT /v1/documents/{id}/sections/{sid}", h.editSection)
	mux.HandleFunc("DELETE /v1/documents/{id}/sections/{sid}", h.removeSection)
	mux.HandleFunc("PUT /v1/documents/{id}/order", h.reorderSections)
	mux.HandleFunc("POST /v1/documents/{id}/sections/{sid}/generate", h.generateSection)

	mux.HandleFunc("POST /v1/documents/{id}/review", h.submitForReview)
	mux.HandleFunc("POST /v1/documents/{id}/approve", h.approve)
	mux.HandleFunc("POST /v1/documents/{id}/unlock", h.unlock)

	mux.HandleFunc("GET /v1/documents/{id}/versions", h.listVersions)
	mux.HandleFunc("GET /v1/documents/{id}/versions/{seq}", h.getVersion)
	mux.HandleFunc("POST /v1/documents/{id}/versions/{seq}/restore", h.restoreVersion)

	mux.HandleFunc("GET /v1/templates", h.listTemplates)
	mux.HandleFunc("GET /v1/templates/{name}", h.getTemplate)
	mux.HandleFunc("GET /v1/standards", h.searchStandards)

	return mux
}

type handler struct {
	docs *service.DocumentService
}

func actorFrom(r *http.Request) (workflow.Actor, error) {
	user := r.Header.Get("X-Actor")
	if user == "" {
		return workflow.Actor{}, errors.New("missing X-Actor header")
	}

	role, err := workflow.ParseRole(r.Header.Get("X-Role"))
	if err != nil {
		return workflow.Actor{}, err
	}

	return workflow.Actor{User: user, Role: role}, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, workflow.ErrNotAuthorized):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrDocumentNotFound),
		errors.Is(err, store.ErrVersionNotFound),
		errors.Is(err, document.ErrSectionNotFound),
		errors.Is(err, template.ErrTemplateNotFound):
		status = http.StatusNotFound
	case errors.Is(err, document.ErrInvalidTemplate),
		errors.Is(err, document.ErrInvalidProposal),
		errors.Is(err, document.ErrContentTypeMismatch),
		errors.Is(err, document.ErrDuplicateSection):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logrus.Errorf("internal error: %v", err)
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		// empty body, all fields default
		return nil
	}
	return err
}

func (h *handler) createDocument(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	var req service.CreateDocumentRequest
	if err = decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	doc, err := h.docs.CreateDocument(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

func (h *handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.ListDocuments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

func (h *handler) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docs.GetDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (h *handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	if err = h.docs.DeleteDocument(r.Context(), actor, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type editSectionRequest struct {
	Content string `json:"content"`
}

func (h *handler) editSection(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	var req editSectionRequest
	if err = decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	doc, err := h.docs.EditSection(r.Context(), actor, r.PathValue("id"), r.PathValue("sid"), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

type addSectionRequest struct {
	Title       string `json:"title"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
	Position    *int   `json:"position"`
}

func (h *handler) addSection(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	var req addSectionRequest
	if err = decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	position := -1
	if req.Position != nil {
		position = *req.Position
	}

	doc, err := h.docs.AddSection(r.Context(), actor, r.PathValue("id"), position, req.Title, req.ContentType, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (h *handler) removeSection(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	doc, err := h.docs.RemoveSection(r.Context(), actor, r.PathValue("id"), r.PathValue("sid"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

type reorderRequest struct {
	Order []string `json:"order"`
}

func (h *handler) reorderSections(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	var req reorderRequest
	if err = decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	doc, err := h.docs.ReorderSections(r.Context(), actor, r.PathValue("id"), req.Order)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

type generateRequest struct {
	Instructions string `json:"instructions"`
}

func (h *handler) generateSection(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	var req generateRequest
	if err = decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	res, err := h.docs.GenerateSection(r.Context(), actor, r.PathValue("id"), r.PathValue("sid"), req.Instructions)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *handler) transition(w http.ResponseWriter, r *http.Request, fn func() (*document.Document, error)) {
	doc, err := fn()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (h *handler) submitForReview(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	h.transition(w, r, func() (*document.Document, error) {
		return h.docs.SubmitForReview(r.Context(), actor, r.PathValue("id"))
	})
}

func (h *handler) approve(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	h.transition(w, r, func() (*document.Document, error) {
		return h.docs.Approve(r.Context(), actor, r.PathValue("id"))
	})
}

func (h *handler) unlock(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	h.transition(w, r, func() (*document.Document, error) {
		return h.docs.Unlock(r.Context(), actor, r.PathValue("id"))
	})
}

func (h *handler) listVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.docs.ListVersions(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"versions": versions})
}

func (h *handler) getVersion(w http.ResponseWriter, r *http.Request) {
	seq, err := strconv.ParseInt(r.PathValue("seq"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid version number"})
		return
	}

	entry, err := h.docs.GetVersion(r.Context(), r.PathValue("id"), seq)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *handler) restoreVersion(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	seq, err := strconv.ParseInt(r.PathValue("seq"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid version number"})
		return
	}

	doc, err := h.docs.RestoreVersion(r.Context(), actor, r.PathValue("id"), seq)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (h *handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"templates": h.docs.Templates().List()})
}

func (h *handler) getTemplate(w http.ResponseWriter, r *http.Request) {
	def, err := h.docs.Templates().Get(r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, def)
}

func (h *handler) searchStandards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, map[string]interface{}{"standards": template.SearchStandards(q)})
}
