package sopgov

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/procdoc/sopgov/internal/document"
	"github.com/procdoc/sopgov/internal/ledger"
	"github.com/procdoc/sopgov/internal/service"
	"github.com/procdoc/sopgov/internal/template"
	"github.com/procdoc/sopgov/internal/workflow"
)

// Client talks to a running sopgov server over its HTTP API. The actor
// identifies the calling user on every mutating request.
type Client struct {
	base  string
	actor workflow.Actor
	http  *http.Client
}

func NewClient(base string, actor workflow.Actor) *Client {
	return &Client{
		base:  base,
		actor: actor,
		http:  &http.Client{Timeout: 2 * time.Minute},
	}
}

// APIError carries the status code and message of a failed request.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", c.actor.User)
	req.Header.Set("X-Role", string(c.actor.Role))

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var msg struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(res.Body).Decode(&msg); err != nil {
			msg.Error = res.Status
		}
		return &APIError{Status: res.StatusCode, Message: msg.Error}
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) CreateDocument(ctx context.Context, req service.CreateDocumentRequest) (*document.Document, error) {
	var doc document.Document
	if err := c.do(ctx, http.MethodPost, "/v1/documents", req, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) GetDocument(ctx context.Context, id string) (*document.Document, error) {
	var doc document.Document
	if err := c.do(ctx, http.MethodGet, "/v1/documents/"+id, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) ListDocuments(ctx context.Context) ([]*document.Document, error) {
	var res struct {
		Documents []*document.Document `json:"documents"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/documents", nil, &res); err != nil {
		return nil, err
	}
	return res.Documents, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/documents/"+id, nil, nil)
}

func (c *Client) EditSection(ctx context.Context, docID, sectionID, content string) (*document.Document, error) {
	var doc document.Document
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPut, "/v1/documents/"+docID+"/sections/"+sectionID, body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) AddSection(ctx context.Context, docID string, position int, title, contentType, content string) (*document.Document, error) {
	var doc document.Document
	body := map[string]interface{}{
		"title":        title,
		"content_type": contentType,
		"content":      content,
		"position":     position,
	}
	if err := c.do(ctx, http.MethodPost, "/v1/documents/"+docID+"/sections", body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) RemoveSection(ctx context.Context, docID, sectionID string) (*document.Document, error) {
	var doc document.Document
	if err := c.do(ctx, http.MethodDelete, "/v1/documents/"+docID+"/sections/"+sectionID, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) ReorderSections(ctx context.Context, docID string, order []string) (*document.Document, error) {
	var doc document.Document
	body := map[string][]string{"order": order}
	if err := c.do(ctx, http.MethodPut, "/v1/documents/"+docID+"/order", body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) GenerateSection(ctx context.Context, docID, sectionID, instructions string) (*service.GenerateResult, error) {
	var res service.GenerateResult
	body := map[string]string{"instructions": instructions}
	if err := c.do(ctx, http.MethodPost, "/v1/documents/"+docID+"/sections/"+sectionID+"/generate", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) SubmitForReview(ctx context.Context, docID string) (*document.Document, error) {
	var doc document.Document
	if err := c.do(ctx, http.MethodPost, "/v1/documents/"+docID+"/review", nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) Approve(ctx context.Context, docID string) (*document.Document, error) {
	var doc document.Document
	if err := c.do(ctx, http.MethodPost, "/v1/documents/"+docID+"/approve", nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) Unlock(ctx context.Context, docID string) (*document.Document, error) {
	var doc document.Document
	if err := c.do(ctx, http.MethodPost, "/v1/documents/"+docID+"/unlock", nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) ListVersions(ctx context.Context, docID string) ([]*ledger.Entry, error) {
	var res struct {
		Versions []*ledger.Entry `json:"versions"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/documents/"+docID+"/versions", nil, &res); err != nil {
		return nil, err
	}
	return res.Versions, nil
}

func (c *Client) GetVersion(ctx context.Context, docID string, seq int64) (*document.Document, error) {
	var doc document.Document
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/documents/%s/versions/%d", docID, seq), nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) RestoreVersion(ctx context.Context, docID string, seq int64) (*document.Document, error) {
	var doc document.Document
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/documents/%s/versions/%d/restore", docID, seq), nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) ListTemplates(ctx context.Context) ([]string, error) {
	var res struct {
		Templates []string `json:"templates"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/templates", nil, &res); err != nil {
		return nil, err
	}
	return res.Templates, nil
}

func (c *Client) GetTemplate(ctx context.Context, name string) (*template.Definition, error) {
	var def template.Definition
	if err := c.do(ctx, http.MethodGet, "/v1/templates/"+name, nil, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

func (c *Client) SearchStandards(ctx context.Context, query string) ([]template.Standard, error) {
	var res struct {
		Standards []template.Standard `json:"standards"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/standards?q="+query, nil, &res); err != nil {
		return nil, err
	}
	return res.Standards, nil
}
