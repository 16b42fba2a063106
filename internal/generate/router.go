package generate

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrBackendNotFound is returned by Route lookups against the registry.
var ErrBackendNotFound = errors.New("generation backend not registered")

// routeRule maps section-title keywords to a preferred backend id. Rules are
// evaluated in order; the first match wins.
type routeRule struct {
	keywords []string
	backend  string
}

// Router maps section semantics to a generation backend and invokes it with a
// bounded timeout. Adding a provider means adding a table entry.
type Router struct {
	rules          []routeRule
	defaultBackend string
	timeout        time.Duration
	placeholder    Backend
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithDefaultBackend sets the backend used when no rule matches.
func WithDefaultBackend(name string) RouterOption {
	return func(r *Router) {
		r.defaultBackend = name
	}
}

// WithTimeout bounds every backend call.
func WithTimeout(d time.Duration) RouterOption {
	return func(r *Router) {
		r.timeout = d
	}
}

// WithRule prepends a routing rule.
func WithRule(backend string, keywords ...string) RouterOption {
	return func(r *Router) {
		r.rules = append([]routeRule{{keywords: keywords, backend: backend}}, r.rules...)
	}
}

// NewRouter builds a router with the default routing table: citation-heavy
// sections prefer a summarization-strong backend, procedural sections a
// reasoning-strong one, everything else the default backend.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		rules: []routeRule{
			{keywords: []string{"reference", "normative", "citation"}, backend: "anthropic"},
			{keywords: []string{"procedure", "method", "steps", "test"}, backend: "openai"},
			{keywords: []string{"purpose", "scope", "objective"}, backend: "openai"},
		},
		defaultBackend: "openai",
		timeout:        60 * time.Second,
		placeholder:    NewPlaceholder(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Route deterministically maps a section title to a backend identifier. It
// only consults the table, never the registry, so routing stays stable
// whether or not a backend is configured.
func (r *Router) Route(sectionTitle string) string {
	title := strings.ToLower(sectionTitle)

	for _, rule := range r.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(title, kw) {
				return rule.backend
			}
		}
	}

	return r.defaultBackend
}

// Generate invokes the selected backend. On backend failure or when the
// backend is not registered, the deterministic placeholder answers and the
// result is flagged as a fallback. Context cancellation is the one case that
// returns an error: a canceled generation must leave nothing behind.
func (r *Router) Generate(ctx context.Context, selector string, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	backend := GetBackend(selector)
	if backend == nil {
		logrus.Warnf("generation backend %q not registered, using placeholder", selector)
		return r.fallback(ctx, req)
	}

	genCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	content, err := backend.Generate(genCtx, req)
	if err != nil {
		if ctx.Err() != nil {
			// caller canceled, not a backend failure
			return Result{}, ctx.Err()
		}
		logrus.Errorf("generation backend %q failed: %v, using placeholder", selector, err)
		return r.fallback(ctx, req)
	}

	return Result{Content: content, Backend: backend.Name()}, nil
}

func (r *Router) fallback(ctx context.Context, req Request) (Result, error) {
	content, err := r.placeholder.Generate(ctx, req)
	if err != nil {
		return Result{}, err
	}

	return Result{Content: content, Backend: r.placeholder.Name(), Fallback: true}, nil
}
