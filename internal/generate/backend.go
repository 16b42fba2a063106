// Package generate selects a content-generation strategy per section and
// normalizes the result. The actual generation call is an injected Backend;
// this package never talks to a provider itself. When a backend fails or none
// is configured, the deterministic placeholder backend answers instead, and
// the result is flagged so callers can tell the difference.
package generate

import "context"

// Request carries the bounded context a backend receives.
type Request struct {
	DocumentTitle string   `json:"document_title"`
	SectionTitle  string   `json:"section_title"`
	ContentType   string   `json:"content_type"`
	Standards     []string `json:"standards,omitempty"`
	PriorContent  string   `json:"prior_content,omitempty"`
	Instructions  string   `json:"instructions,omitempty"`
}

// Result is the normalized outcome of a generation call.
type Result struct {
	Content string `json:"content"`
	// Backend is the identifier of the backend that actually produced the
	// content, which differs from the routed one after a fallback.
	Backend string `json:"backend"`
	// Fallback is true when the placeholder strategy answered because the
	// routed backend failed or was not registered.
	Fallback bool `json:"fallback"`
}

// Backend is an injected content-generation capability.
type Backend interface {
	// Name returns the backend identifier (e.g. "openai", "anthropic").
	Name() string

	// Generate produces content for one section. Implementations must honor
	// ctx cancellation.
	Generate(ctx context.Context, req Request) (string, error)
}
