package generate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubBackend struct {
	name    string
	content string
	err     error
	block   bool
}

func (s *stubBackend) Name() string {
	return s.name
}

func (s *stubBackend) Generate(ctx context.Context, req Request) (string, error) {
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.content, s.err
}

func TestRoute(t *testing.T) {
	r := NewRouter()

	tests := []struct {
		title string
		want  string
	}{
		{"Normative References", "anthropic"},
		{"References and Citations", "anthropic"},
		{"Test Procedure", "openai"},
		{"Measurement Methods", "openai"},
		{"Purpose", "openai"},
		{"Scope", "openai"},
		{"Appendix", "openai"}, // default
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Route(tt.title), "title %q", tt.title)
	}
}

func TestRoute_Deterministic(t *testing.T) {
	r := NewRouter()

	for i := 0; i < 10; i++ {
		assert.Equal(t, "anthropic", r.Route("Normative References"))
	}
}

func TestRoute_CustomRule(t *testing.T) {
	r := NewRouter(WithRule("local", "calibration"), WithDefaultBackend("local"))

	assert.Equal(t, "local", r.Route("Calibration Schedule"))
	assert.Equal(t, "local", r.Route("Appendix"))
	// built-in rules still apply after the custom ones
	assert.Equal(t, "anthropic", r.Route("Normative References"))
}

func TestGenerate_RegisteredBackend(t *testing.T) {
	RegisterBackend(&stubBackend{name: "stub-ok", content: "generated text"})

	r := NewRouter()
	res, err := r.Generate(context.TODO(), "stub-ok", Request{SectionTitle: "Purpose"})
	assert.NoError(t, err)
	assert.Equal(t, "generated text", res.Content)
	assert.Equal(t, "stub-ok", res.Backend)
	assert.False(t, res.Fallback)
}

func TestGenerate_UnregisteredFallsBack(t *testing.T) {
	r := NewRouter()

	res, err := r.Generate(context.TODO(), "never-registered", Request{
		DocumentTitle: "PV Module Test",
		SectionTitle:  "Purpose",
	})
	assert.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, PlaceholderName, res.Backend)
	assert.NotEmpty(t, res.Content)
}

func TestGenerate_BackendFailureFallsBack(t *testing.T) {
	RegisterBackend(&stubBackend{name: "stub-broken", err: errors.New("rate limited")})

	r := NewRouter()
	res, err := r.Generate(context.TODO(), "stub-broken", Request{
		DocumentTitle: "PV Module Test",
		SectionTitle:  "Scope",
	})
	assert.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, PlaceholderName, res.Backend)
}

func TestGenerate_FallbackDeterministic(t *testing.T) {
	r := NewRouter()
	req := Request{
		DocumentTitle: "PV Module Thermal Cycling",
		SectionTitle:  "Test Procedure",
		Standards:     []string{"IEC 61215"},
	}

	first, err := r.Generate(context.TODO(), "never-registered", req)
	assert.NoError(t, err)
	second, err := r.Generate(context.TODO(), "never-registered", req)
	assert.NoError(t, err)

	assert.Equal(t, first.Content, second.Content)
}

func TestGenerate_CanceledContext(t *testing.T) {
	r := NewRouter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Generate(ctx, "never-registered", Request{SectionTitle: "Purpose"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_CancelDuringBackendCall(t *testing.T) {
	RegisterBackend(&stubBackend{name: "stub-slow", block: true})

	r := NewRouter(WithTimeout(time.Minute))
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := r.Generate(ctx, "stub-slow", Request{SectionTitle: "Purpose"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_TimeoutFallsBack(t *testing.T) {
	RegisterBackend(&stubBackend{name: "stub-timeout", block: true})

	r := NewRouter(WithTimeout(10 * time.Millisecond))
	res, err := r.Generate(context.Background(), "stub-timeout", Request{
		DocumentTitle: "Doc",
		SectionTitle:  "Purpose",
	})
	assert.NoError(t, err)
	assert.True(t, res.Fallback)
}

func TestRegistry(t *testing.T) {
	RegisterBackend(&stubBackend{name: "stub-registry"})

	assert.NotNil(t, GetBackend("stub-registry"))
	assert.Nil(t, GetBackend("unknown"))
	assert.Contains(t, ListBackends(), "stub-registry")
}

func TestPlaceholder_KnownSections(t *testing.T) {
	p := NewPlaceholder()

	for _, title := range []string{"Purpose", "Scope", "Responsibilities", "Normative References", "Test Procedure", "Pass/Fail Criteria", "Safety Considerations"} {
		content, err := p.Generate(context.TODO(), Request{DocumentTitle: "Doc", SectionTitle: title})
		assert.NoError(t, err)
		assert.NotEmpty(t, content)
		assert.NotContains(t, content, "[Placeholder content")
	}

	content, err := p.Generate(context.TODO(), Request{DocumentTitle: "Doc", SectionTitle: "Appendix"})
	assert.NoError(t, err)
	assert.Contains(t, content, "[Placeholder content")
}

func TestPlaceholder_IncludesStandards(t *testing.T) {
	p := NewPlaceholder()

	content, err := p.Generate(context.TODO(), Request{
		DocumentTitle: "Doc",
		SectionTitle:  "Normative References",
		Standards:     []string{"IEC 61215", "ISO 9001"},
	})
	assert.NoError(t, err)
	assert.Contains(t, content, "IEC 61215")
	assert.Contains(t, content, "ISO 9001")
}
