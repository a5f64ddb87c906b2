// Package provider dispatches generation requests to one of the
// interchangeable LLM backends and normalizes their raw output into
// hashtags. The dispatch layer itself never catches provider failures; they
// propagate to the request pipeline with whatever status the upstream
// attached.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tagforge/tagforge/internal/config"
	"github.com/tagforge/tagforge/internal/domain"
)

// maxHashtags caps the number of tags extracted from any provider's output.
const maxHashtags = 8

// GenerateFunc is one provider's generation call.
type GenerateFunc func(ctx context.Context, title, text string) (*domain.GenerationResult, error)

// Registry maps methods to their generation functions.
type Registry struct {
	generators map[domain.Method]GenerateFunc
}

// NewRegistry wires up the three concrete providers from configuration.
// Providers are registered whether or not their credential is set; the
// request pipeline rejects uncredentialed methods before dispatch.
func NewRegistry(cfg config.ProvidersConfig, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	// No client-level timeout: the surrounding HTTP server's deadline is
	// the only bound on a provider call.
	httpClient := &http.Client{}

	r := &Registry{generators: make(map[domain.Method]GenerateFunc)}
	r.Register(domain.MethodClaude, newAnthropic(cfg.AnthropicAPIKey, httpClient, logger).generate)
	r.Register(domain.MethodGPT5, newOpenAI(cfg.OpenAIAPIKey, httpClient, logger).generate)
	r.Register(domain.MethodGemini, newGemini(cfg.GoogleAIAPIKey, logger).generate)
	return r
}

// Register binds a generation function to a method, replacing any existing
// binding. Tests use it to substitute fakes.
func (r *Registry) Register(method domain.Method, fn GenerateFunc) {
	r.generators[method] = fn
}

// Generate dispatches to the provider registered for method.
func (r *Registry) Generate(ctx context.Context, method domain.Method, title, text string) (*domain.GenerationResult, error) {
	gen, ok := r.generators[method]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMethod, method)
	}
	return gen(ctx, title, text)
}
