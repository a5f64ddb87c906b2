package provider

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/tagforge/tagforge/internal/domain"
	"github.com/tagforge/tagforge/internal/hashtag"
)

const geminiModel = "gemini-2.5-flash"

type geminiProvider struct {
	apiKey string
	logger *slog.Logger
}

func newGemini(apiKey string, logger *slog.Logger) *geminiProvider {
	return &geminiProvider{apiKey: apiKey, logger: logger}
}

func (p *geminiProvider) generate(ctx context.Context, title, text string) (*domain.GenerationResult, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &Error{Method: domain.MethodGemini, Message: "failed to create client: " + err.Error()}
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, geminiModel, genai.Text(buildUserPrompt(title, text)), cfg)
	if err != nil {
		return nil, &Error{
			Method:     domain.MethodGemini,
			StatusCode: genaiStatus(err),
			Message:    err.Error(),
		}
	}

	return &domain.GenerationResult{
		Hashtags:   hashtag.Extract(resp.Text(), maxHashtags),
		DurationMs: time.Since(start).Milliseconds(),
		Method:     domain.MethodGemini,
	}, nil
}

// genaiStatus lifts the HTTP status out of a genai SDK error, or 0 when the
// error carries none.
func genaiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
