package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tagforge/tagforge/internal/domain"
	"github.com/tagforge/tagforge/internal/hashtag"
)

const (
	anthropicEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion  = "2023-06-01"
	anthropicModel    = "claude-opus-4-6"
	anthropicMaxToks  = 200
)

type anthropicProvider struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

func newAnthropic(apiKey string, httpClient *http.Client, logger *slog.Logger) *anthropicProvider {
	return &anthropicProvider{
		apiKey:     apiKey,
		endpoint:   anthropicEndpoint,
		httpClient: httpClient,
		logger:     logger,
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *anthropicProvider) generate(ctx context.Context, title, text string) (*domain.GenerationResult, error) {
	payload, err := json.Marshal(anthropicRequest{
		Model:     anthropicModel,
		MaxTokens: anthropicMaxToks,
		System:    systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: buildUserPrompt(title, text)},
		},
	})
	if err != nil {
		return nil, &Error{Method: domain.MethodClaude, Message: "failed to encode request: " + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Method: domain.MethodClaude, Message: "failed to build request: " + err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Method: domain.MethodClaude, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Method:     domain.MethodClaude,
			StatusCode: resp.StatusCode,
			Message:    errorSnippet(resp.Body),
		}
	}

	var decoded anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &Error{Method: domain.MethodClaude, Message: "failed to decode response: " + err.Error()}
	}

	raw := ""
	for _, block := range decoded.Content {
		if block.Type == "text" {
			raw = block.Text
			break
		}
	}

	return &domain.GenerationResult{
		Hashtags:   hashtag.Extract(raw, maxHashtags),
		DurationMs: time.Since(start).Milliseconds(),
		Method:     domain.MethodClaude,
	}, nil
}

// errorSnippet reads a bounded slice of an error response body for the
// provider error message.
func errorSnippet(body io.Reader) string {
	snippet, err := io.ReadAll(io.LimitReader(body, 512))
	if err != nil || len(snippet) == 0 {
		return "upstream error"
	}
	return string(snippet)
}
