package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tagforge/tagforge/internal/domain"
	"github.com/tagforge/tagforge/internal/hashtag"
)

const (
	openaiEndpoint = "https://api.openai.com/v1/chat/completions"
	openaiModel    = "gpt-5"
	openaiMaxToks  = 1024
)

type openaiProvider struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

func newOpenAI(apiKey string, httpClient *http.Client, logger *slog.Logger) *openaiProvider {
	return &openaiProvider{
		apiKey:     apiKey,
		endpoint:   openaiEndpoint,
		httpClient: httpClient,
		logger:     logger,
	}
}

type openaiRequest struct {
	Model               string          `json:"model"`
	Messages            []openaiMessage `json:"messages"`
	MaxCompletionTokens int             `json:"max_completion_tokens"`
	ReasoningEffort     string          `json:"reasoning_effort"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *openaiProvider) generate(ctx context.Context, title, text string) (*domain.GenerationResult, error) {
	payload, err := json.Marshal(openaiRequest{
		Model: openaiModel,
		Messages: []openaiMessage{
			{Role: "developer", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(title, text)},
		},
		MaxCompletionTokens: openaiMaxToks,
		ReasoningEffort:     "low",
	})
	if err != nil {
		return nil, &Error{Method: domain.MethodGPT5, Message: "failed to encode request: " + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Method: domain.MethodGPT5, Message: "failed to build request: " + err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Method: domain.MethodGPT5, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Method:     domain.MethodGPT5,
			StatusCode: resp.StatusCode,
			Message:    errorSnippet(resp.Body),
		}
	}

	var decoded openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &Error{Method: domain.MethodGPT5, Message: "failed to decode response: " + err.Error()}
	}

	raw := ""
	if len(decoded.Choices) > 0 {
		raw = decoded.Choices[0].Message.Content
	}

	return &domain.GenerationResult{
		Hashtags:   hashtag.Extract(raw, maxHashtags),
		DurationMs: time.Since(start).Milliseconds(),
		Method:     domain.MethodGPT5,
	}, nil
}
