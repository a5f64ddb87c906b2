// Package client is the programmatic interface the presentation layer uses
// to generate hashtags. It fronts the HTTP API with the machine-local
// response cache, so repeated identical requests are answered without a
// network round trip.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tagforge/tagforge/internal/domain"
	"github.com/tagforge/tagforge/internal/localcache"
)

// APIError is a failure response from the server, carrying the
// machine-readable code from the response body.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("generate request failed (%s): %s", e.Code, e.Message)
}

// Client calls the generation API on behalf of a user-facing surface.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *localcache.Store
}

// New creates a Client for the server at baseURL. The local cache is
// optional; a nil store disables the local tier entirely.
func New(baseURL string, httpClient *http.Client, cache *localcache.Store) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, cache: cache}
}

type generateRequest struct {
	Method string `json:"method"`
	Title  string `json:"title"`
	Text   string `json:"text"`
}

type generateResponse struct {
	Success bool                     `json:"success"`
	Result  *domain.GenerationResult `json:"result"`
	Error   string                   `json:"error"`
	Code    string                   `json:"code"`
}

// Generate returns hashtags for the given input, consulting the local cache
// before calling the server and persisting fresh results afterwards.
func (c *Client) Generate(ctx context.Context, method domain.Method, title, text string) (*domain.GenerationResult, error) {
	var key string
	if c.cache != nil {
		key = c.cache.Key(method, title, text)
		if cached := c.cache.Get(key); cached != nil {
			return cached, nil
		}
	}

	payload, err := json.Marshal(generateRequest{Method: string(method), Title: title, Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !decoded.Success || decoded.Result == nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       decoded.Code,
			Message:    decoded.Error,
		}
	}

	if c.cache != nil {
		c.cache.Set(key, decoded.Result)
	}
	return decoded.Result, nil
}

// ClearCache empties the local response cache. A no-op without one.
func (c *Client) ClearCache() {
	if c.cache != nil {
		c.cache.Clear()
	}
}
