package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagforge/tagforge/internal/domain"
	"github.com/tagforge/tagforge/internal/localcache"
)

func openTestCache(t *testing.T) *localcache.Store {
	t.Helper()
	store, err := localcache.Open(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestGenerateCallsServerAndCachesResult(t *testing.T) {
	t.Parallel()

	var serverHits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHits.Add(1)
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gemini", req.Method)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"result":{"hashtags":["#go"],"durationMs":5,"method":"gemini"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), openTestCache(t))
	ctx := context.Background()

	first, err := c.Generate(ctx, domain.MethodGemini, "t", "a body long enough to generate from")
	require.NoError(t, err)
	assert.Equal(t, []string{"#go"}, first.Hashtags)
	assert.Equal(t, int64(1), serverHits.Load())

	// Identical request is served from the local cache.
	second, err := c.Generate(ctx, domain.MethodGemini, "t", "a body long enough to generate from")
	require.NoError(t, err)
	assert.Equal(t, first.Hashtags, second.Hashtags)
	assert.Equal(t, int64(1), serverHits.Load())

	// A different method misses the local cache.
	_, err = c.Generate(ctx, domain.MethodClaude, "t", "a body long enough to generate from")
	require.NoError(t, err)
	assert.Equal(t, int64(2), serverHits.Load())
}

func TestGenerateSurfacesAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"success":false,"error":"Too many requests.","code":"RATE_LIMITED"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), nil)

	_, err := c.Generate(context.Background(), domain.MethodGemini, "", "a body long enough to generate from")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "RATE_LIMITED", apiErr.Code)
}

func TestGenerateFailedResponsesAreNotCached(t *testing.T) {
	t.Parallel()

	var serverHits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"upstream failure","code":"PROVIDER_ERROR"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), openTestCache(t))
	ctx := context.Background()

	_, err := c.Generate(ctx, domain.MethodGemini, "", "a body long enough to generate from")
	require.Error(t, err)
	_, err = c.Generate(ctx, domain.MethodGemini, "", "a body long enough to generate from")
	require.Error(t, err)

	assert.Equal(t, int64(2), serverHits.Load())
}

func TestClearCache(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"result":{"hashtags":["#go"],"durationMs":5,"method":"gemini"}}`))
	}))
	defer srv.Close()

	cache := openTestCache(t)
	c := New(srv.URL, srv.Client(), cache)
	ctx := context.Background()

	_, err := c.Generate(ctx, domain.MethodGemini, "", "a body long enough to generate from")
	require.NoError(t, err)

	key := cache.Key(domain.MethodGemini, "", "a body long enough to generate from")
	require.NotNil(t, cache.Get(key))

	c.ClearCache()
	assert.Nil(t, cache.Get(key))
}
