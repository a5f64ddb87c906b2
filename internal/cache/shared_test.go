package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagforge/tagforge/internal/domain"
)

func newTestShared(t *testing.T) (*miniredis.Miniredis, *Shared) {
	t.Helper()
	mr := miniredis.RunT(t)
	shared, err := NewShared("redis://"+mr.Addr(), nil)
	require.NoError(t, err)
	return mr, shared
}

func TestNewSharedWithoutURLIsDisabled(t *testing.T) {
	t.Parallel()

	shared, err := NewShared("", nil)
	require.NoError(t, err)
	assert.False(t, shared.Enabled())
}

func TestNewSharedRejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := NewShared("not a url", nil)
	assert.Error(t, err)
}

func TestSharedRoundTrip(t *testing.T) {
	t.Parallel()

	_, shared := newTestShared(t)
	assert.True(t, shared.Enabled())

	ctx := context.Background()
	stored := &domain.GenerationResult{
		Hashtags:   []string{"#redis", "#caching"},
		DurationMs: 88,
		Method:     domain.MethodClaude,
	}

	require.NoError(t, shared.Set(ctx, domain.MethodClaude, "t", "body for the round trip", stored))

	got, err := shared.Get(ctx, domain.MethodClaude, "t", "body for the round trip")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, stored, got)
}

func TestSharedMissingKeyIsAMiss(t *testing.T) {
	t.Parallel()

	_, shared := newTestShared(t)

	got, err := shared.Get(context.Background(), domain.MethodGemini, "", "never stored anywhere")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSharedSetAttachesTTL(t *testing.T) {
	t.Parallel()

	mr, shared := newTestShared(t)

	ctx := context.Background()
	result := &domain.GenerationResult{
		Hashtags:   []string{"#ttl"},
		DurationMs: 5,
		Method:     domain.MethodGemini,
	}
	require.NoError(t, shared.Set(ctx, domain.MethodGemini, "t", "entry that must expire", result))

	key := Key(SharedPrefix, domain.MethodGemini, "t", "entry that must expire")
	assert.Equal(t, TTL, mr.TTL(key))

	// Once the store expires the entry, it reads as a plain miss.
	mr.FastForward(TTL + 1)
	got, err := shared.Get(ctx, domain.MethodGemini, "t", "entry that must expire")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSharedUnparsableValueIsAMiss(t *testing.T) {
	t.Parallel()

	mr, shared := newTestShared(t)

	key := Key(SharedPrefix, domain.MethodGPT5, "t", "body behind a corrupt value")
	require.NoError(t, mr.Set(key, "{not json"))

	got, err := shared.Get(context.Background(), domain.MethodGPT5, "t", "body behind a corrupt value")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSharedStoreFailureSurfacesAsError(t *testing.T) {
	t.Parallel()

	mr, shared := newTestShared(t)
	mr.Close()

	ctx := context.Background()
	_, err := shared.Get(ctx, domain.MethodGemini, "t", "store is gone")
	assert.Error(t, err)

	err = shared.Set(ctx, domain.MethodGemini, "t", "store is gone", &domain.GenerationResult{
		Hashtags: []string{"#x"},
		Method:   domain.MethodGemini,
	})
	assert.Error(t, err)
}

func TestDisabledSharedCacheAlwaysMisses(t *testing.T) {
	t.Parallel()

	shared, err := NewShared("", nil)
	require.NoError(t, err)

	ctx := context.Background()
	result := &domain.GenerationResult{
		Hashtags:   []string{"#go"},
		DurationMs: 10,
		Method:     domain.MethodGemini,
	}

	// Set is a no-op, Get always reports absent; neither errors.
	require.NoError(t, shared.Set(ctx, domain.MethodGemini, "t", "text", result))

	got, err := shared.Get(ctx, domain.MethodGemini, "t", "text")
	require.NoError(t, err)
	assert.Nil(t, got)
}
