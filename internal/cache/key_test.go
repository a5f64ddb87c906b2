package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tagforge/tagforge/internal/domain"
)

func TestKeyDeterministic(t *testing.T) {
	t.Parallel()

	a := Key(SharedPrefix, domain.MethodGemini, "My Title", "some text to hash")
	b := Key(SharedPrefix, domain.MethodGemini, "My Title", "some text to hash")
	assert.Equal(t, a, b)
}

func TestKeyChangesWithMethod(t *testing.T) {
	t.Parallel()

	a := Key(SharedPrefix, domain.MethodGemini, "title", "identical text")
	b := Key(SharedPrefix, domain.MethodClaude, "title", "identical text")
	assert.NotEqual(t, a, b)
}

func TestKeyChangesWithContent(t *testing.T) {
	t.Parallel()

	base := Key(SharedPrefix, domain.MethodGPT5, "title", "text")
	assert.NotEqual(t, base, Key(SharedPrefix, domain.MethodGPT5, "other", "text"))
	assert.NotEqual(t, base, Key(SharedPrefix, domain.MethodGPT5, "title", "other"))
}

func TestKeyPrefixesDistinguishTiers(t *testing.T) {
	t.Parallel()

	shared := Key(SharedPrefix, domain.MethodGemini, "t", "text body here")
	local := Key(LocalPrefix, domain.MethodGemini, "t", "text body here")

	assert.True(t, strings.HasPrefix(shared, SharedPrefix))
	assert.True(t, strings.HasPrefix(local, LocalPrefix))
	assert.NotEqual(t, shared, local)
	// Same content address underneath.
	assert.Equal(t,
		strings.TrimPrefix(shared, SharedPrefix),
		strings.TrimPrefix(local, LocalPrefix))
}
