package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"claude", "gpt5", "gemini"} {
		method, err := ParseMethod(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, method.String())
	}

	for _, invalid := range []string{"", "Claude", "gpt-5", "llama"} {
		_, err := ParseMethod(invalid)
		assert.ErrorIs(t, err, ErrUnknownMethod, "input %q", invalid)
	}
}
