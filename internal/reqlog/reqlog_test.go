package reqlog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	rec := New("10.0.0.1")

	_, err := uuid.Parse(rec.RequestID)
	assert.NoError(t, err, "request ID should be a valid UUID")

	_, err = time.Parse(time.RFC3339, rec.Timestamp)
	assert.NoError(t, err, "timestamp should be RFC3339")

	assert.Equal(t, "10.0.0.1", rec.IP)
	assert.Equal(t, 200, rec.StatusCode)
	assert.False(t, rec.CacheHit)
	assert.Nil(t, rec.Method)
	assert.Nil(t, rec.Error)
	assert.Nil(t, rec.Code)
}

func TestEmitWritesSingleJSONLine(t *testing.T) {
	t.Parallel()

	rec := New("127.0.0.1")
	rec.SetMethod("gemini")
	rec.CacheHit = true
	rec.LatencyMs = 42

	var buf bytes.Buffer
	rec.Emit(&buf)

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "gemini", decoded["method"])
	assert.Equal(t, true, decoded["cacheHit"])
	assert.Equal(t, float64(42), decoded["latencyMs"])
	// Null fields must be present, not omitted.
	assert.Contains(t, decoded, "error")
	assert.Nil(t, decoded["error"])
	assert.Contains(t, decoded, "code")
	assert.Nil(t, decoded["code"])
}

func TestSetFailure(t *testing.T) {
	t.Parallel()

	rec := New("127.0.0.1")
	rec.SetFailure(429, "RATE_LIMITED", "Too many requests.")

	assert.Equal(t, 429, rec.StatusCode)
	require.NotNil(t, rec.Code)
	assert.Equal(t, "RATE_LIMITED", *rec.Code)
	require.NotNil(t, rec.Error)
	assert.Equal(t, "Too many requests.", *rec.Error)
}
