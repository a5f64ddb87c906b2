// Package cache provides the content-addressed response caches fronting the
// provider calls: a shared Redis-backed tier on the server and the key
// scheme it has in common with the client's local tier.
package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/tagforge/tagforge/internal/domain"
)

// Namespace prefixes for the two cache tiers. They keep each tier's entries
// distinguishable from each other and from unrelated keys in the same store.
const (
	SharedPrefix = "tagforge-srv-"
	LocalPrefix  = "tagforge-cache-"
)

// Key builds a deterministic content address for a generation request.
// Identical (method, title, text) tuples always collide to the same key;
// a different method over identical text never does.
func Key(prefix string, method domain.Method, title, text string) string {
	sum := sha256.Sum256([]byte(string(method) + ":" + title + ":" + text))
	return prefix + hex.EncodeToString(sum[:])
}
