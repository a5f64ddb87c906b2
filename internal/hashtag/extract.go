// Package hashtag normalizes raw LLM output into a clean, ordered,
// deduplicated list of hashtags.
package hashtag

import (
	"regexp"
	"strings"
)

// tokenPattern matches well-formed hashtags embedded in model output.
var tokenPattern = regexp.MustCompile(`#[a-zA-Z][a-zA-Z0-9_]*`)

// maxChunkLen bounds fallback chunks; anything this long is prose, not a tag.
const maxChunkLen = 40

// Extract parses hashtags out of raw model output.
//
// It first scans for #word tokens. If none are present it falls back to
// splitting on commas and newlines and formatting each chunk as a hashtag.
// The two modes never mix: when at least one #-token exists, comma chunks
// are ignored entirely. Results are lowercased and deduplicated preserving
// first-seen order. When max > 0 the result is truncated to the first max
// entries.
func Extract(raw string, max int) []string {
	candidates := tokenPattern.FindAllString(raw, -1)
	if candidates == nil {
		candidates = fallbackChunks(raw)
	}

	seen := make(map[string]struct{}, len(candidates))
	result := make([]string, 0, len(candidates))
	for _, tag := range candidates {
		tag = strings.ToLower(tag)
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}

	if max > 0 && len(result) > max {
		result = result[:max]
	}
	return result
}

// fallbackChunks splits raw output on commas and newlines and converts each
// chunk into a hashtag by stripping everything but lowercase alphanumerics.
// Chunks that are empty, too long, or collapse to a bare "#" are dropped.
func fallbackChunks(raw string) []string {
	chunks := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	tags := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if len(chunk) == 0 || len(chunk) >= maxChunkLen {
			continue
		}
		var b strings.Builder
		b.WriteByte('#')
		for _, r := range strings.ToLower(chunk) {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
		if b.Len() <= 1 {
			continue
		}
		tags = append(tags, b.String())
	}
	return tags
}
