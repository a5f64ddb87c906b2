package domain

// GenerationResult is the normalized outcome of one provider call.
//
// Hashtags are lowercase, unique, and ordered by first occurrence in the
// provider's raw output. DurationMs measures the model call only, not the
// surrounding request handling.
type GenerationResult struct {
	Hashtags   []string `json:"hashtags"`
	DurationMs int64    `json:"durationMs"`
	Method     Method   `json:"method"`
}
