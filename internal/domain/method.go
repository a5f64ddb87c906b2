package domain

import "fmt"

// Method identifies one of the interchangeable hashtag-generation backends.
type Method string

const (
	MethodClaude Method = "claude"
	MethodGPT5   Method = "gpt5"
	MethodGemini Method = "gemini"
)

// Methods lists every valid method in presentation order.
var Methods = []Method{MethodClaude, MethodGPT5, MethodGemini}

// ParseMethod validates a raw method string from a request body.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodClaude, MethodGPT5, MethodGemini:
		return Method(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// String implements fmt.Stringer.
func (m Method) String() string {
	return string(m)
}
