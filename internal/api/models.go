package api

import "github.com/tagforge/tagforge/internal/domain"

// Machine-readable error codes returned alongside failure responses.
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeMissingKey    = "MISSING_KEY"
	CodeRateLimited   = "RATE_LIMITED"
	CodeProviderError = "PROVIDER_ERROR"
)

// GenerateRequest is the request body for POST /api/generate.
type GenerateRequest struct {
	Method string `json:"method"`
	Title  string `json:"title"`
	Text   string `json:"text"`
}

// GenerateResponse is the success envelope.
type GenerateResponse struct {
	Success bool                     `json:"success"`
	Result  *domain.GenerationResult `json:"result"`
}

// GenerateErrorResponse is the failure envelope. Error is human-readable,
// Code machine-readable; internal details never appear in either.
type GenerateErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}
