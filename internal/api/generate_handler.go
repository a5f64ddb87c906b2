package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tagforge/tagforge/internal/api/shared"
	"github.com/tagforge/tagforge/internal/config"
	"github.com/tagforge/tagforge/internal/domain"
	"github.com/tagforge/tagforge/internal/provider"
	"github.com/tagforge/tagforge/internal/ratelimit"
	"github.com/tagforge/tagforge/internal/redact"
	"github.com/tagforge/tagforge/internal/reqlog"
)

// cacheWriteTimeout bounds the detached cache write so a stuck store cannot
// accumulate goroutines. The response never waits on it either way.
const cacheWriteTimeout = 10 * time.Second

// RateLimiter is the admission-control dependency of the pipeline.
type RateLimiter interface {
	Allow(ctx context.Context, ip string) (bool, error)
}

// ResultCache is the shared response cache dependency of the pipeline.
type ResultCache interface {
	Get(ctx context.Context, method domain.Method, title, text string) (*domain.GenerationResult, error)
	Set(ctx context.Context, method domain.Method, title, text string, result *domain.GenerationResult) error
}

// Dispatcher routes a validated request to the selected provider.
type Dispatcher interface {
	Generate(ctx context.Context, method domain.Method, title, text string) (*domain.GenerationResult, error)
}

// GenerateHandler orchestrates one generation request end to end.
type GenerateHandler struct {
	providers  config.ProvidersConfig
	limiter    RateLimiter
	cache      ResultCache
	dispatcher Dispatcher
	logger     *slog.Logger

	// logOut receives the one-line-per-request records. Stdout in
	// production, a buffer in tests.
	logOut io.Writer
}

// NewGenerateHandler creates the handler with its dependencies.
func NewGenerateHandler(
	providers config.ProvidersConfig,
	limiter RateLimiter,
	cache ResultCache,
	dispatcher Dispatcher,
	logger *slog.Logger,
	logOut io.Writer,
) *GenerateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerateHandler{
		providers:  providers,
		limiter:    limiter,
		cache:      cache,
		dispatcher: dispatcher,
		logger:     logger,
		logOut:     logOut,
	}
}

// Generate handles POST /api/generate. Whatever branch terminates the
// request, exactly one request log record is emitted with the total
// handling latency.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ip := ratelimit.ClientIP(r)
	rec := reqlog.New(ip)
	defer func() {
		rec.LatencyMs = time.Since(start).Milliseconds()
		rec.Emit(h.logOut)
	}()

	ctx := r.Context()

	// Admission control, fail-open: a limiter failure admits the request.
	allowed, err := h.limiter.Allow(ctx, ip)
	if err != nil {
		h.logger.Warn("rate limit check failed, allowing request",
			"error", redact.Error(err), "ip", ip)
	} else if !allowed {
		h.respondError(w, r, rec, http.StatusTooManyRequests, CodeRateLimited,
			"Too many requests. Please wait a moment and try again.")
		return
	}

	var req GenerateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.respondError(w, r, rec, http.StatusBadRequest, CodeInvalidInput,
			"Invalid request body.")
		return
	}

	method, err := domain.ParseMethod(req.Method)
	if err != nil {
		h.respondError(w, r, rec, http.StatusBadRequest, CodeInvalidInput,
			fmt.Sprintf("Invalid method. Must be one of: %s, %s, %s",
				domain.MethodClaude, domain.MethodGPT5, domain.MethodGemini))
		return
	}
	// The method goes into the log as soon as it is known, even when the
	// remaining validation fails.
	rec.SetMethod(string(method))

	if len(strings.TrimSpace(req.Text)) < domain.MinTextLength {
		h.respondError(w, r, rec, http.StatusBadRequest, CodeInvalidInput,
			fmt.Sprintf("Text must be at least %d characters.", domain.MinTextLength))
		return
	}
	if len(req.Text) > domain.MaxTextLength {
		h.respondError(w, r, rec, http.StatusBadRequest, CodeInvalidInput,
			fmt.Sprintf("Text exceeds maximum length of %d characters.", domain.MaxTextLength))
		return
	}

	if h.providers.CredentialFor(method) == "" {
		h.respondError(w, r, rec, http.StatusServiceUnavailable, CodeMissingKey,
			fmt.Sprintf("%s provider is not configured.", method))
		return
	}

	title := strings.TrimSpace(req.Title)
	text := strings.TrimSpace(req.Text)

	// Shared cache, fail-open: a cache failure is just a miss.
	cached, err := h.cache.Get(ctx, method, title, text)
	if err != nil {
		h.logger.Debug("shared cache lookup failed, treating as miss",
			"error", redact.Error(err))
	}
	if cached != nil {
		rec.CacheHit = true
		shared.RespondWithJSON(w, r, http.StatusOK, GenerateResponse{Success: true, Result: cached})
		return
	}

	result, err := h.dispatcher.Generate(ctx, method, title, text)
	if err != nil {
		h.respondProviderError(w, r, rec, err)
		return
	}

	// Fire-and-forget cache write: the response does not wait for it and
	// its failure is only ever logged.
	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()
		if err := h.cache.Set(writeCtx, method, title, text, result); err != nil {
			h.logger.Debug("shared cache write failed", "error", redact.Error(err))
		}
	}()

	shared.RespondWithJSON(w, r, http.StatusOK, GenerateResponse{Success: true, Result: result})
}

// respondProviderError classifies a provider failure by its attached HTTP
// status: exactly 429 maps to RATE_LIMITED, any other status ≥400 passes
// through, and everything else becomes a 500.
func (h *GenerateHandler) respondProviderError(w http.ResponseWriter, r *http.Request, rec *reqlog.Record, err error) {
	message := redact.Error(err)
	status := provider.StatusOf(err)

	h.logger.Error("provider dispatch failed",
		"error", message, "status", status, "trace_id", shared.GetTraceID(r.Context()))

	if status == http.StatusTooManyRequests {
		h.respondError(w, r, rec, http.StatusTooManyRequests, CodeRateLimited,
			"Rate limit exceeded: "+message)
		return
	}

	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	h.respondError(w, r, rec, status, CodeProviderError, message)
}

func (h *GenerateHandler) respondError(w http.ResponseWriter, r *http.Request, rec *reqlog.Record, status int, code, message string) {
	rec.SetFailure(status, code, message)
	shared.RespondWithJSON(w, r, status, GenerateErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
	})
}
