// Package api implements the HTTP request pipeline: validation, rate-limit
// admission, shared-cache lookup, provider dispatch, and the one structured
// log record emitted per request. The auxiliary subsystems (cache, limiter)
// fail open; only validation, configuration, and provider failures reach
// the client.
package api
