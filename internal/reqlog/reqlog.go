// Package reqlog emits one structured log record per generate request.
//
// A Record is created when handling starts, filled in as the request moves
// through the pipeline, and written exactly once as a single JSON line when
// handling ends, whichever branch was taken.
package reqlog

import (
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Record is the per-request log accumulator.
type Record struct {
	RequestID  string  `json:"requestId"`
	Timestamp  string  `json:"timestamp"`
	Method     *string `json:"method"`
	IP         string  `json:"ip"`
	LatencyMs  int64   `json:"latencyMs"`
	StatusCode int     `json:"statusCode"`
	CacheHit   bool    `json:"cacheHit"`
	Error      *string `json:"error"`
	Code       *string `json:"code"`
}

// New returns a Record stamped with a fresh request ID and the current time.
// StatusCode starts at 200; failure branches overwrite it.
func New(ip string) *Record {
	return &Record{
		RequestID:  uuid.NewString(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		IP:         ip,
		StatusCode: 200,
	}
}

// SetMethod records the requested method as soon as it is known, even when
// the rest of validation later fails.
func (r *Record) SetMethod(method string) {
	r.Method = &method
}

// SetFailure records the terminal status, machine code, and message of a
// failed request.
func (r *Record) SetFailure(status int, code, message string) {
	r.StatusCode = status
	r.Code = &code
	r.Error = &message
}

// Emit writes the record as one JSON line. It is called exactly once per
// request, after LatencyMs has been computed.
func (r *Record) Emit(w io.Writer) {
	line, err := json.Marshal(r)
	if err != nil {
		slog.Error("failed to marshal request log record", "error", err, "request_id", r.RequestID)
		return
	}
	line = append(line, '\n')
	if _, err := w.Write(line); err != nil {
		slog.Error("failed to write request log record", "error", err, "request_id", r.RequestID)
	}
}
