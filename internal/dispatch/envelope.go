// Package dispatch resolves manifest tool calls into HTTP requests and
// normalizes every outcome into a uniform RPC-style envelope.
package dispatch

import (
	"encoding/json"

	"github.com/google/uuid"
)

// jsonrpcVersion tags every envelope.
const jsonrpcVersion = "2.0"

// RPC error codes. Tool-not-found is kept distinct from execution failure so
// callers can tell a bad tool name from a bad backend.
const (
	CodeToolNotFound    = 404
	CodeExecutionFailed = 500
)

// Framing selects which of the two equivalent success shapes an envelope
// carries. Transports pick the framing; the dispatcher only guarantees the
// success/failure split.
type Framing int

const (
	// FramingRich exposes result.{status,data,message}.
	FramingRich Framing = iota
	// FramingLegacy exposes result.{msg,data,status,type,total_count}.
	FramingLegacy
)

// RichResult is the result payload under FramingRich.
type RichResult struct {
	Status  int    `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// LegacyResult is the result payload under FramingLegacy.
type LegacyResult struct {
	Msg        string `json:"msg"`
	Data       any    `json:"data"`
	Status     int    `json:"status"`
	Type       string `json:"type"`
	TotalCount int    `json:"total_count"`
}

// CallError is the failure payload. Data reflects the exact resolved request
// that was attempted.
type CallError struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Data    ErrorData `json:"data"`
}

// ErrorData describes the request behind a failed call.
type ErrorData struct {
	URL        string         `json:"url"`
	Method     string         `json:"method"`
	Parameters map[string]any `json:"parameters"`
}

// Envelope is the response half of the call contract. Exactly one of Result
// and Error is set, never both, never neither.
type Envelope struct {
	JSONRPC string     `json:"jsonrpc"`
	Result  any        `json:"result,omitempty"`
	Error   *CallError `json:"error,omitempty"`
	ID      any        `json:"id"`
}

// IsError reports whether the envelope carries a failure.
func (e *Envelope) IsError() bool {
	return e.Error != nil
}

// JSON serializes the envelope for transport.
func (e *Envelope) JSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// correlationID returns the caller-supplied id, or a fresh UUID when absent.
func correlationID(id any) any {
	if id == nil || id == "" {
		return uuid.NewString()
	}
	return id
}

// successEnvelope wraps a backend response in the requested framing. When the
// backend already speaks the legacy envelope convention (msg/data/status/...),
// its fields carry through; otherwise the decoded body becomes the data
// payload wholesale.
func successEnvelope(framing Framing, id any, status int, data any) *Envelope {
	fields, _ := data.(map[string]any)

	switch framing {
	case FramingLegacy:
		result := LegacyResult{
			Msg:        stringOr(fields, "msg", ""),
			Data:       data,
			Status:     status,
			Type:       stringOr(fields, "type", "json"),
			TotalCount: intOr(fields, "total_count", -1),
		}
		if inner, ok := fields["data"]; ok {
			result.Data = inner
		}
		if s := intOr(fields, "status", 0); s != 0 {
			result.Status = s
		}
		return &Envelope{JSONRPC: jsonrpcVersion, Result: result, ID: correlationID(id)}
	default:
		return &Envelope{
			JSONRPC: jsonrpcVersion,
			Result: RichResult{
				Status:  status,
				Data:    data,
				Message: firstString(fields, "message", "msg"),
			},
			ID: correlationID(id),
		}
	}
}

// errorEnvelope builds a failure envelope.
func errorEnvelope(id any, code int, message string, data ErrorData) *Envelope {
	return &Envelope{
		JSONRPC: jsonrpcVersion,
		Error: &CallError{
			Code:    code,
			Message: message,
			Data:    data,
		},
		ID: correlationID(id),
	}
}

func stringOr(m map[string]any, key, fallback string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return fallback
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func intOr(m map[string]any, key string, fallback int) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}
