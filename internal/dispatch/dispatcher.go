package dispatch

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/scikiq/toolbridge/internal/common"
	"github.com/scikiq/toolbridge/internal/manifest"
)

// callTimeout bounds a single tool call. No automatic retry.
const callTimeout = 30 * time.Second

// maxResponseSize caps the backend response body.
const maxResponseSize = 50 << 20 // 50MB

// bodyMethods place the merged argument map in the request body; all other
// methods encode it as query parameters.
var bodyMethods = map[string]bool{
	http.MethodPost: true, http.MethodPut: true, http.MethodPatch: true,
}

// Identity is the tenant routing context bound at construction time and
// forwarded on every outgoing request.
type Identity struct {
	ClientKey string
	EntityKey string
	UserKey   string
}

// Dispatcher executes manifest tool calls. It is stateless per call: the only
// persistent state is the loaded, immutable manifest and the identity context.
// Concurrent in-flight calls are safe; swapping a manifest means constructing
// a new dispatcher, never mutating a live one.
type Dispatcher struct {
	manifest   *manifest.Manifest
	identity   Identity
	framing    Framing
	httpClient *http.Client
	logger     *common.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithFraming selects the success envelope framing. Default is FramingRich.
func WithFraming(f Framing) Option {
	return func(d *Dispatcher) { d.framing = f }
}

// WithHTTPClient replaces the HTTP client, preserving the call timeout when
// the replacement has none.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Dispatcher) {
		if c.Timeout == 0 {
			c.Timeout = callTimeout
		}
		d.httpClient = c
	}
}

// NewDispatcher creates a dispatcher over a loaded manifest.
func NewDispatcher(m *manifest.Manifest, identity Identity, logger *common.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		manifest: m,
		identity: identity,
		framing:  FramingRich,
		httpClient: &http.Client{
			Timeout: callTimeout,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Manifest returns the loaded manifest.
func (d *Dispatcher) Manifest() *manifest.Manifest {
	return d.manifest
}

// Dispatch resolves a tool name and call arguments into an HTTP request and
// returns the outcome as an envelope. Failures of any kind — unknown tool,
// unresolved path parameters, network errors, non-2xx statuses — come back as
// failure envelopes; no error ever propagates past this boundary.
func (d *Dispatcher) Dispatch(ctx context.Context, toolName string, args map[string]any) *Envelope {
	id := args["id"]

	tool := d.manifest.FindTool(toolName)
	if tool == nil {
		d.logger.Warn().Str("tool", toolName).Msg("tool not found")
		return errorEnvelope(id, CodeToolNotFound,
			fmt.Sprintf("Tool '%s' not found", toolName),
			ErrorData{Method: "", URL: "", Parameters: map[string]any{}})
	}

	baseURL := d.manifest.APIInfo.BaseURL
	if baseURL == "" {
		return errorEnvelope(id, CodeExecutionFailed,
			"Configuration error: base_url is empty",
			ErrorData{Method: tool.Method, URL: tool.Path, Parameters: map[string]any{}})
	}

	params := d.mergeArguments(args)

	path, err := resolvePath(tool.Path, params)
	if err != nil {
		return errorEnvelope(id, CodeExecutionFailed,
			fmt.Sprintf("Request failed: %v", err),
			ErrorData{Method: tool.Method, URL: joinURL(baseURL, tool.Path), Parameters: params})
	}
	target := joinURL(baseURL, path)

	req, err := d.buildRequest(ctx, tool.Method, target, params)
	if err != nil {
		return errorEnvelope(id, CodeExecutionFailed,
			fmt.Sprintf("Request failed: %v", err),
			ErrorData{Method: tool.Method, URL: target, Parameters: params})
	}

	d.logger.Debug().Str("tool", toolName).Str("method", tool.Method).Str("url", target).Msg("dispatching tool call")

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.logger.Error().
			Str("tool", toolName).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Str("error", err.Error()).
			Msg("tool call failed")
		return errorEnvelope(id, CodeExecutionFailed,
			fmt.Sprintf("Request failed: %v", err),
			ErrorData{Method: tool.Method, URL: target, Parameters: params})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return errorEnvelope(id, CodeExecutionFailed,
			fmt.Sprintf("Request failed: %v", err),
			ErrorData{Method: tool.Method, URL: target, Parameters: params})
	}

	d.logger.Debug().
		Str("tool", toolName).
		Int("status", resp.StatusCode).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("tool call response")

	data := decodeBody(body)

	if resp.StatusCode >= 400 {
		return errorEnvelope(id, resp.StatusCode,
			responseMessage(data, resp.StatusCode),
			ErrorData{Method: tool.Method, URL: target, Parameters: params})
	}

	return successEnvelope(d.framing, id, resp.StatusCode, data)
}

// mergeArguments builds the outgoing parameter map: identity keys first
// (caller-supplied values win over the bound identity), then all remaining
// non-nil arguments. Nil values are dropped — omission, not null-transmission,
// is the contract. The reserved "id" key carries correlation only.
func (d *Dispatcher) mergeArguments(args map[string]any) map[string]any {
	params := map[string]any{
		manifest.ClientKeyParam: d.identity.ClientKey,
		manifest.EntityKeyParam: d.identity.EntityKey,
		manifest.UserKeyParam:   d.identity.UserKey,
	}
	for key, value := range args {
		if key == "id" || value == nil {
			continue
		}
		params[key] = value
	}
	for _, key := range manifest.IdentityParams {
		if s, ok := params[key].(string); ok && s == "" {
			delete(params, key)
		}
	}
	return params
}

// resolvePath substitutes {name} placeholders with same-named arguments,
// consuming each used argument so it is not duplicated in the query or body.
func resolvePath(template string, params map[string]any) (string, error) {
	path := template
	for {
		open := strings.Index(path, "{")
		if open < 0 {
			return path, nil
		}
		end := strings.Index(path[open:], "}")
		if end < 0 {
			return "", fmt.Errorf("malformed path template %q", template)
		}
		name := path[open+1 : open+end]
		value, ok := params[name]
		if !ok {
			return "", fmt.Errorf("missing path parameter %q", name)
		}
		delete(params, name)
		path = path[:open] + url.PathEscape(fmt.Sprint(value)) + path[open+end+1:]
	}
}

// joinURL joins base URL and path with exactly one slash regardless of
// trailing/leading slash presence on either side.
func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// buildRequest encodes parameters per HTTP method: JSON body for
// POST/PUT/PATCH, query string for everything else.
func (d *Dispatcher) buildRequest(ctx context.Context, method, target string, params map[string]any) (*http.Request, error) {
	var bodyReader io.Reader
	requestURL := target

	if bodyMethods[method] {
		jsonData, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	} else if len(params) > 0 {
		query := url.Values{}
		for key, value := range params {
			query.Set(key, fmt.Sprint(value))
		}
		requestURL = target + "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, err
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	d.applyAuth(req)

	return req, nil
}

// applyAuth passes through configured credentials. Auth flows beyond this
// are out of scope.
func (d *Dispatcher) applyAuth(req *http.Request) {
	info := d.manifest.APIInfo
	switch info.AuthType {
	case "api_key":
		header := info.AuthConfig["header"]
		if header == "" {
			header = "X-API-Key"
		}
		req.Header.Set(header, info.AuthConfig["key"])
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+info.AuthConfig["token"])
	case "basic":
		creds := info.AuthConfig["username"] + ":" + info.AuthConfig["password"]
		req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(creds)))
	}
}

// decodeBody attempts a JSON decode of the response, falling back to the raw
// text body. A non-JSON response is not an error by itself.
func decodeBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return string(body)
	}
	return data
}

// responseMessage extracts a meaningful error message from an HTTP error
// response body.
func responseMessage(data any, statusCode int) string {
	if fields, ok := data.(map[string]any); ok {
		if msg := firstString(fields, "message", "msg", "error"); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("Request failed: server returned %d", statusCode)
}
