package swagger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/scikiq/toolbridge/internal/common"
)

// fetchTimeout bounds a single spec retrieval. Fetches are not retried.
const fetchTimeout = 30 * time.Second

// maxSpecSize caps the spec body to prevent OOM from unexpectedly large documents.
const maxSpecSize = 20 << 20 // 20MB

// Parser fetches and normalizes Swagger 2.0 / OpenAPI 3.x specifications.
type Parser struct {
	specURL    string
	httpClient *http.Client
	logger     *common.Logger
	spec       map[string]any
}

// NewParser creates a parser for the given spec URL.
func NewParser(specURL string, logger *common.Logger) *Parser {
	return &Parser{
		specURL: specURL,
		httpClient: &http.Client{
			Timeout: fetchTimeout,
		},
		logger: logger,
	}
}

// FetchAndParse retrieves the spec document, validates it, and extracts its
// operations. The one-call contract of the normalizer: spec URL in, operation
// descriptors out.
func (p *Parser) FetchAndParse(ctx context.Context) ([]OperationDescriptor, error) {
	if _, err := p.FetchSpec(ctx); err != nil {
		return nil, err
	}
	return p.ExtractOperations()
}

// FetchSpec retrieves and parses the spec document. The body is tried as JSON
// first, then YAML. Basic structural validation failures are returned as
// *ValidationError; strict meta-schema validation failures are logged and
// swallowed so that slightly non-conformant specs still yield tools.
func (p *Parser) FetchSpec(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.specURL, nil)
	if err != nil {
		return nil, &FetchError{URL: p.specURL, Err: err}
	}

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: p.specURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSpecSize))
	if err != nil {
		return nil, &FetchError{URL: p.specURL, Err: err}
	}

	p.logger.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("fetched spec document")

	if resp.StatusCode >= 400 {
		return nil, &FetchError{URL: p.specURL, Err: fmt.Errorf("server returned %d", resp.StatusCode)}
	}

	spec, err := parseBody(body)
	if err != nil {
		return nil, err
	}

	if err := basicValidation(spec, p.logger); err != nil {
		return nil, err
	}

	// Strict validation is advisory only: the system prioritizes extracting
	// whatever operations it can over rejecting non-conformant specs.
	if err := strictValidation(spec); err != nil {
		p.logger.Warn().Str("error", err.Error()).Msg("spec failed strict validation but proceeding")
	} else {
		p.logger.Info().Msg("spec passed strict validation")
	}

	p.spec = spec
	return spec, nil
}

// parseBody decodes the body as JSON first, falling back to YAML.
func parseBody(body []byte) (map[string]any, error) {
	var spec map[string]any
	if err := json.Unmarshal(body, &spec); err == nil {
		return spec, nil
	}
	if err := yaml.Unmarshal(body, &spec); err != nil {
		return nil, &FormatError{Err: err}
	}
	if spec == nil {
		return nil, &ValidationError{Reason: "specification must be an object"}
	}
	return spec, nil
}

// basicValidation checks the minimal structure that makes a document a
// Swagger/OpenAPI spec. A missing paths section is a warning, not a failure:
// an API with zero operations is valid but useless.
func basicValidation(spec map[string]any, logger *common.Logger) error {
	swaggerVersion, _ := spec["swagger"].(string)
	openapiVersion, _ := spec["openapi"].(string)

	if swaggerVersion == "" && openapiVersion == "" {
		return &ValidationError{Reason: "missing 'swagger' or 'openapi' version field"}
	}

	if spec["info"] == nil {
		return &ValidationError{Reason: "missing 'info' section"}
	}

	if spec["paths"] == nil {
		logger.Warn().Msg("no 'paths' section found in specification")
	}

	if swaggerVersion != "" && !strings.HasPrefix(swaggerVersion, "2.") {
		logger.Warn().Str("version", swaggerVersion).Msg("unsupported Swagger version, expected 2.x")
	}
	if openapiVersion != "" && !strings.HasPrefix(openapiVersion, "3.") && !strings.HasPrefix(openapiVersion, "2.") {
		logger.Warn().Str("version", openapiVersion).Msg("unsupported OpenAPI version, expected 3.x or 2.x")
	}

	return nil
}
