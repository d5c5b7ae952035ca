package swagger

// Parameter is one normalized operation parameter.
type Parameter struct {
	Name        string         `yaml:"name" json:"name"`
	In          string         `yaml:"in" json:"in"` // path, query, header, cookie
	Description string         `yaml:"description" json:"description"`
	Required    bool           `yaml:"required" json:"required"`
	Type        string         `yaml:"type" json:"type"`
	Schema      map[string]any `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// RequestBody is the normalized request body of an operation.
type RequestBody struct {
	Description  string         `yaml:"description" json:"description"`
	Required     bool           `yaml:"required" json:"required"`
	ContentTypes []string       `yaml:"content_types" json:"content_types"`
	Schema       map[string]any `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// Response is the normalized response for one status code.
type Response struct {
	Description string         `yaml:"description" json:"description"`
	Content     map[string]any `yaml:"content,omitempty" json:"content,omitempty"`
	Headers     map[string]any `yaml:"headers,omitempty" json:"headers,omitempty"`
}

// OperationDescriptor describes one REST operation extracted from a spec.
// (path, method) uniquely identifies an operation within one spec snapshot.
// Descriptors are built once per parse and immutable afterward.
type OperationDescriptor struct {
	Path        string              `yaml:"path" json:"path"`
	Method      string              `yaml:"method" json:"method"`
	OperationID string              `yaml:"operation_id" json:"operation_id"`
	Summary     string              `yaml:"summary" json:"summary"`
	Description string              `yaml:"description" json:"description"`
	Tags        []string            `yaml:"tags" json:"tags"`
	Parameters  []Parameter         `yaml:"parameters" json:"parameters"`
	RequestBody *RequestBody        `yaml:"request_body,omitempty" json:"request_body,omitempty"`
	Responses   map[string]Response `yaml:"responses" json:"responses"`
}
