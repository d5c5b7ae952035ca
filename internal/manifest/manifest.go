// Package manifest defines the persisted tool manifest document and the
// builder that derives it from normalized spec operations.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scikiq/toolbridge/internal/swagger"
)

// Identity parameter names injected into every tool. They carry multi-tenant
// routing context supplied by the caller, not the wrapped API's own inputs.
const (
	ClientKeyParam = "client_key"
	EntityKeyParam = "entity_key"
	UserKeyParam   = "user_key"
)

// IdentityParams lists the identity parameter names in injection order.
var IdentityParams = []string{ClientKeyParam, EntityKeyParam, UserKeyParam}

// Property describes one parameter in a tool's schema.
type Property struct {
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description" json:"description"`
}

// ParameterSchema is the JSON-Schema-like parameter block of a tool.
type ParameterSchema struct {
	Type       string              `yaml:"type" json:"type"`
	Properties map[string]Property `yaml:"properties" json:"properties"`
	Required   []string            `yaml:"required" json:"required"`
}

// Tool is one invokable unit derived 1:1 from an operation descriptor.
// Tools are read-only at dispatch time.
type Tool struct {
	Name        string                      `yaml:"name" json:"name"`
	Description string                      `yaml:"description" json:"description"`
	Method      string                      `yaml:"method" json:"method"`
	Path        string                      `yaml:"path" json:"path"`
	OperationID string                      `yaml:"operation_id" json:"operation_id"`
	Parameters  ParameterSchema             `yaml:"parameters" json:"parameters"`
	RequestBody *swagger.RequestBody        `yaml:"request_body,omitempty" json:"request_body,omitempty"`
	Responses   map[string]swagger.Response `yaml:"responses,omitempty" json:"responses,omitempty"`
	Tags        []string                    `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// APIInfo carries API-level metadata for the manifest.
type APIInfo struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	BaseURL     string            `yaml:"base_url" json:"base_url"`
	SwaggerURL  string            `yaml:"swagger_url" json:"swagger_url"`
	AuthType    string            `yaml:"auth_type" json:"auth_type"`
	AuthConfig  map[string]string `yaml:"auth_config" json:"auth_config"`
}

// Manifest is the persisted unit of work: API metadata plus an ordered tool
// sequence. A loaded manifest is immutable for the lifetime of a dispatcher;
// a changed manifest requires a fresh load.
type Manifest struct {
	APIInfo APIInfo `yaml:"api_info" json:"api_info"`
	Tools   []Tool  `yaml:"tools" json:"tools"`
}

// FindTool returns the tool with the given name, or nil if absent.
func (m *Manifest) FindTool(name string) *Tool {
	for i := range m.Tools {
		if m.Tools[i].Name == name {
			return &m.Tools[i]
		}
	}
	return nil
}

// EncodeYAML serializes the manifest document.
func (m *Manifest) EncodeYAML() ([]byte, error) {
	out, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return out, nil
}

// DecodeYAML parses a manifest document.
func DecodeYAML(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// WriteFile saves the manifest document to a YAML file.
func (m *Manifest) WriteFile(path string) error {
	data, err := m.EncodeYAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save manifest file: %w", err)
	}
	return nil
}

// ReadFile loads a manifest document from a YAML file.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}
	return DecodeYAML(data)
}
