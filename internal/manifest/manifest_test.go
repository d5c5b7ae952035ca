package manifest

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/scikiq/toolbridge/internal/swagger"
)

func sampleManifest() *Manifest {
	ops := []swagger.OperationDescriptor{
		{
			Path:        "/pet/{petId}",
			Method:      "GET",
			OperationID: "getPetById",
			Summary:     "Find pet by ID",
			Tags:        []string{"pet"},
			Parameters: []swagger.Parameter{
				{Name: "petId", In: "path", Required: true, Type: "integer", Description: "ID of pet"},
			},
			Responses: map[string]swagger.Response{
				"200": {Description: "successful operation"},
			},
		},
		{
			Path:   "/pet",
			Method: "POST",
			RequestBody: &swagger.RequestBody{
				Required:     true,
				ContentTypes: []string{"application/json"},
				Schema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{"type": "string"},
					},
				},
			},
		},
	}
	return Build(APIInfo{
		Name:        "Petstore",
		Description: "Sample pet store",
		BaseURL:     "http://x/v2",
		SwaggerURL:  "http://x/v2/swagger.json",
		AuthType:    "api_key",
		AuthConfig:  map[string]string{"header": "X-API-Key", "key": "secret"},
	}, ops)
}

func TestManifestYAMLRoundTrip(t *testing.T) {
	m := sampleManifest()

	data, err := m.EncodeYAML()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := DecodeYAML(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if !reflect.DeepEqual(m, decoded) {
		t.Errorf("round-trip mismatch:\noriginal: %+v\ndecoded:  %+v", m, decoded)
	}

	// A second encode must be byte-identical — no drift through the cycle.
	again, err := decoded.EncodeYAML()
	if err != nil {
		t.Fatalf("re-encode failed: %v", err)
	}
	if string(data) != string(again) {
		t.Error("re-encoded document differs from original encoding")
	}
}

func TestManifestWireKeys(t *testing.T) {
	data, err := sampleManifest().EncodeYAML()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	doc := string(data)

	// External tooling depends on these exact key names.
	for _, key := range []string{
		"api_info:", "tools:", "name:", "description:", "base_url:",
		"swagger_url:", "auth_type:", "auth_config:",
		"method:", "path:", "parameters:", "properties:", "required:",
	} {
		if !strings.Contains(doc, key) {
			t.Errorf("manifest document missing key %q", key)
		}
	}
}

func TestManifestFileRoundTrip(t *testing.T) {
	m := sampleManifest()
	path := filepath.Join(t.TempDir(), "manifest.yaml")

	if err := m.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	loaded, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !reflect.DeepEqual(m, loaded) {
		t.Error("file round-trip mismatch")
	}
}

func TestFindTool(t *testing.T) {
	m := sampleManifest()

	if tool := m.FindTool("GetPetByIdTool"); tool == nil {
		t.Fatal("GetPetByIdTool not found")
	} else if tool.Method != "GET" {
		t.Errorf("unexpected method %q", tool.Method)
	}

	if tool := m.FindTool("NoSuchTool"); tool != nil {
		t.Errorf("expected nil for unknown tool, got %+v", tool)
	}
}

func TestDecodeYAMLInvalid(t *testing.T) {
	if _, err := DecodeYAML([]byte("\t: not yaml")); err == nil {
		t.Fatal("expected decode error")
	}
}
