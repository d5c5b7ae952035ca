package swagger

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// metaSchemaJSON is a structural subset of the Swagger 2.0 meta-schema.
// Validation against it is advisory: failures are reported to the caller of
// strictValidation, which logs and continues.
//
//go:embed swagger20.schema.json
var metaSchemaJSON []byte

var (
	metaSchemaOnce sync.Once
	metaSchema     *jsonschema.Schema
	metaSchemaErr  error
)

// compileMetaSchema compiles the embedded meta-schema once per process.
func compileMetaSchema() (*jsonschema.Schema, error) {
	metaSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(metaSchemaJSON))
		if err != nil {
			metaSchemaErr = fmt.Errorf("unmarshal meta-schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("swagger20.schema.json", doc); err != nil {
			metaSchemaErr = fmt.Errorf("add meta-schema resource: %w", err)
			return
		}
		metaSchema, metaSchemaErr = c.Compile("swagger20.schema.json")
	})
	return metaSchema, metaSchemaErr
}

// strictValidation validates the spec against the Swagger 2.0 meta-schema.
// OpenAPI 3.x documents are skipped; the meta-schema only covers 2.0.
// Callers must treat a returned error as a warning, never a failure.
func strictValidation(spec map[string]any) error {
	if _, ok := spec["swagger"].(string); !ok {
		return nil
	}

	schema, err := compileMetaSchema()
	if err != nil {
		return err
	}

	// Round-trip through JSON so the validator sees canonical value types
	// regardless of whether the spec arrived as JSON or YAML.
	raw, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("marshal spec for validation: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("unmarshal spec for validation: %w", err)
	}

	return schema.Validate(doc)
}
