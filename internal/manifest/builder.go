package manifest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/scikiq/toolbridge/internal/swagger"
)

// Build converts operation descriptors into a tool manifest. Pure function:
// no I/O, deterministic output for the same inputs.
func Build(info APIInfo, ops []swagger.OperationDescriptor) *Manifest {
	if info.AuthType == "" {
		info.AuthType = "none"
	}
	if info.AuthConfig == nil {
		info.AuthConfig = map[string]string{}
	}

	m := &Manifest{
		APIInfo: info,
		Tools:   make([]Tool, 0, len(ops)),
	}

	seen := make(map[string]int, len(ops))
	for _, op := range ops {
		tool := buildTool(op)
		// Collision tie-break: append an incrementing suffix in first-appearance order.
		seen[tool.Name]++
		if n := seen[tool.Name]; n > 1 {
			tool.Name += strconv.Itoa(n)
			seen[tool.Name]++
		}
		m.Tools = append(m.Tools, tool)
	}

	return m
}

// buildTool derives a single tool from one operation descriptor.
func buildTool(op swagger.OperationDescriptor) Tool {
	return Tool{
		Name:        ToolName(op),
		Description: toolDescription(op),
		Method:      op.Method,
		Path:        op.Path,
		OperationID: op.OperationID,
		Parameters:  buildParameterSchema(op),
		RequestBody: op.RequestBody,
		Responses:   op.Responses,
		Tags:        op.Tags,
	}
}

// ToolName synthesizes a stable tool name for an operation. With an
// operationId: first character upper-cased plus a Tool suffix
// (getPetById -> GetPetByIdTool). Without one: the capitalized method plus
// the last non-parametric path segment (GET /pet/{id} -> GetPetTool),
// falling back to the literal token "resource" when every segment is a
// placeholder.
func ToolName(op swagger.OperationDescriptor) string {
	if op.OperationID != "" {
		return capitalize(op.OperationID) + "Tool"
	}

	resource := "resource"
	for _, part := range strings.Split(op.Path, "/") {
		if part != "" && !strings.HasPrefix(part, "{") {
			resource = part
		}
	}

	return capitalize(strings.ToLower(op.Method)) + capitalize(resource) + "Tool"
}

// toolDescription falls back through description, summary, and a synthesized
// sentence so every tool carries human-readable text.
func toolDescription(op swagger.OperationDescriptor) string {
	if op.Description != "" {
		return op.Description
	}
	if op.Summary != "" {
		return op.Summary
	}
	return fmt.Sprintf("Invoke %s %s", op.Method, op.Path)
}

// buildParameterSchema merges the identity parameters, path parameters, query
// parameters, and JSON request-body properties (in that order) into one
// JSON-Schema-like block. The identity parameters are injected ahead of
// endpoint-specific parameters and are always required, regardless of what
// the source spec declares.
func buildParameterSchema(op swagger.OperationDescriptor) ParameterSchema {
	schema := ParameterSchema{
		Type: "object",
		Properties: map[string]Property{
			ClientKeyParam: {Type: "string", Description: "Client key"},
			EntityKeyParam: {Type: "string", Description: "Entity key"},
			UserKeyParam:   {Type: "string", Description: "User key"},
		},
		Required: append([]string{}, IdentityParams...),
	}

	for _, in := range []string{"path", "query"} {
		for _, param := range op.Parameters {
			if param.In != in {
				continue
			}
			schema.Properties[param.Name] = Property{
				Type:        param.Type,
				Description: param.Description,
			}
			if param.Required {
				schema.Required = append(schema.Required, param.Name)
			}
		}
	}

	if op.RequestBody != nil && op.RequestBody.Schema != nil {
		addRequestBodyProperties(&schema, op.RequestBody.Schema)
	}

	return schema
}

// addRequestBodyProperties folds an object-typed JSON body schema into the
// parameter block. Property names are sorted for deterministic required
// ordering; the source maps carry no declaration order.
func addRequestBodyProperties(schema *ParameterSchema, body map[string]any) {
	if t, _ := body["type"].(string); t != "object" {
		return
	}

	properties, _ := body["properties"].(map[string]any)
	required := map[string]bool{}
	if reqList, ok := body["required"].([]any); ok {
		for _, r := range reqList {
			if name, ok := r.(string); ok {
				required[name] = true
			}
		}
	}

	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		propSchema, _ := properties[name].(map[string]any)
		propType, _ := propSchema["type"].(string)
		if propType == "" {
			propType = "string"
		}
		description, _ := propSchema["description"].(string)

		schema.Properties[name] = Property{Type: propType, Description: description}
		if required[name] {
			schema.Required = append(schema.Required, name)
		}
	}
}

// capitalize upper-cases the first character, leaving the rest untouched.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
