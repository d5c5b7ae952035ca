package swagger

import (
	"sort"
	"strings"
)

// httpMethods is the canonical extraction order for verb keys under a path.
// Go maps don't preserve document order, so operations are emitted with paths
// sorted and methods in this fixed order to keep extraction deterministic.
var httpMethods = []string{"get", "post", "put", "delete", "patch", "head", "options"}

// ExtractOperations walks the paths object and builds one OperationDescriptor
// per (path, method) pair. FetchSpec must have been called first.
func (p *Parser) ExtractOperations() ([]OperationDescriptor, error) {
	if p.spec == nil {
		return nil, &ValidationError{Reason: "spec not loaded, call FetchSpec first"}
	}

	paths, _ := p.spec["paths"].(map[string]any)

	pathKeys := make([]string, 0, len(paths))
	for k := range paths {
		pathKeys = append(pathKeys, k)
	}
	sort.Strings(pathKeys)

	var ops []OperationDescriptor
	for _, path := range pathKeys {
		methods, ok := paths[path].(map[string]any)
		if !ok {
			continue
		}
		for _, method := range httpMethods {
			operation, ok := methods[method].(map[string]any)
			if !ok {
				continue
			}
			ops = append(ops, extractOperation(path, method, operation))
		}
	}

	return ops, nil
}

// extractOperation normalizes a single operation object.
func extractOperation(path, method string, operation map[string]any) OperationDescriptor {
	return OperationDescriptor{
		Path:        path,
		Method:      strings.ToUpper(method),
		OperationID: stringField(operation, "operationId"),
		Summary:     stringField(operation, "summary"),
		Description: stringField(operation, "description"),
		Tags:        stringSlice(operation["tags"]),
		Parameters:  extractParameters(operation["parameters"]),
		RequestBody: extractRequestBody(operation["requestBody"]),
		Responses:   extractResponses(operation["responses"]),
	}
}

// extractParameters normalizes the parameters array, resolving the parameter
// type from whichever nesting style (2.0 or 3.x) the spec uses.
func extractParameters(raw any) []Parameter {
	items, _ := raw.([]any)
	params := make([]Parameter, 0, len(items))

	for _, item := range items {
		param, ok := item.(map[string]any)
		if !ok {
			continue
		}
		schema, _ := param["schema"].(map[string]any)
		params = append(params, Parameter{
			Name:        stringField(param, "name"),
			In:          stringField(param, "in"),
			Description: stringField(param, "description"),
			Required:    boolField(param, "required"),
			Type:        resolveParameterType(param),
			Schema:      schema,
		})
	}

	return params
}

// resolveParameterType determines the parameter type. OpenAPI 3.x nests type
// under schema; Swagger 2.0 puts it directly on the parameter. Array types
// report as array[<item-type>]; file uploads normalize to "file".
func resolveParameterType(param map[string]any) string {
	schema, _ := param["schema"].(map[string]any)
	paramType := stringField(schema, "type")
	if paramType == "" {
		paramType = stringField(param, "type")
	}

	switch paramType {
	case "array":
		itemsSchema, _ := schema["items"].(map[string]any)
		itemsType := stringField(itemsSchema, "type")
		if itemsType == "" {
			items, _ := param["items"].(map[string]any)
			itemsType = stringField(items, "type")
		}
		if itemsType == "" {
			itemsType = "string"
		}
		return "array[" + itemsType + "]"
	case "file":
		return "file"
	case "":
		return "string"
	}

	return paramType
}

// extractRequestBody normalizes an OpenAPI 3.x requestBody object, focusing
// on the application/json media type.
func extractRequestBody(raw any) *RequestBody {
	body, ok := raw.(map[string]any)
	if !ok || len(body) == 0 {
		return nil
	}

	content, _ := body["content"].(map[string]any)
	mediaTypes := make([]string, 0, len(content))
	for mt := range content {
		mediaTypes = append(mediaTypes, mt)
	}
	sort.Strings(mediaTypes)

	var schema map[string]any
	if jsonContent, ok := content["application/json"].(map[string]any); ok {
		schema, _ = jsonContent["schema"].(map[string]any)
	}

	return &RequestBody{
		Description:  stringField(body, "description"),
		Required:     boolField(body, "required"),
		ContentTypes: mediaTypes,
		Schema:       schema,
	}
}

// extractResponses normalizes the responses object keyed by status code.
func extractResponses(raw any) map[string]Response {
	responses, _ := raw.(map[string]any)
	extracted := make(map[string]Response, len(responses))

	for statusCode, r := range responses {
		response, ok := r.(map[string]any)
		if !ok {
			continue
		}
		content, _ := response["content"].(map[string]any)
		headers, _ := response["headers"].(map[string]any)
		extracted[statusCode] = Response{
			Description: stringField(response, "description"),
			Content:     content,
			Headers:     headers,
		}
	}

	return extracted
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}

func stringSlice(raw any) []string {
	items, _ := raw.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
