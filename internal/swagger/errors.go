package swagger

import "fmt"

// FetchError indicates a network or HTTP failure while retrieving the spec.
// Fetches are never retried here; retry policy belongs to the caller.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch spec from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FormatError indicates the fetched body is neither valid JSON nor valid YAML.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid YAML/JSON format: %v", e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ValidationError indicates the document parsed but is not structurally a
// Swagger/OpenAPI specification (missing version marker or info section).
// Strict meta-schema validation failures are deliberately not in this
// category; they are logged and swallowed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid specification: " + e.Reason
}
