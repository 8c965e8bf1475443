package boundary

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FieldError is one schema-validation failure, located by a JSON-Pointer
// path into the offending document.
type FieldError struct {
	Path    string
	Message string
}

// FormatError wraps one or more FieldErrors, describing why an interchange
// document was rejected before ever reaching decode.
type FormatError struct {
	Errors []FieldError
}

func (e *FormatError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Path, fe.Message))
	}
	return "boundary: format validation failed: " + strings.Join(parts, "; ")
}

// newFormatError flattens a jsonschema.ValidationError's cause tree into a
// flat list of FieldErrors, one per leaf failure, each carrying a
// JSON-Pointer-style path built from the failing instance location.
func newFormatError(verr *jsonschema.ValidationError) *FormatError {
	var out []FieldError
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, FieldError{
				Path:    e.InstanceLocation,
				Message: e.Message,
			})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)
	return &FormatError{Errors: out}
}
