// Package boundary is the JSON interchange layer for transitions crossing
// into or out of the core: schema validation ahead of decode, structured
// path-annotated errors, and canonical round-tripping.
package boundary

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// TransitionSchemaURL is the synthetic resource URL the transition schema
// is registered under. It is never dereferenced over the network; the
// schema text is supplied in-process via AddResource.
const TransitionSchemaURL = "https://schemas.sentinelcore.internal/transition.schema.json"

// transitionSchemaText is the minimal structural schema a transition JSON
// document must satisfy before this package attempts to decode it into a
// ledger.Transition: a "from" and "to" object, and an "action" object
// carrying at least a "kind".
const transitionSchemaText = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["from", "to", "action"],
  "properties": {
    "from": {"type": "object"},
    "to": {"type": "object"},
    "action": {
      "type": "object",
      "required": ["kind"],
      "properties": {
        "kind": {"type": "string", "enum": ["Generic", "Authentication", "Payment", "Custom"]}
      }
    }
  }
}`

// CompileTransitionSchema compiles the built-in transition schema. It is
// deterministic and cannot fail on a well-formed build of this package, but
// returns an error rather than panicking so callers keep control of
// startup failure handling.
func CompileTransitionSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(TransitionSchemaURL, strings.NewReader(transitionSchemaText)); err != nil {
		return nil, fmt.Errorf("boundary: load transition schema: %w", err)
	}
	schema, err := c.Compile(TransitionSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("boundary: compile transition schema: %w", err)
	}
	return schema, nil
}
