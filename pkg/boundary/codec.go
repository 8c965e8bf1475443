package boundary

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sentinelcore/core/pkg/ledger"
)

// Codec decodes and encodes ledger.Transition values across the JSON
// interchange boundary, validating structure before ever attempting to
// unmarshal into Go types.
type Codec struct {
	schema *jsonschema.Schema
}

// NewCodec builds a Codec backed by the built-in transition schema.
func NewCodec() (*Codec, error) {
	schema, err := CompileTransitionSchema()
	if err != nil {
		return nil, err
	}
	return &Codec{schema: schema}, nil
}

// DecodeTransition validates raw against the transition schema, then
// unmarshals it into a ledger.Transition. Schema violations are returned as
// a *FormatError with one FieldError per offending path; a document that
// passes schema validation but still fails Go-level unmarshaling returns a
// plain error instead.
func (c *Codec) DecodeTransition(raw []byte) (ledger.Transition, error) {
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return ledger.Transition{}, fmt.Errorf("boundary: invalid JSON: %w", err)
	}

	if err := c.schema.Validate(generic); err != nil {
		if verr, ok := err.(*jsonschema.ValidationError); ok {
			return ledger.Transition{}, newFormatError(verr)
		}
		return ledger.Transition{}, fmt.Errorf("boundary: schema validation: %w", err)
	}

	var t ledger.Transition
	if err := json.Unmarshal(raw, &t); err != nil {
		return ledger.Transition{}, fmt.Errorf("boundary: decode transition: %w", err)
	}
	return t, nil
}

// EncodeTransition renders t using the same canonical JSON shape the
// ledger hashes, so a round trip through EncodeTransition/DecodeTransition
// is lossless and hash-stable.
func (c *Codec) EncodeTransition(t ledger.Transition) ([]byte, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("boundary: encode transition: %w", err)
	}
	return raw, nil
}
