package ledger

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/sentinelcore/core/pkg/state"
)

// CanonicalEncode renders a Snapshot into the deterministic byte form
// required for hashing: mapping keys sorted lexicographically, sequences
// preserved in declared order, enums as their textual tag, integers
// unpadded base-10, absent optionals omitted.
//
// This relies on two properties of Snapshot's JSON shape rather than a
// general-purpose canonicalizer: every map key type is string-kind (so
// encoding/json's built-in key sorting already produces the required
// order), and every enum is already a string type marshaling to its tag.
// The only thing standard json.Marshal gets wrong for our purposes is HTML
// escaping, which we disable.
func CanonicalEncode(s state.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("ledger: canonical encode failed: %w", err)
	}
	// json.Encoder.Encode appends a trailing newline; trim it so the byte
	// stream hashed is exactly the canonical document.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// HashState returns the lower-case hex SHA-256 digest of the canonical
// encoding of s.
func HashState(s state.Snapshot) (string, error) {
	raw, err := CanonicalEncode(s)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
