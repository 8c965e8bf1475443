package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelcore/core/pkg/ledger"
	"github.com/sentinelcore/core/pkg/state"
	"github.com/sentinelcore/core/pkg/types"
)

func TestDecodeTransitionRoundTrips(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	before := state.New()
	after := before.Clone()
	after.Ownership["obj_1"] = "alice"
	original := ledger.Transition{From: before, Action: ledger.Action{Kind: ledger.ActionGeneric}, To: after}

	raw, err := codec.EncodeTransition(original)
	require.NoError(t, err)

	decoded, err := codec.DecodeTransition(raw)
	require.NoError(t, err)
	assert.Equal(t, types.UserId("alice"), decoded.To.Ownership["obj_1"])
	assert.Equal(t, ledger.ActionGeneric, decoded.Action.Kind)
}

func TestDecodeTransitionRejectsMissingAction(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	_, err = codec.DecodeTransition([]byte(`{"from": {}, "to": {}}`))
	require.Error(t, err)

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.NotEmpty(t, formatErr.Errors)
}

func TestDecodeTransitionRejectsUnknownActionKind(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	_, err = codec.DecodeTransition([]byte(`{"from": {}, "to": {}, "action": {"kind": "Nonsense"}}`))
	require.Error(t, err)

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestDecodeTransitionRejectsMalformedJSON(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	_, err = codec.DecodeTransition([]byte(`not json`))
	assert.Error(t, err)
}
