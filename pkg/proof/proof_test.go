package proof

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelcore/core/pkg/evidence"
	"github.com/sentinelcore/core/pkg/invariant"
	"github.com/sentinelcore/core/pkg/ledger"
	"github.com/sentinelcore/core/pkg/replay"
	"github.com/sentinelcore/core/pkg/state"
	"github.com/sentinelcore/core/pkg/types"
)

func validBundle(t *testing.T) evidence.Bundle {
	t.Helper()
	c := evidence.NewCollector()
	c.Add(evidence.NewArtifact(evidence.TypeHTTPRequest, []byte("req"), nil, time.Now()))
	c.Add(evidence.NewArtifact(evidence.TypeHTTPResponse, []byte("resp"), nil, time.Now()))
	bundle := c.Finalize()
	require.True(t, bundle.Complete)
	return bundle
}

func deterministicReplay() []replay.ReplayResult {
	return []replay.ReplayResult{
		{Success: true, InvariantViolated: true},
		{Success: true, InvariantViolated: true},
	}
}

func paymentTransition() ledger.Transition {
	before := state.New()
	before.Balances["acc_1"] = types.NewBalance(100, types.CurrencyUSD)
	after := before.Clone()
	after.Balances["acc_1"] = types.NewBalance(50, types.CurrencyUSD)
	return ledger.Transition{From: before, Action: ledger.Action{Kind: ledger.ActionPayment}, To: after}
}

func genericTransition() ledger.Transition {
	before := state.New()
	after := before.Clone()
	after.WorkflowPositions["s1"] = state.WorkflowPosition{WorkflowId: "wf", StepIndex: 1}
	return ledger.Transition{From: before, Action: ledger.Action{Kind: ledger.ActionGeneric}, To: after}
}

func TestIsValidRequiresNonEmptyActionSequence(t *testing.T) {
	result := invariant.ValidationResult{IsValid: false, Violations: []invariant.Violation{{ID: "MON_001"}}}
	p := BuildProof(result, paymentTransition(), validBundle(t), deterministicReplay(), time.Now())
	p.ActionSequence = nil
	assert.False(t, p.IsValid())
}

func TestIsValidRequiresCompleteCausalChain(t *testing.T) {
	result := invariant.ValidationResult{
		IsValid:    false,
		Violations: []invariant.Violation{{ID: "WF_001"}},
	}
	// genericTransition's only change (a workflow advance) matches no
	// default attribution rule, so the causal chain is incomplete.
	p := BuildProof(result, genericTransition(), validBundle(t), deterministicReplay(), time.Now())
	assert.False(t, p.IsValid())
}

func TestIsValidRequiresDeterminism(t *testing.T) {
	result := invariant.ValidationResult{IsValid: false, Violations: []invariant.Violation{{ID: "MON_001"}}}
	divergent := []replay.ReplayResult{
		{Success: true, InvariantViolated: true},
		{Success: true, InvariantViolated: false},
	}
	p := BuildProof(result, paymentTransition(), validBundle(t), divergent, time.Now())
	assert.False(t, p.IsValid())
}

func TestIsValidRequiresAtLeastOneArtifact(t *testing.T) {
	result := invariant.ValidationResult{IsValid: false, Violations: []invariant.Violation{{ID: "MON_001"}}}
	p := BuildProof(result, paymentTransition(), evidence.Bundle{}, deterministicReplay(), time.Now())
	assert.False(t, p.IsValid())
}

func TestIsValidWhenEveryConditionHolds(t *testing.T) {
	result := invariant.ValidationResult{IsValid: false, Violations: []invariant.Violation{{ID: "MON_001"}}}
	p := BuildProof(result, paymentTransition(), validBundle(t), deterministicReplay(), time.Now())
	assert.True(t, p.IsValid())
	assert.True(t, p.InvariantViolated)
	assert.Equal(t, "MON_001", p.ViolationDetails[0].ID)
}

func TestSignerRoundTrips(t *testing.T) {
	result := invariant.ValidationResult{IsValid: false, Violations: []invariant.Violation{{ID: "MON_001"}}}
	p := BuildProof(result, paymentTransition(), validBundle(t), deterministicReplay(), time.Now())

	signer := NewSigner([]byte("test-secret"), "sentinelcore")
	token, err := signer.Sign(p, time.Now(), time.Hour)
	require.NoError(t, err)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, string(p.ID), claims.FindingID)
	assert.InDelta(t, p.CausalChain.Confidence, claims.Confidence, 1e-9)
}

func TestSignerRejectsTamperedToken(t *testing.T) {
	signer := NewSigner([]byte("test-secret"), "sentinelcore")
	other := NewSigner([]byte("different-secret"), "sentinelcore")

	p := BuildProof(invariant.ValidationResult{}, genericTransition(), validBundle(t), nil, time.Now())
	token, err := other.Sign(p, time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = signer.Verify(token)
	assert.Error(t, err)
}
