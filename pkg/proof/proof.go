// Package proof aggregates a finding's before/after state, causal account,
// replay instructions, and evidence bundle into a single artifact a
// downstream consumer can accept or reject, and optionally signs that
// artifact so its origin is verifiable.
package proof

import (
	"time"

	"github.com/sentinelcore/core/pkg/causal"
	"github.com/sentinelcore/core/pkg/evidence"
	"github.com/sentinelcore/core/pkg/invariant"
	"github.com/sentinelcore/core/pkg/ledger"
	"github.com/sentinelcore/core/pkg/replay"
	"github.com/sentinelcore/core/pkg/state"
	"github.com/sentinelcore/core/pkg/types"
)

// Proof is the terminal artifact of a validation run: the transition that
// was checked, why its effects are attributed to a particular action, how a
// collaborator could reproduce it, and what evidence backs it.
type Proof struct {
	ID                 types.FindingId
	BeforeState        state.Snapshot
	ActionSequence     []ledger.Action
	AfterState         state.Snapshot
	CausalChain        causal.Chain
	ReplayInstructions []replay.Step
	Evidence           evidence.Bundle
	InvariantViolated  bool
	ViolationDetails   []invariant.Violation
	GeneratedAt        time.Time
	IsDeterministic    bool
}

// BuildProof assembles a Proof from a validation result, the transition it
// was computed over, the evidence collected alongside it, and the outcomes
// of actually re-running the replay instructions against one or more fresh
// environments. Determinism is not something a single transition can
// establish on its own; it is the caller's job to execute the replay (once
// is enough to get a Proof at all, several times if determinism matters)
// and hand back what happened each time. The causal chain and replay
// instructions are derived internally from the transition, so everything
// else about the function is pure given a fresh clock reading and UUID.
func BuildProof(result invariant.ValidationResult, t ledger.Transition, bundle evidence.Bundle, replayResults []replay.ReplayResult, generatedAt time.Time) Proof {
	chain := causal.BuildChain(t, causal.DefaultRules())

	return Proof{
		ID:                 types.NewFindingId(),
		BeforeState:        t.From,
		ActionSequence:     []ledger.Action{t.Action},
		AfterState:         t.To,
		CausalChain:        chain,
		ReplayInstructions: replay.BuildSteps([]ledger.Transition{t}),
		Evidence:           bundle,
		InvariantViolated:  !result.IsValid,
		ViolationDetails:   result.Violations,
		GeneratedAt:        generatedAt,
		IsDeterministic:    replay.IsDeterministic(replayResults),
	}
}

// IsValid reports whether a Proof stands on its own: the action sequence is
// non-empty, the causal chain is complete, the determinism flag holds, and
// the evidence bundle carries at least one artifact.
func (p Proof) IsValid() bool {
	if len(p.ActionSequence) == 0 {
		return false
	}
	if !causal.ValidateCausality(p.CausalChain) {
		return false
	}
	if !p.IsDeterministic {
		return false
	}
	return len(p.Evidence.Artifacts) > 0
}
