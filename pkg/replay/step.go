package replay

import (
	"time"

	"github.com/sentinelcore/core/pkg/ledger"
)

// Step is one action in a replay sequence, with the bookkeeping needed to
// re-run it against a live environment: how long to wait before firing it,
// whether to retry it on failure, and what state must hold before it is
// fired (the preconditions projected from the step's before-state).
type Step struct {
	Sequence       int
	Action         ledger.Action
	Assertions     *Requirements
	WaitBeforeMs   int64
	RetryOnFailure bool
	MaxRetries     int
}

// ExpectedStateChange names one change a successful replay is expected to
// produce, without pinning its exact old/new values.
type ExpectedStateChange struct {
	Field      string
	ChangeType string
}

// ExpectedOutcome is what a successful replay of a sequence of steps must
// produce: which invariant (if any) it is expected to violate, the changes
// it should reproduce, and whether the replay itself is expected to error
// out rather than complete.
type ExpectedOutcome struct {
	InvariantViolated *string
	StateChanges      []ExpectedStateChange
	ErrorExpected     bool
}

// TimingConstraints bounds how long a replay run, or the gap between any
// two consecutive steps within it, is allowed to take before it is
// considered to have diverged from the original recording.
type TimingConstraints struct {
	MaxTotalDuration time.Duration
	MinStepInterval  time.Duration
	MaxStepInterval  time.Duration
}

// nonFirstStepWaitMs is the pre-wait every step after the first carries, so
// a replayed sequence doesn't fire its actions back-to-back the way the
// original recording never did.
const nonFirstStepWaitMs = 100

// BuildSteps turns a linear sequence of transitions into replay steps, each
// asserting the preconditions projected from its own before-state. A
// single-transition input emits one step with no pre-wait; for a longer
// sequence, every step after the first carries a 100ms pre-wait.
func BuildSteps(transitions []ledger.Transition) []Step {
	steps := make([]Step, 0, len(transitions))
	for i, t := range transitions {
		req := ProjectRequirements(t.From)
		step := Step{
			Sequence:   i + 1,
			Action:     t.Action,
			Assertions: &req,
		}
		if i > 0 {
			step.WaitBeforeMs = nonFirstStepWaitMs
		}
		steps = append(steps, step)
	}
	return steps
}
