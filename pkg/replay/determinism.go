package replay

import "time"

// ReplayResult is the outcome of one replay attempt: how far it got, what
// it ended in, and whether the invariant under investigation showed up
// again.
type ReplayResult struct {
	Success           bool
	StepsCompleted    int
	TotalSteps        int
	InvariantViolated bool
	Err               string
	Duration          time.Duration
}

// IsDeterministic reports whether every result in results agrees on
// success and on whether the invariant under investigation was violated,
// i.e. re-running the same sequence of steps against independently
// prepared environments always lands on the same outcome. A single
// result, or none at all, is vacuously deterministic.
func IsDeterministic(results []ReplayResult) bool {
	if len(results) < 2 {
		return true
	}
	first := results[0]
	for _, r := range results[1:] {
		if r.Success != first.Success || r.InvariantViolated != first.InvariantViolated {
			return false
		}
	}
	return true
}
