package invariant

import (
	"time"

	"github.com/sentinelcore/core/pkg/state"
)

// Predicate is a pure, deterministic check over a state transition. It must
// never mutate before or after, and must return the same answer every time
// it is given the same pair of snapshots.
type Predicate func(before, after state.Snapshot) bool

// Provenance records why an invariant exists and where it stops being
// trustworthy. It is metadata for a human auditing the catalog, never
// consulted by Validate itself.
type Provenance struct {
	SecurityPrinciple   string
	Assumptions         []string
	BlindSpots          []string
	StandardsReference  string
	LastReview          time.Time
}

// Invariant is one named, categorized, provenance-carrying predicate.
type Invariant struct {
	ID               string
	Name             string
	Description      string
	Category         Category
	ViolationMessage string
	Provenance       Provenance
	Check            Predicate
}
