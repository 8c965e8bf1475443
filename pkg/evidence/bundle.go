package evidence

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Bundle is a finalized, immutable collection of artifacts gathered for one
// finding. Complete records whether every evidence type the collector
// required was actually present at finalization time; a bundle can be
// incomplete and still exist, since a caller may want to inspect and log
// what was collected even when a finding falls short of full evidentiary
// backing.
type Bundle struct {
	ID          uuid.UUID
	Artifacts   []Artifact
	FinalizedAt time.Time
	Complete    bool
}

// VerifyAllIntegrity reports whether every artifact in the bundle still
// hashes to its recorded content hash.
func (b Bundle) VerifyAllIntegrity() bool {
	for _, a := range b.Artifacts {
		if !a.VerifyIntegrity() {
			return false
		}
	}
	return true
}

// ByType returns every artifact of the given type in the bundle, in
// collection order.
func (b Bundle) ByType(t Type) []Artifact {
	var out []Artifact
	for _, a := range b.Artifacts {
		if a.EvidenceType == t {
			out = append(out, a)
		}
	}
	return out
}

// DefaultRequiredTypes is the minimum evidence completeness bar for any
// finding: proof that a request was actually sent and that a response was
// actually received.
var DefaultRequiredTypes = []Type{TypeHTTPRequest, TypeHTTPResponse}

// Collector accumulates artifacts before they are finalized into a Bundle.
// It is safe for concurrent use by multiple capture goroutines feeding the
// same finding.
type Collector struct {
	mu            sync.Mutex
	artifacts     []Artifact
	requiredTypes []Type
	clock         func() time.Time
}

// NewCollector builds a Collector that treats each of requiredTypes as
// required for a Bundle to be considered complete. Passing no types
// defaults to DefaultRequiredTypes.
func NewCollector(requiredTypes ...Type) *Collector {
	if len(requiredTypes) == 0 {
		requiredTypes = DefaultRequiredTypes
	}
	return &Collector{requiredTypes: requiredTypes, clock: time.Now}
}

// WithClock overrides the collector's clock, for deterministic tests.
func (c *Collector) WithClock(clock func() time.Time) *Collector {
	c.clock = clock
	return c
}

// Add appends an artifact to the collector.
func (c *Collector) Add(a Artifact) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.artifacts = append(c.artifacts, a)
}

// Finalize hands back everything collected so far as an immutable Bundle
// and resets the collector to start gathering evidence for the next
// finding. It never fails: Bundle.Complete reports whether every required
// evidence type was present, so a caller can decide for itself whether an
// incomplete bundle is still worth keeping.
func (c *Collector) Finalize() Bundle {
	c.mu.Lock()
	defer c.mu.Unlock()

	artifacts := c.artifacts
	c.artifacts = nil

	present := make(map[Type]bool, len(artifacts))
	for _, a := range artifacts {
		present[a.EvidenceType] = true
	}
	complete := true
	for _, t := range c.requiredTypes {
		if !present[t] {
			complete = false
			break
		}
	}

	return Bundle{
		ID:          uuid.New(),
		Artifacts:   artifacts,
		FinalizedAt: c.clock(),
		Complete:    complete,
	}
}
