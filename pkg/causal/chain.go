package causal

import "github.com/sentinelcore/core/pkg/ledger"

// CausalLink attributes a batch of state changes to the action that
// (allegedly) triggered them, at the arithmetic mean of the confidences
// each change's best-matching rule reported.
type CausalLink struct {
	Action     ledger.Action
	Changes    []StateChange
	Confidence float64
}

// Chain is the full causal account of one transition: the action that
// (allegedly) triggered it, the changes attributed to it, and an overall
// confidence in the attribution. Unattributed changes are left out of the
// chain entirely rather than dragging its confidence toward zero.
type Chain struct {
	RootAction  *ledger.Action
	Links       []CausalLink
	FinalEffect *StateChange
	IsComplete  bool
	Confidence  float64
}

// BuildChain attributes every change detected in t to its highest-confidence
// matching rule in rules (last-registered wins on a tie). Changes with no
// matching rule are dropped rather than attributed at zero confidence. The
// surviving changes collapse into a single link whose confidence is the
// arithmetic mean of their individual match confidences. A transition with
// no attributed changes at all produces an empty, incomplete chain.
func BuildChain(t ledger.Transition, rules []AttributionRule) Chain {
	changes := DetectChanges(t.From, t.To)

	var attributed []StateChange
	var confidenceSum float64
	for _, change := range changes {
		rule, ok := RuleFor(rules, t.Action, change)
		if !ok {
			continue
		}
		attributed = append(attributed, change)
		confidenceSum += rule.Confidence
	}

	if len(attributed) == 0 {
		return Chain{}
	}

	avgConfidence := confidenceSum / float64(len(attributed))
	rootAction := t.Action
	finalEffect := attributed[len(attributed)-1]

	link := CausalLink{Action: t.Action, Changes: attributed, Confidence: avgConfidence}

	return Chain{
		RootAction:  &rootAction,
		Links:       []CausalLink{link},
		FinalEffect: &finalEffect,
		IsComplete:  true,
		Confidence:  avgConfidence,
	}
}

// ValidateCausality reports whether the chain is complete: at least one
// link, a root action, and a final effect all present.
func ValidateCausality(c Chain) bool {
	return c.IsComplete && len(c.Links) > 0 && c.RootAction != nil && c.FinalEffect != nil
}

// CausalityConfidence returns the chain's overall confidence, in [0, 1].
func CausalityConfidence(c Chain) float64 {
	return c.Confidence
}
