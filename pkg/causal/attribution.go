package causal

import "github.com/sentinelcore/core/pkg/ledger"

// AttributionRule proposes a confidence that a given Action caused a given
// StateChange. Match reports whether the rule applies; when it does,
// Confidence is the rule's candidate confidence.
type AttributionRule struct {
	Name       string
	Match      func(action ledger.Action, change StateChange) bool
	Confidence float64
}

// DefaultRules are the built-in attribution heuristics. They are
// evaluated in this order; RuleFor breaks ties between equally-confident
// rules by preferring the last one registered.
func DefaultRules() []AttributionRule {
	return []AttributionRule{
		{
			Name: "http_request_attribution",
			Match: func(action ledger.Action, change StateChange) bool {
				return action.Request != nil
			},
			Confidence: 0.90,
		},
		{
			Name: "auth_session_attribution",
			Match: func(action ledger.Action, change StateChange) bool {
				return action.Kind == ledger.ActionAuthentication && change.Type == SessionChange
			},
			Confidence: 0.95,
		},
		{
			Name: "payment_balance_attribution",
			Match: func(action ledger.Action, change StateChange) bool {
				return action.Kind == ledger.ActionPayment && change.Type == BalanceChange
			},
			Confidence: 0.98,
		},
	}
}

// RuleFor selects the rule with the highest confidence that matches
// (action, change) from rules. Ties are broken by preferring the
// last-registered matching rule. It returns false if no rule matches.
func RuleFor(rules []AttributionRule, action ledger.Action, change StateChange) (AttributionRule, bool) {
	var best AttributionRule
	found := false
	for _, r := range rules {
		if !r.Match(action, change) {
			continue
		}
		if !found || r.Confidence >= best.Confidence {
			best = r
			found = true
		}
	}
	return best, found
}
