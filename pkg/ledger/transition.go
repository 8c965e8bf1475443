package ledger

import "github.com/sentinelcore/core/pkg/state"

// ActionKind classifies the triggering action for attribution purposes. The
// causal engine's default rules key off of it; callers may use
// ActionCustom with a free-form Name for anything the catalog doesn't name.
type ActionKind string

const (
	ActionGeneric        ActionKind = "Generic"
	ActionAuthentication ActionKind = "Authentication"
	ActionPayment        ActionKind = "Payment"
	ActionCustom         ActionKind = "Custom"
)

// RequestInfo is the minimal HTTP-shaped description of the request that
// triggered an action, when one is known.
type RequestInfo struct {
	Method string `json:"method"`
	URL    string `json:"url"`
}

// Action is the triggering event half of a state transition: what a
// collaborator says caused before to become after.
type Action struct {
	Kind        ActionKind     `json:"kind"`
	Name        string         `json:"name,omitempty"`
	Request     *RequestInfo   `json:"request,omitempty"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Transition is the triple (before, action, after) the whole core operates
// on: the validator checks it, the ledger records it, the causal engine
// attributes it, the replay engine projects preconditions from it.
type Transition struct {
	From   state.Snapshot `json:"from"`
	Action Action         `json:"action"`
	To     state.Snapshot `json:"to"`
}
