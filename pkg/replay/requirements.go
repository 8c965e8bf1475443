// Package replay projects the preconditions a recorded transition depended
// on, and lets a caller re-run the same sequence of actions against a fresh
// environment and check that it reproduces the same effects.
package replay

import (
	"fmt"

	"github.com/sentinelcore/core/pkg/state"
	"github.com/sentinelcore/core/pkg/types"
)

// Requirements is the set of preconditions a before-snapshot establishes:
// what a replay environment must already look like before a recorded
// action can be meaningfully re-executed against it.
type Requirements struct {
	SessionID         *types.SessionId
	Authenticated     bool
	RequiredRoles     []types.Role
	MinBalances       map[types.AccountId]int64
	RequiredOwnership map[types.ObjectId]types.UserId
	RequiredWorkflow  map[types.SessionId]state.WorkflowPosition
}

// ProjectRequirements captures before's ownership, balances, workflow
// positions, and current session (including its authentication state and
// roles) as the preconditions a replay of the transition originating from
// before must satisfy.
func ProjectRequirements(before state.Snapshot) Requirements {
	req := Requirements{
		MinBalances:       make(map[types.AccountId]int64, len(before.Balances)),
		RequiredOwnership: make(map[types.ObjectId]types.UserId, len(before.Ownership)),
		RequiredWorkflow:  make(map[types.SessionId]state.WorkflowPosition, len(before.WorkflowPositions)),
	}
	if before.CurrentSession != nil {
		id := before.CurrentSession.SessionId
		req.SessionID = &id
		req.Authenticated = before.CurrentSession.Authenticated
		req.RequiredRoles = before.CurrentSession.Roles.Slice()
	}
	for acct, bal := range before.Balances {
		req.MinBalances[acct] = bal.Amount
	}
	for obj, owner := range before.Ownership {
		req.RequiredOwnership[obj] = owner
	}
	for sess, pos := range before.WorkflowPositions {
		req.RequiredWorkflow[sess] = pos
	}
	return req
}

// ValidateRequirements reports whether env satisfies req: the current
// session (if required) is present with the right id, its authentication
// state and role grants meet what was required, every account holds at
// least its required minimum balance, every required ownership relation
// holds, and every required workflow position matches exactly. It returns
// every unmet precondition, not just the first.
func ValidateRequirements(env state.Snapshot, req Requirements) (bool, []string) {
	var reasons []string

	if req.SessionID != nil {
		if env.CurrentSession == nil {
			reasons = append(reasons, "no current session, but replay requires one")
		} else {
			if env.CurrentSession.SessionId != *req.SessionID {
				reasons = append(reasons, fmt.Sprintf("session id %q does not match required %q", env.CurrentSession.SessionId, *req.SessionID))
			}
			if req.Authenticated && !env.CurrentSession.Authenticated {
				reasons = append(reasons, "session is not authenticated, but replay requires it to be")
			}
			for _, role := range req.RequiredRoles {
				if !env.CurrentSession.Roles.Has(role) {
					reasons = append(reasons, fmt.Sprintf("session missing required role %q", role))
				}
			}
		}
	}

	for acct, min := range req.MinBalances {
		if env.Balances[acct].Amount < min {
			reasons = append(reasons, fmt.Sprintf("account %q balance %d below required minimum %d", acct, env.Balances[acct].Amount, min))
		}
	}

	for obj, owner := range req.RequiredOwnership {
		if got := env.Ownership[obj]; got != owner {
			reasons = append(reasons, fmt.Sprintf("object %q owned by %q, required %q", obj, got, owner))
		}
	}

	for sess, pos := range req.RequiredWorkflow {
		if got := env.WorkflowPositions[sess]; got != pos {
			reasons = append(reasons, fmt.Sprintf("session %q workflow position %+v does not match required %+v", sess, got, pos))
		}
	}

	return len(reasons) == 0, reasons
}
