// Package causal attributes the differences between a transition's before
// and after snapshots to the action that (allegedly) caused them, and
// scores how confident that attribution is.
package causal

import (
	"fmt"

	"github.com/sentinelcore/core/pkg/ledger"
	"github.com/sentinelcore/core/pkg/state"
	"github.com/sentinelcore/core/pkg/types"
)

// ChangeType classifies one detected difference between before and after.
type ChangeType string

const (
	OwnershipChange  ChangeType = "OwnershipChange"
	BalanceChange    ChangeType = "BalanceChange"
	RoleChange       ChangeType = "RoleChange"
	WorkflowAdvance  ChangeType = "WorkflowAdvance"
	DataModification ChangeType = "DataModification"
	SessionChange    ChangeType = "SessionChange"
	CustomChange     ChangeType = "Custom"
)

// StateChange is one detected difference, named by a JSON-Pointer-style
// field path so it can be traced back to the exact Snapshot field that
// moved.
type StateChange struct {
	Type      ChangeType
	FieldPath string
	OldValue  any
	NewValue  any
}

// DetectChanges enumerates every StateChange between before and after, in a
// fixed order (ownership, balances, session/roles, workflow, data objects)
// so two callers given the same transition always see changes in the same
// sequence — required for the causal chain's determinism guarantee.
func DetectChanges(before, after state.Snapshot) []StateChange {
	var changes []StateChange

	for _, d := range state.DiffOwnership(before, after) {
		changes = append(changes, StateChange{
			Type:      OwnershipChange,
			FieldPath: fmt.Sprintf("/ownership/%s", d.Object),
			OldValue:  d.OldOwner,
			NewValue:  d.NewOwner,
		})
	}

	for _, d := range state.DiffBalances(before, after) {
		changes = append(changes, StateChange{
			Type:      BalanceChange,
			FieldPath: fmt.Sprintf("/balances/%s", d.Account),
			OldValue:  d.Before,
			NewValue:  d.After,
		})
	}

	sd := state.DiffSession(before, after)
	if sd.Changed {
		if sd.Rotated || sd.Created {
			changes = append(changes, StateChange{
				Type:      SessionChange,
				FieldPath: "/current_session/session_id",
				OldValue:  sessionIDOrNil(sd.Before),
				NewValue:  sessionIDOrNil(sd.After),
			})
		}
		if roleDelta, changed := roleChange(sd.Before, sd.After); changed {
			changes = append(changes, StateChange{
				Type:      RoleChange,
				FieldPath: "/current_session/roles",
				OldValue:  roleDelta.old,
				NewValue:  roleDelta.new,
			})
		}
	}

	for _, d := range state.DiffWorkflowPositions(before, after) {
		changes = append(changes, StateChange{
			Type:      WorkflowAdvance,
			FieldPath: fmt.Sprintf("/workflow_positions/%s", d.Session),
			OldValue:  d.Before,
			NewValue:  d.After,
		})
	}

	for _, d := range state.DiffDataObjects(before, after) {
		changes = append(changes, StateChange{
			Type:      DataModification,
			FieldPath: fmt.Sprintf("/data_objects/%s", d.Object),
			OldValue:  d.Before,
			NewValue:  d.After,
		})
	}

	return changes
}

func sessionIDOrNil(s *state.Session) any {
	if s == nil {
		return nil
	}
	return s.SessionId
}

type roleDeltaPair struct{ old, new []types.Role }

func roleChange(before, after *state.Session) (roleDeltaPair, bool) {
	if before == nil || after == nil {
		return roleDeltaPair{}, false
	}
	added := after.Roles.Added(before.Roles)
	removed := before.Roles.Added(after.Roles)
	if len(added) == 0 && len(removed) == 0 {
		return roleDeltaPair{}, false
	}
	return roleDeltaPair{old: before.Roles.Slice(), new: after.Roles.Slice()}, true
}

// DetectChangesForTransition is a convenience wrapper for callers holding a
// ledger.Transition rather than a bare before/after pair.
func DetectChangesForTransition(t ledger.Transition) []StateChange {
	return DetectChanges(t.From, t.To)
}
