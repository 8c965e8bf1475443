package state

import (
	"sort"

	"github.com/sentinelcore/core/pkg/types"
)

// OwnershipDelta describes one object whose owner differs (or newly exists)
// between before and after.
type OwnershipDelta struct {
	Object   types.ObjectId
	OldOwner types.UserId // zero value if the object didn't exist before
	NewOwner types.UserId
	IsNew    bool // true if the object had no owner in before
}

// DiffOwnership returns, in ascending ObjectId order, every object whose
// owner changed or was newly assigned going from before to after.
func DiffOwnership(before, after Snapshot) []OwnershipDelta {
	var deltas []OwnershipDelta
	for obj, newOwner := range after.Ownership {
		oldOwner, existed := before.Ownership[obj]
		if !existed {
			deltas = append(deltas, OwnershipDelta{Object: obj, NewOwner: newOwner, IsNew: true})
			continue
		}
		if oldOwner != newOwner {
			deltas = append(deltas, OwnershipDelta{Object: obj, OldOwner: oldOwner, NewOwner: newOwner})
		}
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].Object < deltas[j].Object })
	return deltas
}

// BalanceDelta describes one account whose balance changed between before
// and after.
type BalanceDelta struct {
	Account types.AccountId
	Before  types.Balance
	After   types.Balance
}

// DiffBalances returns, in ascending AccountId order, every account whose
// balance amount or currency changed. An account newly appearing in after
// is treated as a delta from the zero Balance.
func DiffBalances(before, after Snapshot) []BalanceDelta {
	var deltas []BalanceDelta
	for acct, afterBal := range after.Balances {
		beforeBal := before.Balances[acct] // zero value if absent
		if beforeBal != afterBal {
			deltas = append(deltas, BalanceDelta{Account: acct, Before: beforeBal, After: afterBal})
		}
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].Account < deltas[j].Account })
	return deltas
}

// SessionDelta describes how the current session changed between before and
// after. Created is true when before had no session and after does;
// Rotated is true when both exist but the session id differs.
type SessionDelta struct {
	Before  *Session
	After   *Session
	Created bool
	Rotated bool
	Changed bool
}

// DiffSession compares the current session between before and after.
func DiffSession(before, after Snapshot) SessionDelta {
	d := SessionDelta{Before: before.CurrentSession, After: after.CurrentSession}
	switch {
	case before.CurrentSession == nil && after.CurrentSession != nil:
		d.Created = true
		d.Changed = true
	case before.CurrentSession != nil && after.CurrentSession != nil:
		if before.CurrentSession.SessionId != after.CurrentSession.SessionId {
			d.Rotated = true
			d.Changed = true
		} else if before.CurrentSession.Authenticated != after.CurrentSession.Authenticated {
			d.Changed = true
		} else if !sameRoles(before.CurrentSession.Roles, after.CurrentSession.Roles) {
			d.Changed = true
		}
	case before.CurrentSession != nil && after.CurrentSession == nil:
		d.Changed = true
	}
	return d
}

func sameRoles(a, b types.RoleSet) bool {
	if len(a) != len(b) {
		return false
	}
	for r := range a {
		if !b.Has(r) {
			return false
		}
	}
	return true
}

// WorkflowDelta describes a session's advance through a workflow.
type WorkflowDelta struct {
	Session types.SessionId
	Before  WorkflowPosition
	HadBefore bool
	After   WorkflowPosition
}

// DiffWorkflowPositions returns, in ascending SessionId order, every
// session whose workflow position changed or newly appeared.
func DiffWorkflowPositions(before, after Snapshot) []WorkflowDelta {
	var deltas []WorkflowDelta
	for sess, afterPos := range after.WorkflowPositions {
		beforePos, existed := before.WorkflowPositions[sess]
		if !existed || beforePos != afterPos {
			deltas = append(deltas, WorkflowDelta{
				Session: sess, Before: beforePos, HadBefore: existed, After: afterPos,
			})
		}
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].Session < deltas[j].Session })
	return deltas
}

// DataObjectDelta describes an object whose stored data changed.
type DataObjectDelta struct {
	Object types.ObjectId
	Before DataObject
	HadBefore bool
	After  DataObject
}

// DiffDataObjects returns, in ascending ObjectId order, every data object
// that changed (any field) or newly appeared between before and after.
func DiffDataObjects(before, after Snapshot) []DataObjectDelta {
	var deltas []DataObjectDelta
	for obj, afterObj := range after.DataObjects {
		beforeObj, existed := before.DataObjects[obj]
		if !existed || beforeObj != afterObj {
			deltas = append(deltas, DataObjectDelta{
				Object: obj, Before: beforeObj, HadBefore: existed, After: afterObj,
			})
		}
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].Object < deltas[j].Object })
	return deltas
}
