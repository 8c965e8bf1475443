// Package tracker provides a mutable façade over state.Snapshot for
// collaborators that build up application state incrementally (one field
// at a time) rather than constructing a whole Snapshot value up front, plus
// side logs of access attempts and role changes useful for the invariant
// catalog's provenance trail.
package tracker

import (
	"sync"
	"time"

	"github.com/sentinelcore/core/pkg/state"
	"github.com/sentinelcore/core/pkg/types"
)

// AccessAttempt records one access-control decision as it happened, whether
// or not it was ultimately allowed.
type AccessAttempt struct {
	Object    types.ObjectId
	User      types.UserId
	Allowed   bool
	Timestamp time.Time
}

// RoleChangeEvent records one role grant or revocation against a session.
type RoleChangeEvent struct {
	Session   types.SessionId
	Role      types.Role
	Added     bool
	Timestamp time.Time
}

// Tracker accumulates a Snapshot incrementally. It is safe for concurrent
// use; every mutating method takes a lock, and Snapshot returns a deep-enough
// clone so callers never alias tracker-owned state.
type Tracker struct {
	mu            sync.Mutex
	current       state.Snapshot
	accessLog     []AccessAttempt
	roleChangeLog []RoleChangeEvent
	clock         func() time.Time
}

// New builds a Tracker starting from initial.
func New(initial state.Snapshot) *Tracker {
	return &Tracker{current: initial.Clone(), clock: time.Now}
}

// WithClock overrides the tracker's clock, for deterministic tests.
func (t *Tracker) WithClock(clock func() time.Time) *Tracker {
	t.clock = clock
	return t
}

// Snapshot returns a clone of the tracker's current state.
func (t *Tracker) Snapshot() state.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current.Clone()
}

// SetOwnership records obj as owned by owner.
func (t *Tracker) SetOwnership(obj types.ObjectId, owner types.UserId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current.Ownership[obj] = owner
}

// SetBalance sets an account's balance.
func (t *Tracker) SetBalance(acct types.AccountId, bal types.Balance) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current.Balances[acct] = bal
}

// SetSession replaces the current session. Pass nil to clear it.
func (t *Tracker) SetSession(sess *state.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current.CurrentSession = sess
}

// AdvanceWorkflow records a session's position within a workflow.
func (t *Tracker) AdvanceWorkflow(sess types.SessionId, pos state.WorkflowPosition) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current.WorkflowPositions[sess] = pos
}

// SetDataObject records or updates a data object.
func (t *Tracker) SetDataObject(obj types.ObjectId, data state.DataObject) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current.DataObjects[obj] = data
}

// RecordAuthorizationEvent appends an authorization event to the tracked
// state.
func (t *Tracker) RecordAuthorizationEvent(evt state.AuthorizationEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current.AuthorizationEvents = append(t.current.AuthorizationEvents, evt)
}

// RecordFinancialTransaction appends a financial transaction to the tracked
// state.
func (t *Tracker) RecordFinancialTransaction(tx state.FinancialTransaction) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current.FinancialTransactions = append(t.current.FinancialTransactions, tx)
}

// RecordAccessAttempt logs an access-control decision to the tracker's
// side log without touching the tracked Snapshot itself — this is
// diagnostic history, not application state.
func (t *Tracker) RecordAccessAttempt(obj types.ObjectId, user types.UserId, allowed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accessLog = append(t.accessLog, AccessAttempt{Object: obj, User: user, Allowed: allowed, Timestamp: t.clock()})
}

// RecordRoleChange logs a role grant or revocation to the tracker's side
// log.
func (t *Tracker) RecordRoleChange(sess types.SessionId, role types.Role, added bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.roleChangeLog = append(t.roleChangeLog, RoleChangeEvent{Session: sess, Role: role, Added: added, Timestamp: t.clock()})
}

// AccessLog returns every recorded access attempt, in recording order.
func (t *Tracker) AccessLog() []AccessAttempt {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]AccessAttempt{}, t.accessLog...)
}

// RoleChangeLog returns every recorded role change, in recording order.
func (t *Tracker) RoleChangeLog() []RoleChangeEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]RoleChangeEvent{}, t.roleChangeLog...)
}
