// Package state defines the shape of a full application snapshot — the
// "before" and "after" values every other subsystem in the core operates
// on — plus the low-level difference-detection primitives the causal engine
// and several invariants build on.
//
// Snapshot values are produced by collaborators and passed by value; nothing
// in this package (or any package downstream of it) mutates a caller-owned
// snapshot.
package state

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/sentinelcore/core/pkg/types"
)

// WorkflowPosition records where a session sits in a named workflow.
type WorkflowPosition struct {
	WorkflowId string `json:"workflow_id"`
	StepIndex  int    `json:"step_index"`
	StepName   string `json:"step_name"`
}

// Session is the current authentication/authorization context.
type Session struct {
	SessionId     types.SessionId `json:"session_id"`
	UserId        types.UserId    `json:"user_id"`
	Roles         types.RoleSet   `json:"-"`
	Authenticated bool            `json:"authenticated"`
	CreatedAt     time.Time       `json:"created_at"`
	LastActivity  time.Time       `json:"last_activity"`
}

// sessionWire is the JSON wire shape for Session: roles serialize as a
// sorted string slice so the canonical encoding and the JSON interchange
// format are stable regardless of map iteration order.
type sessionWire struct {
	SessionId     types.SessionId `json:"session_id"`
	UserId        types.UserId    `json:"user_id"`
	Roles         []types.Role    `json:"roles"`
	Authenticated bool            `json:"authenticated"`
	CreatedAt     time.Time       `json:"created_at"`
	LastActivity  time.Time       `json:"last_activity"`
}

// MarshalJSON renders roles as a lexicographically sorted array.
func (s Session) MarshalJSON() ([]byte, error) {
	roles := s.Roles.Slice()
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return json.Marshal(sessionWire{
		SessionId: s.SessionId, UserId: s.UserId, Roles: roles,
		Authenticated: s.Authenticated, CreatedAt: s.CreatedAt, LastActivity: s.LastActivity,
	})
}

// UnmarshalJSON parses roles back into a RoleSet.
func (s *Session) UnmarshalJSON(data []byte) error {
	var w sessionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.SessionId = w.SessionId
	s.UserId = w.UserId
	s.Roles = types.NewRoleSet(w.Roles...)
	s.Authenticated = w.Authenticated
	s.CreatedAt = w.CreatedAt
	s.LastActivity = w.LastActivity
	return nil
}

// DataObject is a versioned, content-addressed application object.
type DataObject struct {
	DataType     string    `json:"data_type"`
	ContentHash  string    `json:"content_hash"`
	LastModified time.Time `json:"last_modified"`
	Version      uint64    `json:"version"`
}

// AuthorizationEvent records a role grant, admin action, or similar
// authorization-relevant occurrence.
type AuthorizationEvent struct {
	EventType  string        `json:"event_type"`
	UserId     types.UserId  `json:"user_id"`
	TargetRole *types.Role   `json:"target_role,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
	Authorizer *types.UserId `json:"authorizer,omitempty"`
}

// FinancialTransaction is a single recorded transfer, internal or external.
type FinancialTransaction struct {
	Id         string            `json:"id"`
	From       *types.AccountId  `json:"from,omitempty"`
	To         *types.AccountId  `json:"to,omitempty"`
	Amount     int64             `json:"amount"`
	Currency   types.Currency    `json:"currency"`
	IsExternal bool              `json:"is_external"`
	Timestamp  time.Time         `json:"timestamp"`
}

// TrustDecision records whether a decision leaned on client-supplied input
// and whether that input was server-side validated.
type TrustDecision struct {
	DecisionType       string    `json:"decision_type"`
	BasedOnClientInput bool      `json:"based_on_client_input"`
	InputValidated     bool      `json:"input_validated"`
	Timestamp          time.Time `json:"timestamp"`
}

// WorkflowCompletion records the terminal state of a workflow run.
type WorkflowCompletion struct {
	WorkflowId        string    `json:"workflow_id"`
	IsCritical        bool      `json:"is_critical"`
	AllStepsCompleted bool      `json:"all_steps_completed"`
	CompletedSteps    []int     `json:"completed_steps"`
	Timestamp         time.Time `json:"timestamp"`
}

// Snapshot is a full, immutable-by-convention capture of application state
// at one instant. It is the "before" or "after" side of a transition.
type Snapshot struct {
	Timestamp             *time.Time                          `json:"timestamp,omitempty"`
	Ownership             map[types.ObjectId]types.UserId      `json:"ownership"`
	Balances              map[types.AccountId]types.Balance    `json:"balances"`
	WorkflowPositions     map[types.SessionId]WorkflowPosition `json:"workflow_positions"`
	CurrentSession        *Session                             `json:"current_session,omitempty"`
	DataObjects           map[types.ObjectId]DataObject         `json:"data_objects"`
	AuthorizationEvents   []AuthorizationEvent                 `json:"authorization_events"`
	FinancialTransactions []FinancialTransaction               `json:"financial_transactions"`
	OverdraftPermissions  map[types.AccountId]struct{}          `json:"overdraft_permissions"`
	TrustDecisions        []TrustDecision                      `json:"trust_decisions"`
	WorkflowCompletions   []WorkflowCompletion                 `json:"workflow_completions"`
}

// New returns an empty, fully-initialized Snapshot — every map/slice field
// is non-nil so callers and predicates never have to nil-check.
func New() Snapshot {
	return Snapshot{
		Ownership:            make(map[types.ObjectId]types.UserId),
		Balances:             make(map[types.AccountId]types.Balance),
		WorkflowPositions:    make(map[types.SessionId]WorkflowPosition),
		DataObjects:          make(map[types.ObjectId]DataObject),
		OverdraftPermissions: make(map[types.AccountId]struct{}),
	}
}

// Clone produces a deep-enough copy that mutating the clone never touches
// the receiver — used by the state tracker (pkg/tracker) so incremental
// building never aliases a snapshot already handed to the ledger.
func (s Snapshot) Clone() Snapshot {
	out := New()
	if s.Timestamp != nil {
		ts := *s.Timestamp
		out.Timestamp = &ts
	}
	for k, v := range s.Ownership {
		out.Ownership[k] = v
	}
	for k, v := range s.Balances {
		out.Balances[k] = v
	}
	for k, v := range s.WorkflowPositions {
		out.WorkflowPositions[k] = v
	}
	if s.CurrentSession != nil {
		sess := *s.CurrentSession
		roles := make(types.RoleSet, len(s.CurrentSession.Roles))
		for r := range s.CurrentSession.Roles {
			roles[r] = struct{}{}
		}
		sess.Roles = roles
		out.CurrentSession = &sess
	}
	for k, v := range s.DataObjects {
		out.DataObjects[k] = v
	}
	out.AuthorizationEvents = append([]AuthorizationEvent{}, s.AuthorizationEvents...)
	out.FinancialTransactions = append([]FinancialTransaction{}, s.FinancialTransactions...)
	for k := range s.OverdraftPermissions {
		out.OverdraftPermissions[k] = struct{}{}
	}
	out.TrustDecisions = append([]TrustDecision{}, s.TrustDecisions...)
	out.WorkflowCompletions = append([]WorkflowCompletion{}, s.WorkflowCompletions...)
	return out
}

// HasOverdraft reports whether account carries overdraft permission.
func (s Snapshot) HasOverdraft(account types.AccountId) bool {
	_, ok := s.OverdraftPermissions[account]
	return ok
}

// Validate checks the structural invariants every Snapshot value must
// satisfy: mapping keys are unique (guaranteed by Go's map type, so nothing to
// check there) and, if a current session is present, it has a non-empty
// session id.
func (s Snapshot) Validate() error {
	if s.CurrentSession != nil && s.CurrentSession.SessionId == "" {
		return fmt.Errorf("state: current_session present with empty session_id")
	}
	return nil
}
