package invariant

import (
	"sort"
	"strings"

	"github.com/sentinelcore/core/pkg/state"
	"github.com/sentinelcore/core/pkg/types"
)

// NewDefaultCatalog returns a catalog pre-populated with the 18 built-in
// invariants. Registration cannot fail here (ids are hard-coded and
// unique), so the constructor panics on error rather than returning one —
// a programmer error in this file, never a caller mistake.
func NewDefaultCatalog() *Catalog {
	c := NewCatalog()
	for _, inv := range defaultInvariants() {
		if err := c.Register(inv); err != nil {
			panic("invariant: default catalog registration: " + err.Error())
		}
	}
	return c
}

func defaultInvariants() []Invariant {
	return []Invariant{
		{
			ID:               "AUTH_001",
			Name:             "cross-user object access",
			Description:      "An object's ownership may only change at the request of the object's current owner or an administrator.",
			Category:         Authorization,
			ViolationMessage: "object ownership changed without the prior owner or an admin session",
			Provenance: Provenance{
				SecurityPrinciple:  "principle of least privilege / IDOR prevention",
				Assumptions:        []string{"ownership transfer is always attributable to the acting session"},
				BlindSpots:         []string{"cannot detect owner collusion where the prior owner authorizes an improper transfer"},
				StandardsReference: "OWASP A01:2021 Broken Access Control",
			},
			Check: checkAuth001,
		},
		{
			ID:               "AUTH_002",
			Name:             "privilege escalation",
			Description:      "A session's role set may only gain roles that a role_grant authorization event explicitly names.",
			Category:         Authorization,
			ViolationMessage: "session gained a role with no matching role_grant event",
			Provenance: Provenance{
				SecurityPrinciple:  "no implicit privilege escalation",
				Assumptions:        []string{"every legitimate role grant is recorded as an authorization event before the role appears on the session"},
				BlindSpots:         []string{"cannot catch a role_grant event that is itself forged by a compromised authorizer"},
				StandardsReference: "OWASP A01:2021 Broken Access Control",
			},
			Check: checkAuth002,
		},
		{
			ID:               "AUTH_003",
			Name:             "horizontal privilege boundary",
			Description:      "A newly visible data object owned by someone other than the current session requires an admin or moderator session.",
			Category:         Authorization,
			ViolationMessage: "cross-account object became visible to a non-privileged session",
			Provenance: Provenance{
				SecurityPrinciple:  "horizontal access control",
				Assumptions:        []string{"data_objects entries only appear when a session has been granted read access to them"},
				BlindSpots:         []string{"does not model read-only vs. write access separately"},
				StandardsReference: "OWASP A01:2021 Broken Access Control",
			},
			Check: checkAuth003,
		},
		{
			ID:               "AUTH_004",
			Name:             "vertical privilege boundary",
			Description:      "An admin_action authorization event requires a current session carrying the admin role.",
			Category:         Authorization,
			ViolationMessage: "admin_action recorded without an admin session",
			Provenance: Provenance{
				SecurityPrinciple:  "vertical access control",
				Assumptions:        []string{"the after-snapshot's current_session reflects the actor of the recorded event"},
				BlindSpots:         []string{"cannot verify an admin_action performed by a session that has since logged out"},
				StandardsReference: "OWASP A01:2021 Broken Access Control",
			},
			Check: checkAuth004,
		},
		{
			ID:               "MON_001",
			Name:             "balance conservation",
			Description:      "The net change in total balances must equal the sum of external transaction amounts.",
			Category:         Monetary,
			ViolationMessage: "total balance changed by more or less than recorded external transactions account for",
			Provenance: Provenance{
				SecurityPrinciple:  "conservation of value",
				Assumptions:        []string{"every value entering or leaving the system is recorded as an external financial_transactions entry"},
				BlindSpots:         []string{"cannot detect an external transaction that is fabricated but internally consistent"},
				StandardsReference: "PCI DSS 10.2 (audit trail of financial events)",
			},
			Check: checkMon001,
		},
		{
			ID:               "MON_002",
			Name:             "non-negative balance",
			Description:      "An account may only carry a negative balance if it holds overdraft permission.",
			Category:         Monetary,
			ViolationMessage: "account went negative without overdraft permission",
			Provenance: Provenance{
				SecurityPrinciple:  "resource exhaustion / negative-balance exploit prevention",
				Assumptions:        []string{"overdraft_permissions is authoritative for the after-state"},
				BlindSpots:         []string{},
				StandardsReference: "",
			},
			Check: checkMon002,
		},
		{
			ID:               "MON_003",
			Name:             "transaction atomicity",
			Description:      "An internal transfer must debit and credit its two accounts by equal magnitudes.",
			Category:         Monetary,
			ViolationMessage: "internal transfer moved unequal amounts out of the source and into the destination",
			Provenance: Provenance{
				SecurityPrinciple:  "atomic transfer",
				Assumptions:        []string{"financial_transactions entries with from and to and is_external=false are the sole source of internal movement"},
				BlindSpots:         []string{"cannot detect a transfer split across two separately recorded transactions"},
				StandardsReference: "",
			},
			Check: checkMon003,
		},
		{
			ID:               "MON_004",
			Name:             "double-spend prevention",
			Description:      "An account's balance may never fall below what its recorded outgoing transactions would leave.",
			Category:         Monetary,
			ViolationMessage: "account balance is higher than its recorded debits allow, suggesting a double-spend",
			Provenance: Provenance{
				SecurityPrinciple:  "double-spend prevention",
				Assumptions:        []string{"financial_transactions is append-only and complete for the transition"},
				BlindSpots:         []string{"does not itself detect a transaction replayed across two different transitions"},
				StandardsReference: "",
			},
			Check: checkMon004,
		},
		{
			ID:               "WF_001",
			Name:             "step ordering",
			Description:      "A session's workflow step index may advance by at most one step per transition.",
			Category:         Workflow,
			ViolationMessage: "workflow step index advanced by more than one step",
			Provenance: Provenance{
				SecurityPrinciple:  "workflow step skip prevention",
				Assumptions:        []string{"workflow_positions is keyed by session and updated exactly once per transition"},
				BlindSpots:         []string{"cannot detect a skip that lands on step_index + 1 but bypasses that step's actual side effects"},
				StandardsReference: "",
			},
			Check: checkWf001,
		},
		{
			ID:               "WF_002",
			Name:             "completion requirement",
			Description:      "A workflow marked critical may not be recorded complete unless all of its steps completed.",
			Category:         Workflow,
			ViolationMessage: "critical workflow recorded complete without all steps completing",
			Provenance: Provenance{
				SecurityPrinciple:  "mandatory step completion",
				Assumptions:        []string{"is_critical is set correctly at workflow definition time"},
				BlindSpots:         []string{},
				StandardsReference: "",
			},
			Check: checkWf002,
		},
		{
			ID:               "WF_003",
			Name:             "state consistency",
			Description:      "A workflow completion's recorded steps must form a contiguous ascending run with no gaps or repeats.",
			Category:         Workflow,
			ViolationMessage: "workflow completion's completed_steps has a gap or duplicate",
			Provenance: Provenance{
				SecurityPrinciple:  "workflow state consistency",
				Assumptions:        []string{},
				BlindSpots:         []string{},
				StandardsReference: "",
			},
			Check: checkWf003,
		},
		{
			ID:               "TRUST_001",
			Name:             "client-input trust boundary",
			Description:      "A trust decision based on client input must record that the input was validated.",
			Category:         Trust,
			ViolationMessage: "trust decision relied on unvalidated client input",
			Provenance: Provenance{
				SecurityPrinciple:  "never trust client input",
				Assumptions:        []string{"input_validated is set truthfully by the component recording the decision"},
				BlindSpots:         []string{"cannot verify the validation itself was adequate, only that it was claimed to occur"},
				StandardsReference: "OWASP A03:2021 Injection",
			},
			Check: checkTrust001,
		},
		{
			ID:               "TRUST_002",
			Name:             "server-side validation requirement",
			Description:      "A security-, auth-, or access-related trust decision must record input validation regardless of its client-input flag.",
			Category:         Trust,
			ViolationMessage: "security-relevant trust decision made without recorded input validation",
			Provenance: Provenance{
				SecurityPrinciple:  "defense in depth",
				Assumptions:        []string{"decision_type text reliably signals the decision's security relevance"},
				BlindSpots:         []string{"keyword match on decision_type will miss semantically security-relevant decisions with an unrelated name"},
				StandardsReference: "OWASP A04:2021 Insecure Design",
			},
			Check: checkTrust002,
		},
		{
			ID:               "DATA_001",
			Name:             "modification authorization",
			Description:      "A data object's stored content may only change at the request of its owner or an administrator.",
			Category:         DataIntegrity,
			ViolationMessage: "data object modified without owner or admin session",
			Provenance: Provenance{
				SecurityPrinciple:  "data integrity / access control",
				Assumptions:        []string{"after.ownership is authoritative for who owns the object at the time of modification"},
				BlindSpots:         []string{},
				StandardsReference: "",
			},
			Check: checkData001,
		},
		{
			ID:               "DATA_002",
			Name:             "version monotonicity",
			Description:      "A data object's version number must never decrease.",
			Category:         DataIntegrity,
			ViolationMessage: "data object version decreased",
			Provenance: Provenance{
				SecurityPrinciple:  "optimistic concurrency / rollback detection",
				Assumptions:        []string{},
				BlindSpots:         []string{"cannot detect a version reset that also resets the true content to a prior state"},
				StandardsReference: "",
			},
			Check: checkData002,
		},
		{
			ID:               "SESS_001",
			Name:             "session fixation prevention",
			Description:      "Authentication must issue a new session id; it may never authenticate an existing, previously unauthenticated session id.",
			Category:         SessionManagement,
			ViolationMessage: "session became authenticated without a session id rotation",
			Provenance: Provenance{
				SecurityPrinciple:  "session fixation prevention",
				Assumptions:        []string{},
				BlindSpots:         []string{},
				StandardsReference: "OWASP Session Management Cheat Sheet",
			},
			Check: checkSess001,
		},
		{
			ID:               "SESS_002",
			Name:             "session-user binding",
			Description:      "A session id must be bound to exactly one user for its lifetime.",
			Category:         SessionManagement,
			ViolationMessage: "session id was rebound to a different user",
			Provenance: Provenance{
				SecurityPrinciple:  "session hijack prevention",
				Assumptions:        []string{},
				BlindSpots:         []string{},
				StandardsReference: "OWASP Session Management Cheat Sheet",
			},
			Check: checkSess002,
		},
		{
			ID:               "INPUT_001",
			Name:             "input bounds",
			Description:      "A data object's content hash and data type strings must stay within fixed length bounds.",
			Category:         InputValidation,
			ViolationMessage: "data object field exceeded its maximum allowed length",
			Provenance: Provenance{
				SecurityPrinciple:  "input length bounding",
				Assumptions:        []string{},
				BlindSpots:         []string{"bounds catch oversized fields, not malformed but short ones"},
				StandardsReference: "",
			},
			Check: checkInput001,
		},
	}
}

func checkAuth001(before, after state.Snapshot) bool {
	for _, d := range state.DiffOwnership(before, after) {
		if d.IsNew {
			continue
		}
		if !actingSessionIsOwnerOrAdmin(after, d.OldOwner) {
			return false
		}
	}
	return true
}

func actingSessionIsOwnerOrAdmin(after state.Snapshot, priorOwner types.UserId) bool {
	sess := after.CurrentSession
	if sess == nil {
		return false
	}
	if sess.UserId == priorOwner {
		return true
	}
	return sess.Roles.Has(types.RoleAdmin)
}

func checkAuth002(before, after state.Snapshot) bool {
	beforeRoles := types.NewRoleSet()
	if before.CurrentSession != nil {
		beforeRoles = before.CurrentSession.Roles
	}
	if after.CurrentSession == nil {
		return true
	}
	afterRoles := after.CurrentSession.Roles
	if !afterRoles.ProperlyContains(beforeRoles) {
		return true
	}
	for _, added := range afterRoles.Added(beforeRoles) {
		if !hasRoleGrantEvent(after, added) {
			return false
		}
	}
	return true
}

func hasRoleGrantEvent(after state.Snapshot, role types.Role) bool {
	for _, evt := range after.AuthorizationEvents {
		if evt.EventType == "role_grant" && evt.TargetRole != nil && *evt.TargetRole == role {
			return true
		}
	}
	return false
}

func checkAuth003(before, after state.Snapshot) bool {
	for _, d := range state.DiffDataObjects(before, after) {
		if d.HadBefore {
			continue
		}
		owner, hasOwner := after.Ownership[d.Object]
		sess := after.CurrentSession
		selfOwned := hasOwner && sess != nil && owner == sess.UserId
		if selfOwned {
			continue
		}
		if sess == nil || !sess.Roles.HasAny(types.RoleAdmin, types.RoleModerator) {
			return false
		}
	}
	return true
}

func checkAuth004(before, after state.Snapshot) bool {
	for _, evt := range after.AuthorizationEvents {
		if evt.EventType != "admin_action" {
			continue
		}
		sess := after.CurrentSession
		if sess == nil || !sess.Roles.Has(types.RoleAdmin) {
			return false
		}
	}
	return true
}

func checkMon001(before, after state.Snapshot) bool {
	var beforeTotal, afterTotal int64
	for _, b := range before.Balances {
		beforeTotal += b.Amount
	}
	for _, b := range after.Balances {
		afterTotal += b.Amount
	}
	var external int64
	for _, tx := range after.FinancialTransactions {
		if tx.IsExternal {
			external += tx.Amount
		}
	}
	return afterTotal-beforeTotal == external
}

func checkMon002(before, after state.Snapshot) bool {
	for acct, bal := range after.Balances {
		if bal.IsNegative() && !after.HasOverdraft(acct) {
			return false
		}
	}
	return true
}

func checkMon003(before, after state.Snapshot) bool {
	for _, tx := range after.FinancialTransactions {
		if tx.IsExternal || tx.From == nil || tx.To == nil {
			continue
		}
		fromDelta := after.Balances[*tx.From].Amount - before.Balances[*tx.From].Amount
		toDelta := after.Balances[*tx.To].Amount - before.Balances[*tx.To].Amount
		if -fromDelta != toDelta {
			return false
		}
	}
	return true
}

func checkMon004(before, after state.Snapshot) bool {
	outgoing := make(map[types.AccountId]int64)
	touched := make(map[types.AccountId]struct{})
	for _, tx := range after.FinancialTransactions {
		if tx.From != nil {
			outgoing[*tx.From] += tx.Amount
			touched[*tx.From] = struct{}{}
		}
	}
	for acct := range before.Balances {
		touched[acct] = struct{}{}
	}
	for acct := range after.Balances {
		touched[acct] = struct{}{}
	}
	for acct := range touched {
		floor := before.Balances[acct].Amount - outgoing[acct]
		if after.Balances[acct].Amount < floor {
			return false
		}
	}
	return true
}

func checkWf001(before, after state.Snapshot) bool {
	for sess, pos := range after.WorkflowPositions {
		beforePos, existed := before.WorkflowPositions[sess]
		if !existed {
			if pos.StepIndex > 1 {
				return false
			}
			continue
		}
		if pos.StepIndex > beforePos.StepIndex+1 {
			return false
		}
	}
	return true
}

func checkWf002(before, after state.Snapshot) bool {
	for _, c := range after.WorkflowCompletions {
		if c.IsCritical && !c.AllStepsCompleted {
			return false
		}
	}
	return true
}

func checkWf003(before, after state.Snapshot) bool {
	for _, c := range after.WorkflowCompletions {
		steps := append([]int{}, c.CompletedSteps...)
		sort.Ints(steps)
		for i := 1; i < len(steps); i++ {
			if steps[i] != steps[i-1]+1 {
				return false
			}
		}
	}
	return true
}

func checkTrust001(before, after state.Snapshot) bool {
	for _, td := range after.TrustDecisions {
		if td.BasedOnClientInput && !td.InputValidated {
			return false
		}
	}
	return true
}

var securityRelevantKeywords = []string{"security", "auth", "access"}

func checkTrust002(before, after state.Snapshot) bool {
	for _, td := range after.TrustDecisions {
		lower := strings.ToLower(td.DecisionType)
		for _, kw := range securityRelevantKeywords {
			if strings.Contains(lower, kw) && !td.InputValidated {
				return false
			}
		}
	}
	return true
}

func checkData001(before, after state.Snapshot) bool {
	for _, d := range state.DiffDataObjects(before, after) {
		if !d.HadBefore {
			continue
		}
		owner, hasOwner := after.Ownership[d.Object]
		sess := after.CurrentSession
		selfOwned := hasOwner && sess != nil && owner == sess.UserId
		if selfOwned {
			continue
		}
		if sess == nil || !sess.Roles.Has(types.RoleAdmin) {
			return false
		}
	}
	return true
}

func checkData002(before, after state.Snapshot) bool {
	for obj, afterObj := range after.DataObjects {
		beforeObj, existed := before.DataObjects[obj]
		if !existed {
			continue
		}
		if afterObj.Version < beforeObj.Version {
			return false
		}
	}
	return true
}

func checkSess001(before, after state.Snapshot) bool {
	if before.CurrentSession == nil || after.CurrentSession == nil {
		return true
	}
	if before.CurrentSession.Authenticated || !after.CurrentSession.Authenticated {
		return true
	}
	return before.CurrentSession.SessionId != after.CurrentSession.SessionId
}

func checkSess002(before, after state.Snapshot) bool {
	if before.CurrentSession == nil || after.CurrentSession == nil {
		return true
	}
	if before.CurrentSession.SessionId != after.CurrentSession.SessionId {
		return true
	}
	return before.CurrentSession.UserId == after.CurrentSession.UserId
}

const (
	maxContentHashLength = 128
	maxDataTypeLength    = 256
)

func checkInput001(before, after state.Snapshot) bool {
	for _, obj := range after.DataObjects {
		if len(obj.ContentHash) > maxContentHashLength {
			return false
		}
		if len(obj.DataType) > maxDataTypeLength {
			return false
		}
	}
	return true
}
