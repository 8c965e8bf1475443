// Package types defines the opaque identifier and value types shared by
// every other package in the core: object/user/account/session ids, role
// tags, and currency-aware balances. Nothing here has behavior beyond
// equality, string conversion, RoleSet membership helpers, and FindingId
// minting; the invariant catalog, ledger, and causal
// engine are built on top of these primitives.
package types

import "github.com/google/uuid"

// ObjectId identifies an application-level object (a document, a record,
// anything ownable). It is an opaque, case-sensitive string.
type ObjectId string

// UserId identifies a human or service principal.
type UserId string

// AccountId identifies a financial account.
type AccountId string

// SessionId identifies an authentication session.
type SessionId string

// Role is a named permission grant, e.g. "admin", "moderator", "user".
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// FindingId uniquely identifies a proof or a validation finding.
type FindingId string

// NewFindingId mints a fresh, random FindingId.
func NewFindingId() FindingId {
	return FindingId(uuid.New().String())
}

// RoleSet is a set of roles with helpers for the membership checks the
// invariant predicates perform repeatedly.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from a slice, deduplicating as it goes.
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// Has reports whether the set contains r.
func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// HasAny reports whether the set contains any of roles.
func (s RoleSet) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// ProperlyContains reports whether s is a strict superset of other: every
// role in other is in s, and s has at least one role other lacks.
func (s RoleSet) ProperlyContains(other RoleSet) bool {
	if len(s) <= len(other) {
		return false
	}
	for r := range other {
		if !s.Has(r) {
			return false
		}
	}
	return true
}

// Added returns the roles present in s but absent from prior — the roles
// gained going from prior to s.
func (s RoleSet) Added(prior RoleSet) []Role {
	var added []Role
	for r := range s {
		if !prior.Has(r) {
			added = append(added, r)
		}
	}
	return added
}

// Slice returns the roles in s as a slice, order unspecified.
func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	return out
}
