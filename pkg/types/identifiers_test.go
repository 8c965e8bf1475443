package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleSetHas(t *testing.T) {
	s := NewRoleSet(RoleAdmin, RoleUser)
	assert.True(t, s.Has(RoleAdmin))
	assert.False(t, s.Has(RoleModerator))
	assert.True(t, s.HasAny(RoleModerator, RoleAdmin))
}

func TestRoleSetProperlyContains(t *testing.T) {
	before := NewRoleSet(RoleUser)
	after := NewRoleSet(RoleUser, RoleAdmin)
	assert.True(t, after.ProperlyContains(before))
	assert.False(t, before.ProperlyContains(after))
	assert.False(t, after.ProperlyContains(after))
}

func TestRoleSetAdded(t *testing.T) {
	before := NewRoleSet(RoleUser)
	after := NewRoleSet(RoleUser, RoleAdmin, RoleModerator)
	added := after.Added(before)
	assert.ElementsMatch(t, []Role{RoleAdmin, RoleModerator}, added)
}

func TestNewFindingIdUnique(t *testing.T) {
	a := NewFindingId()
	b := NewFindingId()
	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, string(a))
}
