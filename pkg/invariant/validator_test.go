package invariant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelcore/core/pkg/state"
	"github.com/sentinelcore/core/pkg/types"
)

func TestValidateEmptyTransitionIsValid(t *testing.T) {
	v := NewValidator(NewDefaultCatalog(), nil)
	before := state.New()
	after := state.New()
	result := v.Validate(before, after)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Violations)
	assert.Equal(t, ClassificationNoIssue, result.Classification)
	assert.Len(t, result.CheckedInvariants, 18)
}

func TestValidateDetectsMonetaryViolationAsBug(t *testing.T) {
	v := NewValidator(NewDefaultCatalog(), nil)
	before := state.New()
	before.Balances["acc_1"] = types.NewBalance(100, types.CurrencyUSD)
	after := before.Clone()
	after.Balances["acc_1"] = types.NewBalance(1000, types.CurrencyUSD)

	result := v.Validate(before, after)
	require.False(t, result.IsValid)
	assert.Equal(t, ClassificationBug, result.Classification)

	var found bool
	for _, viol := range result.Violations {
		if viol.ID == "MON_001" {
			found = true
			assert.Equal(t, SeverityCritical, viol.Severity)
			assert.Equal(t, 1.0, viol.Confidence)
		}
	}
	assert.True(t, found)
}

func TestValidateMediumSeverityViolationIsStillABug(t *testing.T) {
	v := NewValidator(NewDefaultCatalog(), nil)
	before := state.New()
	before.WorkflowPositions["s1"] = state.WorkflowPosition{WorkflowId: "wf", StepIndex: 1}
	after := before.Clone()
	after.WorkflowPositions["s1"] = state.WorkflowPosition{WorkflowId: "wf", StepIndex: 5}

	result := v.Validate(before, after)
	require.False(t, result.IsValid)
	assert.Equal(t, ClassificationBug, result.Classification)
}

func TestValidateCategoriesScopesChecks(t *testing.T) {
	v := NewValidator(NewDefaultCatalog(), nil)
	before := state.New()
	after := state.New()
	result := v.ValidateCategories(before, after, Monetary)
	assert.Len(t, result.CheckedInvariants, 4)
}

func TestValidateInvariantUnknownID(t *testing.T) {
	v := NewValidator(NewDefaultCatalog(), nil)
	_, ok := v.ValidateInvariant("NOPE_999", state.New(), state.New())
	assert.False(t, ok)
}

func TestValidateInvariantSingle(t *testing.T) {
	v := NewValidator(NewDefaultCatalog(), nil)
	result, ok := v.ValidateInvariant("MON_002", state.New(), state.New())
	require.True(t, ok)
	assert.True(t, result.Passed)
	assert.Nil(t, result.Violation)
}

func TestValidateRecordsCoverage(t *testing.T) {
	catalog := NewDefaultCatalog()
	coverage := NewCoverageTracker(catalog)
	v := NewValidator(catalog, coverage)
	v.Validate(state.New(), state.New())

	report := coverage.Report()
	assert.Equal(t, 18, report.Covered)
	assert.False(t, report.IsComplete)
}
