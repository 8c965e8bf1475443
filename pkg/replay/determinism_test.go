package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelcore/core/pkg/ledger"
	"github.com/sentinelcore/core/pkg/state"
	"github.com/sentinelcore/core/pkg/types"
)

func TestIsDeterministicTrueForIdenticalResults(t *testing.T) {
	r := ReplayResult{Success: true, InvariantViolated: true}
	assert.True(t, IsDeterministic([]ReplayResult{r, r, r}))
}

func TestIsDeterministicFalseForDivergentResults(t *testing.T) {
	a := ReplayResult{Success: true, InvariantViolated: true}
	b := ReplayResult{Success: true, InvariantViolated: false}
	assert.False(t, IsDeterministic([]ReplayResult{a, b}))
}

func TestIsDeterministicFalseWhenSuccessDisagrees(t *testing.T) {
	a := ReplayResult{Success: true}
	b := ReplayResult{Success: false}
	assert.False(t, IsDeterministic([]ReplayResult{a, b}))
}

func TestIsDeterministicTrivialForFewerThanTwoResults(t *testing.T) {
	assert.True(t, IsDeterministic(nil))
	assert.True(t, IsDeterministic([]ReplayResult{{Success: false}}))
}

func TestBuildStepsProjectsRequirementsPerStep(t *testing.T) {
	before := state.New()
	before.Balances["acc_1"] = types.NewBalance(100, types.CurrencyUSD)
	after := before.Clone()
	after.Balances["acc_1"] = types.NewBalance(90, types.CurrencyUSD)

	steps := BuildSteps([]ledger.Transition{{From: before, Action: ledger.Action{Kind: ledger.ActionPayment}, To: after}})
	require.Len(t, steps, 1)
	assert.Equal(t, 1, steps[0].Sequence)
	require.NotNil(t, steps[0].Assertions)
	assert.Equal(t, int64(100), steps[0].Assertions.MinBalances["acc_1"])
}
