package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelcore/core/pkg/state"
	"github.com/sentinelcore/core/pkg/types"
)

func mkTransition(objOwner types.UserId) Transition {
	from := state.New()
	to := state.New()
	to.Ownership["obj_1"] = objOwner
	return Transition{From: from, Action: Action{Kind: ActionGeneric}, To: to}
}

func TestRecordAssignsSequence(t *testing.T) {
	l := New()
	for i, owner := range []types.UserId{"user_1", "user_2", "user_3"} {
		id, err := l.Record(mkTransition(owner))
		require.NoError(t, err)
		entry, ok := l.ByID(id)
		require.True(t, ok)
		assert.Equal(t, uint64(i+1), entry.Sequence)
	}
	assert.Equal(t, 3, l.Len())
}

func TestRecordChainsHashes(t *testing.T) {
	l := New()
	_, err := l.Record(mkTransition("user_1"))
	require.NoError(t, err)
	_, err = l.Record(mkTransition("user_2"))
	require.NoError(t, err)

	first, _ := l.BySequence(1)
	second, _ := l.BySequence(2)
	require.Nil(t, first.PreviousHash)
	require.NotNil(t, second.PreviousHash)
	assert.Equal(t, first.StateHash, *second.PreviousHash)
}

func TestVerifyIntegrityDetectsHashMismatch(t *testing.T) {
	l := New()
	_, err := l.Record(mkTransition("user_1"))
	require.NoError(t, err)
	_, err = l.Record(mkTransition("user_2"))
	require.NoError(t, err)

	assert.True(t, l.VerifyIntegrity())

	// Tamper with an entry directly (only possible from within the package;
	// this simulates corruption that VerifyIntegrity must catch).
	l.entries[0].StateHash = "deadbeef"
	assert.False(t, l.VerifyIntegrity())
}

func TestVerifyIntegrityDetectsBrokenChain(t *testing.T) {
	l := New()
	_, err := l.Record(mkTransition("user_1"))
	require.NoError(t, err)
	_, err = l.Record(mkTransition("user_2"))
	require.NoError(t, err)

	bogus := "0000"
	l.entries[1].PreviousHash = &bogus
	assert.False(t, l.VerifyIntegrity())
}

func TestHashDeterminism(t *testing.T) {
	s1 := state.New()
	s1.Ownership["obj_1"] = "user_1"
	s1.Balances["acc_1"] = types.NewBalance(100, types.CurrencyUSD)

	s2 := state.New()
	s2.Balances["acc_1"] = types.NewBalance(100, types.CurrencyUSD)
	s2.Ownership["obj_1"] = "user_1"

	h1, err := HashState(s1)
	require.NoError(t, err)
	h2, err := HashState(s2)
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "insertion order must not affect the canonical hash")
}

func TestReplayRange(t *testing.T) {
	l := New()
	for _, owner := range []types.UserId{"a", "b", "c", "d"} {
		_, err := l.Record(mkTransition(owner))
		require.NoError(t, err)
	}

	entries, err := l.ReplayRange(2, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, uint64(2), entries[0].Sequence)
	assert.Equal(t, uint64(3), entries[1].Sequence)

	_, err = l.ReplayRange(3, 2)
	assert.Error(t, err)

	_, err = l.ReplayRange(1, 100)
	assert.Error(t, err)
}

func TestLatestStateAndStateAtSequence(t *testing.T) {
	l := New()
	_, err := l.Record(mkTransition("user_1"))
	require.NoError(t, err)
	_, err = l.Record(mkTransition("user_2"))
	require.NoError(t, err)

	latest, ok := l.LatestState()
	require.True(t, ok)
	assert.Equal(t, types.UserId("user_2"), latest.Ownership["obj_1"])

	first, ok := l.StateAtSequence(1)
	require.True(t, ok)
	assert.Equal(t, types.UserId("user_1"), first.Ownership["obj_1"])
}

func TestByTimeRange(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := base
	l := New(WithClock(func() time.Time {
		t := tick
		tick = tick.Add(time.Minute)
		return t
	}))
	for _, owner := range []types.UserId{"a", "b", "c"} {
		_, err := l.Record(mkTransition(owner))
		require.NoError(t, err)
	}

	entries := l.ByTimeRange(base.Add(time.Minute), base.Add(2*time.Minute))
	assert.Len(t, entries, 2)
}

func TestAppendLimiter(t *testing.T) {
	l := New(WithAppendLimiter(0, 1)) // one token, never refills
	_, err := l.Record(mkTransition("user_1"))
	require.NoError(t, err)
	_, err = l.Record(mkTransition("user_2"))
	assert.Error(t, err)
}
