//go:build property
// +build property

package ledger_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/sentinelcore/core/pkg/ledger"
	"github.com/sentinelcore/core/pkg/state"
	"github.com/sentinelcore/core/pkg/types"
)

// TestHashStateIsDeterministic checks that hashing the same snapshot twice
// always produces the same digest, independent of map iteration order.
func TestHashStateIsDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("HashState is deterministic", prop.ForAll(
		func(owner string, amount int64) bool {
			s := state.New()
			s.Ownership["obj_1"] = types.UserId(owner)
			s.Balances["acc_1"] = types.NewBalance(amount, types.CurrencyUSD)

			h1, err1 := ledger.HashState(s)
			h2, err2 := ledger.HashState(s)
			return err1 == nil && err2 == nil && h1 == h2
		},
		gen.AlphaString(),
		gen.Int64Range(-1_000_000, 1_000_000),
	))

	properties.TestingRun(t)
}

// TestLedgerSequenceIsGapFree checks that recording N transitions always
// produces a contiguous 1..N sequence with an unbroken hash chain.
func TestLedgerSequenceIsGapFree(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("ledger sequence is gap-free and chained", prop.ForAll(
		func(n int) bool {
			n = n%20 + 1
			l := ledger.New()
			s := state.New()
			for i := 0; i < n; i++ {
				next := s.Clone()
				next.Ownership["obj_1"] = types.UserId(string(rune('a' + i%26)))
				_, err := l.Record(ledger.Transition{From: s, Action: ledger.Action{Kind: ledger.ActionGeneric}, To: next})
				if err != nil {
					return false
				}
				s = next
			}
			return l.Len() == n && l.VerifyIntegrity()
		},
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
