package multicall_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/you/eth-multirpc/internal/multicall"
	"github.com/you/eth-multirpc/internal/provider"
	"github.com/you/eth-multirpc/internal/rpcerr"
)

func TestFromNonEmptyPanicsOnEmptyInput(t *testing.T) {
	assert.Panics(t, func() {
		multicall.FromNonEmpty([]multicall.Pair[int]{})
	})
}

func TestEntriesAreAscendingByProviderID(t *testing.T) {
	a, b, c := provider.New("A"), provider.New("B"), provider.New("C")
	results := multicall.FromNonEmpty([]multicall.Pair[int]{
		{ID: c, Outcome: multicall.OK(3)},
		{ID: a, Outcome: multicall.OK(1)},
		{ID: b, Outcome: multicall.OK(2)},
	})

	entries := results.Entries()
	assert.Equal(t, []provider.ID{a, b, c}, []provider.ID{entries[0].ID, entries[1].ID, entries[2].ID})
	assert.Equal(t, 3, results.Len())
}

func TestDuplicateProviderIDIsLastWriteWins(t *testing.T) {
	a := provider.New("A")
	results := multicall.FromNonEmpty([]multicall.Pair[int]{
		{ID: a, Outcome: multicall.OK(1)},
		{ID: a, Outcome: multicall.OK(2)},
	})
	assert.Equal(t, 1, results.Len())
	assert.Equal(t, 2, results.Entries()[0].Outcome.Value)
}

func TestErrorAccessorsAreMutuallyExclusive(t *testing.T) {
	consistentErr := multicall.ConsistentErr[int](rpcerr.JSONRPCError{Code: -32000, Message: "x"})
	_, isConsistent := consistentErr.AsConsistent()
	_, isInconsistent := consistentErr.AsInconsistent()
	assert.True(t, isConsistent)
	assert.False(t, isInconsistent)

	a := provider.New("A")
	residual := multicall.FromNonEmpty([]multicall.Pair[int]{{ID: a, Outcome: multicall.OK(1)}})
	inconsistentErr := multicall.InconsistentErr[int](residual)
	_, isConsistent = inconsistentErr.AsConsistent()
	_, isInconsistent = inconsistentErr.AsInconsistent()
	assert.False(t, isConsistent)
	assert.True(t, isInconsistent)
}
