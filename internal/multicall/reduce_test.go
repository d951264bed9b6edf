package multicall_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/you/eth-multirpc/internal/multicall"
	"github.com/you/eth-multirpc/internal/provider"
	"github.com/you/eth-multirpc/internal/rpcerr"
)

var providerA = provider.New("A")
var providerB = provider.New("B")
var providerC = provider.New("C")

func pairs[T any](vals map[provider.ID]multicall.Outcome[T]) []multicall.Pair[T] {
	out := make([]multicall.Pair[T], 0, len(vals))
	for id, outcome := range vals {
		out = append(out, multicall.Pair[T]{ID: id, Outcome: outcome})
	}
	return out
}

// S1: unanimous equality.
func TestReduceWithEqualityUnanimous(t *testing.T) {
	results := multicall.FromNonEmpty(pairs(map[provider.ID]multicall.Outcome[int]{
		providerA: multicall.OK(7),
		providerB: multicall.OK(7),
		providerC: multicall.OK(7),
	}))
	value, err := multicall.ReduceWithEquality(results)
	assert.Nil(t, err)
	assert.Equal(t, 7, value)
}

// S2: equality dissent. C agrees with the baseline (A) and is dropped from
// the residual; only the mismatching provider (B) and the baseline (A)
// survive.
func TestReduceWithEqualityDissent(t *testing.T) {
	results := multicall.FromNonEmpty(pairs(map[provider.ID]multicall.Outcome[int]{
		providerA: multicall.OK(7),
		providerB: multicall.OK(8),
		providerC: multicall.OK(7),
	}))
	_, err := multicall.ReduceWithEquality(results)
	assert.NotNil(t, err)
	residual, ok := err.AsInconsistent()
	assert.True(t, ok)
	entries := residual.Entries()
	assert.Len(t, entries, 2)
	assert.Equal(t, providerA, entries[0].ID)
	assert.Equal(t, 7, entries[0].Outcome.Value)
	assert.Equal(t, providerB, entries[1].ID)
	assert.Equal(t, 8, entries[1].Outcome.Value)
	for _, e := range entries {
		assert.True(t, e.Outcome.IsOK())
	}
}

// S3: consistent JSON-RPC error.
func TestAllOKConsistentJSONRPC(t *testing.T) {
	jsonRPCErr := rpcerr.JSONRPCError{Code: -32000, Message: "x"}
	results := multicall.FromNonEmpty(pairs(map[provider.ID]multicall.Outcome[int]{
		providerA: multicall.Failed[int](jsonRPCErr),
		providerB: multicall.Failed[int](jsonRPCErr),
		providerC: multicall.Failed[int](jsonRPCErr),
	}))
	_, err := multicall.AllOK(results)
	assert.NotNil(t, err)
	agreed, ok := err.AsConsistent()
	assert.True(t, ok)
	assert.Equal(t, jsonRPCErr, agreed)
}

// S4: consistent transport error, differing detail strings.
func TestAllOKConsistentTransport(t *testing.T) {
	results := multicall.FromNonEmpty(pairs(map[provider.ID]multicall.Outcome[int]{
		providerA: multicall.Failed[int](rpcerr.TransportError{Kind: rpcerr.Timeout, Detail: "a timed out"}),
		providerB: multicall.Failed[int](rpcerr.TransportError{Kind: rpcerr.Timeout, Detail: "b: deadline exceeded"}),
		providerC: multicall.Failed[int](rpcerr.TransportError{Kind: rpcerr.Timeout, Detail: "c: i/o timeout"}),
	}))
	_, err := multicall.AllOK(results)
	assert.NotNil(t, err)
	agreed, ok := err.AsConsistent()
	assert.True(t, ok)
	assert.Equal(t, rpcerr.Timeout, agreed.(rpcerr.TransportError).Kind)
}

type feeHistory struct {
	OldestBlock uint64
	BaseFee     []uint64
}

func feeHistoryEqual(a, b feeHistory) bool {
	if a.OldestBlock != b.OldestBlock || len(a.BaseFee) != len(b.BaseFee) {
		return false
	}
	for i := range a.BaseFee {
		if a.BaseFee[i] != b.BaseFee[i] {
			return false
		}
	}
	return true
}

// S5: majority 2-vs-1 by key.
func TestReduceWithStrictMajorityByKeyMajority(t *testing.T) {
	results := multicall.FromNonEmpty(pairs(map[provider.ID]multicall.Outcome[feeHistory]{
		providerA: multicall.OK(feeHistory{OldestBlock: 100, BaseFee: []uint64{1, 2}}),
		providerB: multicall.OK(feeHistory{OldestBlock: 100, BaseFee: []uint64{1, 2}}),
		providerC: multicall.OK(feeHistory{OldestBlock: 101, BaseFee: []uint64{3, 4}}),
	}))
	value, err := multicall.ReduceWithStrictMajorityByKey(results, func(f feeHistory) uint64 { return f.OldestBlock }, feeHistoryEqual)
	assert.Nil(t, err)
	assert.Equal(t, uint64(100), value.OldestBlock)
}

// S6: 2-vs-2 tie.
func TestReduceWithStrictMajorityByKeyTie(t *testing.T) {
	providerD := provider.New("D")
	results := multicall.FromNonEmpty(pairs(map[provider.ID]multicall.Outcome[feeHistory]{
		providerA: multicall.OK(feeHistory{OldestBlock: 100, BaseFee: []uint64{1}}),
		providerB: multicall.OK(feeHistory{OldestBlock: 100, BaseFee: []uint64{1}}),
		providerC: multicall.OK(feeHistory{OldestBlock: 101, BaseFee: []uint64{2}}),
		providerD: multicall.OK(feeHistory{OldestBlock: 101, BaseFee: []uint64{2}}),
	}))
	_, err := multicall.ReduceWithStrictMajorityByKey(results, func(f feeHistory) uint64 { return f.OldestBlock }, feeHistoryEqual)
	assert.NotNil(t, err)
	residual, ok := err.AsInconsistent()
	assert.True(t, ok)
	assert.Equal(t, 4, residual.Len())
}

// S7: same key, different payload -> keying is ambiguous, fails even
// without a second competing group.
func TestReduceWithStrictMajorityByKeySameKeyDifferentPayload(t *testing.T) {
	results := multicall.FromNonEmpty(pairs(map[provider.ID]multicall.Outcome[feeHistory]{
		providerA: multicall.OK(feeHistory{OldestBlock: 100, BaseFee: []uint64{1}}),
		providerB: multicall.OK(feeHistory{OldestBlock: 100, BaseFee: []uint64{2}}),
	}))
	_, err := multicall.ReduceWithStrictMajorityByKey(results, func(f feeHistory) uint64 { return f.OldestBlock }, feeHistoryEqual)
	assert.NotNil(t, err)
	_, ok := err.AsInconsistent()
	assert.True(t, ok)
}

func TestReduceWithStrictMajorityByKeySingleGroup(t *testing.T) {
	results := multicall.FromNonEmpty(pairs(map[provider.ID]multicall.Outcome[feeHistory]{
		providerA: multicall.OK(feeHistory{OldestBlock: 100, BaseFee: []uint64{1}}),
	}))
	value, err := multicall.ReduceWithStrictMajorityByKey(results, func(f feeHistory) uint64 { return f.OldestBlock }, feeHistoryEqual)
	assert.Nil(t, err)
	assert.Equal(t, uint64(100), value.OldestBlock)
}

// Mixed ok/err rejection (invariant 6).
func TestAllOKRejectsMixedOkAndError(t *testing.T) {
	results := multicall.FromNonEmpty(pairs(map[provider.ID]multicall.Outcome[int]{
		providerA: multicall.OK(7),
		providerB: multicall.Failed[int](rpcerr.TransportError{Kind: rpcerr.Timeout}),
	}))
	_, err := multicall.AllOK(results)
	assert.NotNil(t, err)
	_, ok := err.AsInconsistent()
	assert.True(t, ok)
}

// Equality totality (invariant 5): no errors and pairwise equal is
// necessary and sufficient for an ok reduction.
func TestReduceWithEqualityTotality(t *testing.T) {
	// any error at all, even a single one, fails equality.
	results := multicall.FromNonEmpty(pairs(map[provider.ID]multicall.Outcome[int]{
		providerA: multicall.OK(7),
		providerB: multicall.OK(7),
		providerC: multicall.Failed[int](rpcerr.TransportError{Kind: rpcerr.Timeout}),
	}))
	_, err := multicall.ReduceWithEquality(results)
	assert.NotNil(t, err)
}

// Determinism (invariant 2): same multiset of outcomes, different
// construction order, same result.
func TestReducersAreDeterministicAcrossConstructionOrder(t *testing.T) {
	order1 := multicall.FromNonEmpty([]multicall.Pair[int]{
		{ID: providerA, Outcome: multicall.OK(7)},
		{ID: providerB, Outcome: multicall.OK(7)},
		{ID: providerC, Outcome: multicall.OK(7)},
	})
	order2 := multicall.FromNonEmpty([]multicall.Pair[int]{
		{ID: providerC, Outcome: multicall.OK(7)},
		{ID: providerA, Outcome: multicall.OK(7)},
		{ID: providerB, Outcome: multicall.OK(7)},
	})
	v1, err1 := multicall.ReduceWithEquality(order1)
	v2, err2 := multicall.ReduceWithEquality(order2)
	assert.Nil(t, err1)
	assert.Nil(t, err2)
	assert.Equal(t, v1, v2)
}

func TestAllOKSingleProviderNoErrors(t *testing.T) {
	results := multicall.FromNonEmpty([]multicall.Pair[int]{{ID: providerA, Outcome: multicall.OK(42)}})
	oks, err := multicall.AllOK(results)
	assert.Nil(t, err)
	assert.Equal(t, 42, oks[providerA])
}
