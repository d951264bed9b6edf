package multicall

import (
	"cmp"
	"sort"

	"github.com/you/eth-multirpc/internal/provider"
	"github.com/you/eth-multirpc/internal/rpcerr"
)

// AllOK partitions results into oks and errors and applies the baseline
// consistency check every reducer builds on:
//
//   - no errors at all -> every value, keyed by provider (never empty).
//   - no oks, and every error is consistent (rpcerr.Consistent) with the
//     first error seen in provider order -> ConsistentErr(first error).
//   - otherwise (at least one ok alongside at least one error, or two
//     mutually inconsistent errors) -> InconsistentErr(results, unchanged).
//
// A surviving good response alongside failures is itself evidence of
// disagreement: the caller must not trust the lone good value, since it may
// be the minority voice.
func AllOK[T any](results Results[T]) (map[provider.ID]T, *Error[T]) {
	entries := results.Entries()

	oks := make(map[provider.ID]T, len(entries))
	var firstErr rpcerr.Error
	allConsistent := true
	for _, e := range entries {
		if e.Outcome.IsOK() {
			oks[e.ID] = e.Outcome.Value
			continue
		}
		if firstErr == nil {
			firstErr = e.Outcome.Err
		} else if !rpcerr.Consistent(firstErr, e.Outcome.Err) {
			allConsistent = false
		}
	}

	if firstErr == nil {
		return oks, nil
	}
	if len(oks) == 0 && allConsistent {
		return nil, ConsistentErr[T](firstErr)
	}
	return nil, InconsistentErr[T](results)
}

// ReduceWithEquality requires unanimous agreement: all ok values must be
// pairwise equal (via ==), and there must be no errors at all. It is used for
// anything where dissent is itself a safety failure and T has no slice or map
// fields (transaction counts, hashes, simple scalars).
func ReduceWithEquality[T comparable](results Results[T]) (T, *Error[T]) {
	return reduceWithEquality(results, func(a, b T) bool { return a == b })
}

// ReduceWithEqualityFunc is ReduceWithEquality for types that cannot satisfy
// the comparable constraint — anything carrying a slice, such as a log list
// or a block's transaction hashes — with equality supplied explicitly.
func ReduceWithEqualityFunc[T any](results Results[T], eq func(a, b T) bool) (T, *Error[T]) {
	return reduceWithEquality(results, eq)
}

func reduceWithEquality[T any](results Results[T], eq func(a, b T) bool) (T, *Error[T]) {
	var zero T

	oks, reduceErr := AllOK(results)
	if reduceErr != nil {
		return zero, reduceErr
	}

	entries := results.Entries() // same providers as oks, ascending order
	base := entries[0]
	baseValue := oks[base.ID]

	var mismatches []Pair[T]
	for _, e := range entries[1:] {
		if v := oks[e.ID]; !eq(v, baseValue) {
			mismatches = append(mismatches, Pair[T]{ID: e.ID, Outcome: OK(v)})
		}
	}
	if len(mismatches) == 0 {
		return baseValue, nil
	}
	mismatches = append(mismatches, Pair[T]{ID: base.ID, Outcome: OK(baseValue)})
	return zero, InconsistentErr[T](FromNonEmpty(mismatches))
}

// ReduceWithStrictMajorityByKey groups ok values by a pure projection key,
// requires every value within a group to be equal (per eq), then returns the
// value of the single group whose size strictly exceeds every other group's
// size. Plurality is not enough: a 2-vs-2 split is a failure, 3-vs-2 passes.
//
// Used for values that legitimately differ across providers while sharing a
// stable pivot (e.g. fee history anchored to oldest_block): identical
// projections imply the rest should match; differing projections are a
// ballot. T cannot be constrained to comparable here (fee-history payloads
// carry slices), so equality is supplied explicitly.
func ReduceWithStrictMajorityByKey[T any, K cmp.Ordered](results Results[T], key func(T) K, eq func(a, b T) bool) (T, *Error[T]) {
	var zero T

	oks, reduceErr := AllOK(results)
	if reduceErr != nil {
		return zero, reduceErr
	}

	type group struct {
		key     K
		members []Pair[T]
	}
	index := make(map[K]int)
	var groups []group

	for _, e := range results.Entries() {
		v, ok := oks[e.ID]
		if !ok {
			continue // e was a filtered-out error entry; AllOK already vetted this path succeeds only with oks == all entries
		}
		k := key(v)
		idx, exists := index[k]
		if !exists {
			index[k] = len(groups)
			groups = append(groups, group{key: k, members: []Pair[T]{{ID: e.ID, Outcome: OK(v)}}})
			continue
		}
		g := &groups[idx]
		if !eq(g.members[0].Outcome.Value, v) {
			merged := append(append([]Pair[T]{}, g.members...), Pair[T]{ID: e.ID, Outcome: OK(v)})
			return zero, InconsistentErr[T](FromNonEmpty(merged))
		}
		g.members = append(g.members, Pair[T]{ID: e.ID, Outcome: OK(v)})
	}

	// groups is non-empty: oks is non-empty whenever AllOK returns a nil error.
	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i].members) != len(groups[j].members) {
			return len(groups[i].members) < len(groups[j].members)
		}
		return groups[i].key < groups[j].key
	})

	if len(groups) == 1 {
		return groups[0].members[0].Outcome.Value, nil
	}

	top := groups[len(groups)-1]
	runnerUp := groups[len(groups)-2]
	if len(top.members) > len(runnerUp.members) {
		return top.members[0].Outcome.Value, nil
	}
	merged := append(append([]Pair[T]{}, top.members...), runnerUp.members...)
	return zero, InconsistentErr[T](FromNonEmpty(merged))
}
