// Package multicall holds the substrate every reducer operates on
// (Results[T]) and the terminal failure shape a reducer can return
// (Error[T]). It performs no I/O and makes no decisions about which
// dispatch policy produced its input — see internal/ethrpc for that.
package multicall

import (
	"fmt"
	"sort"

	"github.com/you/eth-multirpc/internal/provider"
	"github.com/you/eth-multirpc/internal/rpcerr"
)

// Outcome is either a decoded value or a taxonomized error for one provider.
type Outcome[T any] struct {
	Value T
	Err   rpcerr.Error
}

// OK wraps a successful per-provider response.
func OK[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Failed wraps a per-provider failure.
func Failed[T any](err rpcerr.Error) Outcome[T] {
	return Outcome[T]{Err: err}
}

// IsOK reports whether this outcome is a successful response.
func (o Outcome[T]) IsOK() bool {
	return o.Err == nil
}

// Pair is one (provider, outcome) entry, the unit Results is built from and
// iterated as.
type Pair[T any] struct {
	ID      provider.ID
	Outcome Outcome[T]
}

// Results is a non-empty ProviderId -> Outcome[T] mapping. The zero value is
// not valid; construct with FromNonEmpty.
type Results[T any] struct {
	entries map[provider.ID]Outcome[T]
}

// FromNonEmpty builds a Results from a non-empty slice of pairs. A duplicate
// ID is last-write-wins, which is harmless because callers in this codebase
// never produce duplicates. Calling this with zero pairs is a programmer
// error: MultiCallResults is non-empty at every observable moment, by
// construction, so an empty source is a bug in the caller, not a runtime
// condition to recover from.
func FromNonEmpty[T any](pairs []Pair[T]) Results[T] {
	if len(pairs) == 0 {
		panic("BUG: multicall.FromNonEmpty called with zero pairs")
	}
	entries := make(map[provider.ID]Outcome[T], len(pairs))
	for _, p := range pairs {
		entries[p.ID] = p.Outcome
	}
	return Results[T]{entries: entries}
}

// Len returns the number of distinct providers represented.
func (r Results[T]) Len() int {
	return len(r.entries)
}

// Entries returns every (provider, outcome) pair in ascending provider-ID
// order. Iteration order is always deterministic: two Results built from the
// same multiset of pairs, in any construction order, produce the same
// Entries() slice.
func (r Results[T]) Entries() []Pair[T] {
	out := make([]Pair[T], 0, len(r.entries))
	for id, outcome := range r.entries {
		out = append(out, Pair[T]{ID: id, Outcome: outcome})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Less(out[j].ID) })
	return out
}

// Error is the terminal reduction failure (spec: MultiCallError). Exactly one
// of its two forms holds: ConsistentErr (every provider failed with
// pairwise-consistent errors) or InconsistentErr (the residual evidence —
// exactly the outcomes that disagreed). Callers distinguish them with
// AsConsistent / AsInconsistent, never by inspecting fields directly.
type Error[T any] struct {
	consistent   rpcerr.Error
	inconsistent *Results[T]
}

// ConsistentErr builds the "every provider agreed on failure" verdict.
func ConsistentErr[T any](err rpcerr.Error) *Error[T] {
	return &Error[T]{consistent: err}
}

// InconsistentErr builds the "providers disagreed" verdict, carrying exactly
// the dissenting evidence.
func InconsistentErr[T any](residual Results[T]) *Error[T] {
	return &Error[T]{inconsistent: &residual}
}

// AsConsistent returns the agreed failure and true if this is a
// ConsistentErr.
func (e *Error[T]) AsConsistent() (rpcerr.Error, bool) {
	if e.consistent != nil {
		return e.consistent, true
	}
	return nil, false
}

// AsInconsistent returns the dissenting evidence and true if this is an
// InconsistentErr.
func (e *Error[T]) AsInconsistent() (Results[T], bool) {
	if e.inconsistent != nil {
		return *e.inconsistent, true
	}
	var zero Results[T]
	return zero, false
}

// Error implements the standard error interface so *Error[T] can be returned
// and wrapped like any other Go error.
func (e *Error[T]) Error() string {
	if e.consistent != nil {
		return fmt.Sprintf("all providers agree on error: %s", e.consistent)
	}
	return fmt.Sprintf("providers disagree: %d conflicting outcomes", e.inconsistent.Len())
}
