package main

import (
	"fmt"

	"github.com/you/eth-multirpc/internal/multicall"
)

// reportReduceErr turns a multicall.Error[T] terminal verdict into an error
// naming the agreed failure, or listing the full dissenting ballot sorted by
// provider. Commands return it, so it reaches stderr and main exits non-zero.
func reportReduceErr[T any](err *multicall.Error[T]) error {
	if agreed, ok := err.AsConsistent(); ok {
		return fmt.Errorf("all providers agree on error: %s", agreed)
	}
	residual, _ := err.AsInconsistent()
	msg := fmt.Sprintf("providers disagree (%d outcomes):", residual.Len())
	for _, e := range residual.Entries() {
		if e.Outcome.IsOK() {
			msg += fmt.Sprintf("\n  %s: %+v", e.ID, e.Outcome.Value)
		} else {
			msg += fmt.Sprintf("\n  %s: error: %s", e.ID, e.Outcome.Err)
		}
	}
	return fmt.Errorf("%s", msg)
}
