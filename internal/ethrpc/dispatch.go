package ethrpc

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/you/eth-multirpc/internal/multicall"
	"github.com/you/eth-multirpc/internal/rpcerr"
)

// decodeFunc turns a raw JSON-RPC result into a typed value. Kept separate
// from Adapter.Call so the adapter stays generic over json.RawMessage and
// every per-method binding supplies its own decode step.
type decodeFunc[T any] func(json.RawMessage) (T, rpcerr.Error)

func decodeJSON[T any](raw json.RawMessage) (T, rpcerr.Error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, rpcerr.TransportError{Kind: rpcerr.Decode, Detail: err.Error()}
	}
	return v, nil
}

// sequentialCallUntilOK iterates providers in configured order, invoking the
// adapter for each. On success it short-circuits and returns immediately —
// later providers are never called. On failure it remembers only the last
// error and continues. If every provider fails, it returns the last
// remembered error (spec §4.8). Intended for non-safety-critical calls where
// a single acknowledgment suffices.
func sequentialCallUntilOK[T any](ctx context.Context, c *Client, method string, params any, sizeEstimate int, decode decodeFunc[T]) (T, rpcerr.Error) {
	var zero T
	var lastErr rpcerr.Error

	for _, p := range c.providers {
		raw, callErr := c.adapter.Call(ctx, p.id, p.url, method, params, sizeEstimate)
		if callErr != nil {
			log.Info("provider call failed", "provider", p.id, "method", method, "error", callErr)
			c.recordHealth(p.id, callErr)
			lastErr = callErr
			continue
		}
		value, decodeErr := decode(raw)
		if decodeErr != nil {
			c.recordHealth(p.id, decodeErr)
			lastErr = decodeErr
			continue
		}
		c.recordHealth(p.id, nil)
		return value, nil
	}
	return zero, lastErr
}

// parallelCall invokes the adapter against every provider concurrently,
// joins all outcomes (there is no early cancellation on first success — the
// reducer needs the full ballot), and returns a multicall.Results in
// provider order regardless of completion order (spec §4.9, §5).
func parallelCall[T any](ctx context.Context, c *Client, method string, params any, sizeEstimate int, decode decodeFunc[T]) multicall.Results[T] {
	outcomes := make([]multicall.Outcome[T], len(c.providers))

	group, gctx := errgroup.WithContext(ctx)
	for i, p := range c.providers {
		i, p := i, p
		group.Go(func() error {
			raw, callErr := c.adapter.Call(gctx, p.id, p.url, method, params, sizeEstimate)
			if callErr != nil {
				c.recordHealth(p.id, callErr)
				outcomes[i] = multicall.Failed[T](callErr)
				return nil // never cancel siblings: every outcome is recorded
			}
			value, decodeErr := decode(raw)
			if decodeErr != nil {
				c.recordHealth(p.id, decodeErr)
				outcomes[i] = multicall.Failed[T](decodeErr)
				return nil
			}
			c.recordHealth(p.id, nil)
			outcomes[i] = multicall.OK(value)
			return nil
		})
	}
	_ = group.Wait() // no goroutine ever returns a non-nil error; outcomes always populated

	pairs := make([]multicall.Pair[T], len(c.providers))
	for i, p := range c.providers {
		pairs[i] = multicall.Pair[T]{ID: p.id, Outcome: outcomes[i]}
	}
	return multicall.FromNonEmpty(pairs)
}
