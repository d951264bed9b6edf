package ethrpc

import (
	"context"
	"sync"
	"time"

	"github.com/you/eth-multirpc/internal/multicall"
	"github.com/you/eth-multirpc/internal/pkg"
	"github.com/you/eth-multirpc/internal/provider"
	"github.com/you/eth-multirpc/internal/rpcerr"
)

// Endpoint pairs an opaque provider identity with the URL the adapter should
// actually dial. The core only ever sees and orders the ID; the URL is
// transport plumbing.
type Endpoint struct {
	ID  provider.ID
	URL string
}

type providerEndpoint struct {
	id  provider.ID
	url string
}

// Config is the immutable configuration a Client is built from (spec §3,
// §6): a non-empty provider list, a chain identifier, and an optional
// response-size-estimate override that replaces every per-method estimate
// when set.
type Config struct {
	Providers             []Endpoint
	ChainID               uint64
	ResponseSizeOverride  int // 0 means "no override"
	CallTimeout           time.Duration
}

// Client is built once from a Config and an Adapter; its providers, chain and
// size settings never change afterwards. The only state that changes across
// calls is the per-provider health record (see health.go), guarded by
// healthMu. Every per-query working set (the parallel fan-out slice, the
// multicall.Results it builds) is local to one call.
type Client struct {
	providers    []providerEndpoint
	chainID      uint64
	sizeOverride int
	adapter      Adapter
	health       map[provider.ID]*pkg.BaseDataSource
	healthMu     sync.Mutex
}

// NewClient validates the provider list and builds a Client. An empty
// provider list is a configuration error, surfaced eagerly here — it never
// reaches a reducer (spec §6, §7).
func NewClient(cfg Config, adapter Adapter) (*Client, rpcerr.Error) {
	if len(cfg.Providers) == 0 {
		return nil, rpcerr.ProviderError{Kind: rpcerr.ProviderNotFound}
	}
	providers := make([]providerEndpoint, len(cfg.Providers))
	for i, e := range cfg.Providers {
		providers[i] = providerEndpoint{id: e.ID, url: e.URL}
	}
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if adapter == nil {
		adapter = newHTTPAdapter(timeout)
	}
	return &Client{
		providers:    providers,
		chainID:      cfg.ChainID,
		sizeOverride: cfg.ResponseSizeOverride,
		adapter:      adapter,
		health:       newHealthRegistry(providers),
	}, nil
}

// sizeEstimate applies the configured override, if any, otherwise the
// per-method default passed in by the caller.
func (c *Client) sizeEstimate(methodDefault int) int {
	if c.sizeOverride > 0 {
		return c.sizeOverride
	}
	return methodDefault
}

// blockSizeEstimate depends only on chain: Sepolia gets a smaller budget,
// everything else (including unrecognized chains) defaults to the mainnet
// figure (spec §4.10 and its open question on unknown-chain defaults).
func (c *Client) blockSizeEstimate() int {
	if c.chainID == ChainIDSepolia {
		return 12*1024 + HeaderSize
	}
	return 24*1024 + HeaderSize
}

// GetLogs fans eth_getLogs out to every provider in parallel and requires
// unanimous agreement (spec §4.10 row 1).
func (c *Client) GetLogs(ctx context.Context, filter any) ([]Log, *multicall.Error[[]Log]) {
	results := parallelCall(ctx, c, "eth_getLogs", []any{filter}, c.sizeEstimate(1024+HeaderSize), decodeJSON[[]Log])
	return multicall.ReduceWithEqualityFunc(results, logsEqual)
}

// GetBlockByNumber fans eth_getBlockByNumber out to every provider in
// parallel and requires unanimous agreement (spec §4.10 row 2).
func (c *Client) GetBlockByNumber(ctx context.Context, block BlockSpec) (Block, *multicall.Error[Block]) {
	params := []any{block.wireValue(), false}
	results := parallelCall(ctx, c, "eth_getBlockByNumber", params, c.sizeEstimate(c.blockSizeEstimate()), decodeJSON[Block])
	return multicall.ReduceWithEqualityFunc(results, blockEqual)
}

// GetTransactionReceipt fans eth_getTransactionReceipt out to every provider
// in parallel and requires unanimous agreement (spec §4.10 row 3).
func (c *Client) GetTransactionReceipt(ctx context.Context, txHash string) (Receipt, *multicall.Error[Receipt]) {
	results := parallelCall(ctx, c, "eth_getTransactionReceipt", []any{txHash}, c.sizeEstimate(700+HeaderSize), decodeJSON[Receipt])
	return multicall.ReduceWithEqualityFunc(results, receiptEqual)
}

// FeeHistory fans eth_feeHistory out to every provider in parallel and
// resolves disagreement with a strict majority keyed on OldestBlock (spec
// §4.10 row 4, §4.7): identical projections imply the rest should match,
// differing projections are a ballot.
func (c *Client) FeeHistory(ctx context.Context, blockCount uint64, newestBlock BlockSpec, rewardPercentiles []float64) (FeeHistoryResult, *multicall.Error[FeeHistoryResult]) {
	params := []any{hexUint64(blockCount), newestBlock.wireValue(), rewardPercentiles}
	results := parallelCall(ctx, c, "eth_feeHistory", params, c.sizeEstimate(512+HeaderSize), decodeJSON[FeeHistoryResult])
	return multicall.ReduceWithStrictMajorityByKey(results, func(f FeeHistoryResult) string { return f.OldestBlock }, feeHistoryEqual)
}

// SendRawTransaction dispatches eth_sendRawTransaction sequentially until one
// provider accepts it (spec §4.10 row 5, §4.8). The transaction is idempotent
// at the protocol level, so one acknowledgment is enough; non-safety-critical.
func (c *Client) SendRawTransaction(ctx context.Context, rawTxHex string) (SendRawTransactionResult, rpcerr.Error) {
	return sequentialCallUntilOK(ctx, c, "eth_sendRawTransaction", []any{rawTxHex}, c.sizeEstimate(256+HeaderSize), decodeJSON[SendRawTransactionResult])
}

// MultiSendRawTransaction dispatches eth_sendRawTransaction to every provider
// in parallel and requires unanimous agreement that the same transaction
// hash was accepted (spec §4.10 row 6).
func (c *Client) MultiSendRawTransaction(ctx context.Context, rawTxHex string) (SendRawTransactionResult, *multicall.Error[SendRawTransactionResult]) {
	results := parallelCall(ctx, c, "eth_sendRawTransaction", []any{rawTxHex}, c.sizeEstimate(256+HeaderSize), decodeJSON[SendRawTransactionResult])
	return multicall.ReduceWithEquality(results)
}

// GetTransactionCount fans eth_getTransactionCount out to every provider in
// parallel and returns the raw ballot unreduced (spec §4.10 row 7) — callers
// decide for themselves how to interpret disagreement on a nonce.
func (c *Client) GetTransactionCount(ctx context.Context, address string, block BlockSpec) multicall.Results[TransactionCount] {
	params := []any{address, block.wireValue()}
	return parallelCall(ctx, c, "eth_getTransactionCount", params, c.sizeEstimate(50+HeaderSize), decodeJSON[TransactionCount])
}

// DefaultProviders returns a convenience three-provider placeholder pool per
// chain family, mirroring the shape (three providers per family) of the
// default provider catalogs this client's provider list is normally supplied
// from outside the core (spec §6). Callers are free to ignore this and pass
// their own catalog; the core never depends on it.
func DefaultProviders(chainID uint64) []provider.ID {
	family := "mainnet"
	switch chainID {
	case ChainIDSepolia:
		family = "sepolia"
	case ChainIDArbitrum:
		family = "arbitrum"
	case ChainIDBase:
		family = "base"
	case ChainIDOptimism:
		family = "optimism"
	}
	return []provider.ID{
		provider.New(family + "-1"),
		provider.New(family + "-2"),
		provider.New(family + "-3"),
	}
}
