// Package ethrpc is the boundary layer: it owns the single-call adapter
// contract, the two dispatch policies (sequential-until-ok, parallel), and
// the per-method bindings that tie a JSON-RPC method name to a dispatch
// policy, a response-size estimate, and (where applicable) a
// internal/multicall reducer. The trust decisions themselves live in
// internal/multicall; this package only wires them to the network.
package ethrpc

// Chain IDs this client has an opinion about (spec §6, §4.10). Any other
// chain ID is accepted and treated like Mainnet for block-size estimation.
const (
	ChainIDMainnet  uint64 = 1
	ChainIDSepolia  uint64 = 11155111
	ChainIDArbitrum uint64 = 42161
	ChainIDBase     uint64 = 8453
	ChainIDOptimism uint64 = 10
)

// HeaderSize is the constant allowance every response-size estimate adds on
// top of its payload-specific guess (spec §4.2).
const HeaderSize = 512

// Log mirrors the eth_getLogs entry shape closely enough for
// ReduceWithEqualityFunc (via logsEqual) to compare two providers' answers
// structurally.
type Log struct {
	Address          string   `json:"address"`
	Topics           []string `json:"topics"`
	Data             string   `json:"data"`
	BlockNumber      string   `json:"blockNumber"`
	TransactionHash  string   `json:"transactionHash"`
	TransactionIndex string   `json:"transactionIndex"`
	BlockHash        string   `json:"blockHash"`
	LogIndex         string   `json:"logIndex"`
	Removed          bool     `json:"removed"`
}

// Block mirrors eth_getBlockByNumber (without full transaction objects;
// GetBlockByNumber always asks for transaction hashes only, matching the
// canonical evm-rpc-canister client this spec is grounded on).
type Block struct {
	Number           string   `json:"number"`
	Hash             string   `json:"hash"`
	ParentHash       string   `json:"parentHash"`
	Timestamp        string   `json:"timestamp"`
	Miner            string   `json:"miner"`
	GasUsed          string   `json:"gasUsed"`
	GasLimit         string   `json:"gasLimit"`
	BaseFeePerGas    string   `json:"baseFeePerGas,omitempty"`
	TransactionsRoot string   `json:"transactionsRoot"`
	Transactions     []string `json:"transactions"`
}

// Receipt mirrors eth_getTransactionReceipt.
type Receipt struct {
	TransactionHash   string `json:"transactionHash"`
	BlockHash         string `json:"blockHash"`
	BlockNumber       string `json:"blockNumber"`
	Status            string `json:"status"`
	GasUsed           string `json:"gasUsed"`
	EffectiveGasPrice string `json:"effectiveGasPrice"`
	ContractAddress   string `json:"contractAddress,omitempty"`
	Logs              []Log  `json:"logs"`
}

// FeeHistoryResult mirrors eth_feeHistory. OldestBlock is the pivot
// ReduceWithStrictMajorityByKey groups on.
type FeeHistoryResult struct {
	OldestBlock   string     `json:"oldestBlock"`
	BaseFeePerGas []string   `json:"baseFeePerGas"`
	GasUsedRatio  []float64  `json:"gasUsedRatio"`
	Reward        [][]string `json:"reward,omitempty"`
}

// feeHistoryEqual is the structural-equality comparison
// ReduceWithStrictMajorityByKey needs because FeeHistoryResult contains
// slices and is therefore not `comparable` in the Go generics sense.
func feeHistoryEqual(a, b FeeHistoryResult) bool {
	if a.OldestBlock != b.OldestBlock || len(a.BaseFeePerGas) != len(b.BaseFeePerGas) || len(a.GasUsedRatio) != len(b.GasUsedRatio) {
		return false
	}
	for i := range a.BaseFeePerGas {
		if a.BaseFeePerGas[i] != b.BaseFeePerGas[i] {
			return false
		}
	}
	for i := range a.GasUsedRatio {
		if a.GasUsedRatio[i] != b.GasUsedRatio[i] {
			return false
		}
	}
	if len(a.Reward) != len(b.Reward) {
		return false
	}
	for i := range a.Reward {
		if len(a.Reward[i]) != len(b.Reward[i]) {
			return false
		}
		for j := range a.Reward[i] {
			if a.Reward[i][j] != b.Reward[i][j] {
				return false
			}
		}
	}
	return true
}

// logEqual compares two Log entries field by field, including their Topics
// slices, since Log is not `comparable` in the Go generics sense.
func logEqual(a, b Log) bool {
	if a.Address != b.Address || a.Data != b.Data || a.BlockNumber != b.BlockNumber ||
		a.TransactionHash != b.TransactionHash || a.TransactionIndex != b.TransactionIndex ||
		a.BlockHash != b.BlockHash || a.LogIndex != b.LogIndex || a.Removed != b.Removed {
		return false
	}
	if len(a.Topics) != len(b.Topics) {
		return false
	}
	for i := range a.Topics {
		if a.Topics[i] != b.Topics[i] {
			return false
		}
	}
	return true
}

// logsEqual compares two eth_getLogs result sets in order.
func logsEqual(a, b []Log) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !logEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// blockEqual compares two Block values field by field.
func blockEqual(a, b Block) bool {
	if a.Number != b.Number || a.Hash != b.Hash || a.ParentHash != b.ParentHash ||
		a.Timestamp != b.Timestamp || a.Miner != b.Miner || a.GasUsed != b.GasUsed ||
		a.GasLimit != b.GasLimit || a.BaseFeePerGas != b.BaseFeePerGas || a.TransactionsRoot != b.TransactionsRoot {
		return false
	}
	if len(a.Transactions) != len(b.Transactions) {
		return false
	}
	for i := range a.Transactions {
		if a.Transactions[i] != b.Transactions[i] {
			return false
		}
	}
	return true
}

// receiptEqual compares two Receipt values field by field, including their
// Logs slices via logsEqual.
func receiptEqual(a, b Receipt) bool {
	if a.TransactionHash != b.TransactionHash || a.BlockHash != b.BlockHash || a.BlockNumber != b.BlockNumber ||
		a.Status != b.Status || a.GasUsed != b.GasUsed || a.EffectiveGasPrice != b.EffectiveGasPrice ||
		a.ContractAddress != b.ContractAddress {
		return false
	}
	return logsEqual(a.Logs, b.Logs)
}

// TransactionCount mirrors eth_getTransactionCount's single hex-encoded
// result.
type TransactionCount string

// SendRawTransactionResult mirrors eth_sendRawTransaction's result: the
// transaction hash the provider accepted.
type SendRawTransactionResult string

// BlockSpec is either a named tag ("latest", "pending", "earliest", "safe",
// "finalized") or a specific block number, matching the union
// eth_getBlockByNumber's first parameter accepts on the wire.
type BlockSpec struct {
	tag    string
	number *uint64
}

// BlockTag builds a BlockSpec from one of the named tags.
func BlockTag(tag string) BlockSpec {
	return BlockSpec{tag: tag}
}

// BlockNumber builds a BlockSpec pinned to a specific block number.
func BlockNumber(n uint64) BlockSpec {
	return BlockSpec{number: &n}
}

// String renders the BlockSpec the way eth_getBlockByNumber expects it on
// the wire: a named tag or a 0x-prefixed hex quantity. Exported so callers
// outside this package (internal/server's eth_getLogs filter construction)
// can embed a BlockSpec in a JSON-RPC parameter without reaching into
// package-private fields.
func (b BlockSpec) String() string {
	return b.wireValue()
}

// wireValue renders the BlockSpec the way eth_getBlockByNumber expects it:
// a named tag or a 0x-prefixed hex quantity.
func (b BlockSpec) wireValue() string {
	if b.number != nil {
		return hexUint64(*b.number)
	}
	if b.tag == "" {
		return "latest"
	}
	return b.tag
}

func hexUint64(n uint64) string {
	const hexDigits = "0123456789abcdef"
	if n == 0 {
		return "0x0"
	}
	buf := make([]byte, 0, 18)
	for n > 0 {
		buf = append([]byte{hexDigits[n%16]}, buf...)
		n /= 16
	}
	return "0x" + string(buf)
}
