package ethrpc

import "testing"

func TestBlockSpecWireValue(t *testing.T) {
	cases := []struct {
		spec BlockSpec
		want string
	}{
		{BlockTag("latest"), "latest"},
		{BlockTag(""), "latest"},
		{BlockTag("finalized"), "finalized"},
		{BlockNumber(0), "0x0"},
		{BlockNumber(255), "0xff"},
		{BlockNumber(16), "0x10"},
	}
	for _, c := range cases {
		if got := c.spec.wireValue(); got != c.want {
			t.Errorf("wireValue() = %q, want %q", got, c.want)
		}
	}
}

func TestFeeHistoryEqual(t *testing.T) {
	a := FeeHistoryResult{OldestBlock: "0x1", BaseFeePerGas: []string{"0xa", "0xb"}, GasUsedRatio: []float64{0.5}}
	b := FeeHistoryResult{OldestBlock: "0x1", BaseFeePerGas: []string{"0xa", "0xb"}, GasUsedRatio: []float64{0.5}}
	c := FeeHistoryResult{OldestBlock: "0x1", BaseFeePerGas: []string{"0xa", "0xc"}, GasUsedRatio: []float64{0.5}}
	if !feeHistoryEqual(a, b) {
		t.Error("expected equal fee histories to compare equal")
	}
	if feeHistoryEqual(a, c) {
		t.Error("expected differing base fees to compare unequal")
	}
}

func TestLogsEqualOrderSensitive(t *testing.T) {
	l1 := []Log{{Address: "0x1", Topics: []string{"a"}}, {Address: "0x2"}}
	l2 := []Log{{Address: "0x1", Topics: []string{"a"}}, {Address: "0x2"}}
	l3 := []Log{{Address: "0x2"}, {Address: "0x1", Topics: []string{"a"}}}
	if !logsEqual(l1, l2) {
		t.Error("expected identical log slices to compare equal")
	}
	if logsEqual(l1, l3) {
		t.Error("expected reordered log slices to compare unequal")
	}
}

func TestBlockEqual(t *testing.T) {
	a := Block{Number: "0x1", Transactions: []string{"0xa", "0xb"}}
	b := Block{Number: "0x1", Transactions: []string{"0xa", "0xb"}}
	c := Block{Number: "0x1", Transactions: []string{"0xa"}}
	if !blockEqual(a, b) {
		t.Error("expected identical blocks to compare equal")
	}
	if blockEqual(a, c) {
		t.Error("expected blocks with differing transaction lists to compare unequal")
	}
}

func TestReceiptEqual(t *testing.T) {
	a := Receipt{TransactionHash: "0x1", Logs: []Log{{Address: "0xa"}}}
	b := Receipt{TransactionHash: "0x1", Logs: []Log{{Address: "0xa"}}}
	c := Receipt{TransactionHash: "0x1", Logs: []Log{{Address: "0xb"}}}
	if !receiptEqual(a, b) {
		t.Error("expected identical receipts to compare equal")
	}
	if receiptEqual(a, c) {
		t.Error("expected receipts with differing logs to compare unequal")
	}
}
