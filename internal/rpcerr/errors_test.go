package rpcerr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/you/eth-multirpc/internal/rpcerr"
)

func TestConsistentReflexiveForEveryKind(t *testing.T) {
	errs := []rpcerr.Error{
		rpcerr.TransportError{Kind: rpcerr.Timeout, Detail: "dial tcp: i/o timeout"},
		rpcerr.JSONRPCError{Code: -32000, Message: "execution reverted"},
	}
	for _, e := range errs {
		assert.True(t, rpcerr.Consistent(e, e), "expected %v to be consistent with itself", e)
	}
}

func TestConsistentJSONRPCRequiresCodeAndMessage(t *testing.T) {
	a := rpcerr.JSONRPCError{Code: -32000, Message: "x"}
	b := rpcerr.JSONRPCError{Code: -32000, Message: "x"}
	c := rpcerr.JSONRPCError{Code: -32000, Message: "y"}
	d := rpcerr.JSONRPCError{Code: -32001, Message: "x"}

	assert.True(t, rpcerr.Consistent(a, b))
	assert.False(t, rpcerr.Consistent(a, c))
	assert.False(t, rpcerr.Consistent(a, d))
}

func TestConsistentTransportIgnoresDetail(t *testing.T) {
	a := rpcerr.TransportError{Kind: rpcerr.Timeout, Detail: "provider A timed out after 5s"}
	b := rpcerr.TransportError{Kind: rpcerr.Timeout, Detail: "provider B: context deadline exceeded"}
	c := rpcerr.TransportError{Kind: rpcerr.ConnectionFailed, Detail: "connection refused"}

	assert.True(t, rpcerr.Consistent(a, b))
	assert.False(t, rpcerr.Consistent(a, c))
}

func TestConsistentNeverCrossesTransportAndJSONRPC(t *testing.T) {
	transport := rpcerr.TransportError{Kind: rpcerr.Timeout}
	jsonRPC := rpcerr.JSONRPCError{Code: -32000, Message: "x"}

	assert.False(t, rpcerr.Consistent(transport, jsonRPC))
	assert.False(t, rpcerr.Consistent(jsonRPC, transport))
}

func TestEqualIsStructuralAndFinerThanConsistent(t *testing.T) {
	a := rpcerr.TransportError{Kind: rpcerr.Timeout, Detail: "x"}
	b := rpcerr.TransportError{Kind: rpcerr.Timeout, Detail: "y"}

	assert.True(t, rpcerr.Consistent(a, b))
	assert.False(t, rpcerr.Equal(a, b))
	assert.True(t, rpcerr.Equal(a, a))
}

func TestErrorStrings(t *testing.T) {
	assert.Contains(t, rpcerr.TransportError{Kind: rpcerr.Timeout}.Error(), "timeout")
	assert.Contains(t, rpcerr.JSONRPCError{Code: -32000, Message: "boom"}.Error(), "boom")
	assert.Contains(t, rpcerr.ProviderError{Kind: rpcerr.ProviderNotFound}.Error(), "provider_not_found")
}
