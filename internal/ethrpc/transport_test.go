package ethrpc

import (
	"errors"
	"testing"

	"github.com/you/eth-multirpc/internal/rpcerr"
)

type fakeTimeoutErr struct{ timeout bool }

func (f fakeTimeoutErr) Error() string { return "fake" }
func (f fakeTimeoutErr) Timeout() bool { return f.timeout }

func TestClassifyTransportErrorTimeout(t *testing.T) {
	err := classifyTransportError(fakeTimeoutErr{timeout: true})
	te, ok := err.(rpcerr.TransportError)
	if !ok || te.Kind != rpcerr.Timeout {
		t.Fatalf("expected Timeout, got %#v", err)
	}
}

func TestClassifyTransportErrorConnectionFailed(t *testing.T) {
	err := classifyTransportError(errors.New("connection refused"))
	te, ok := err.(rpcerr.TransportError)
	if !ok || te.Kind != rpcerr.ConnectionFailed {
		t.Fatalf("expected ConnectionFailed, got %#v", err)
	}
}

func TestClassifyTransportErrorNonTimeoutTimeouter(t *testing.T) {
	err := classifyTransportError(fakeTimeoutErr{timeout: false})
	te, ok := err.(rpcerr.TransportError)
	if !ok || te.Kind != rpcerr.ConnectionFailed {
		t.Fatalf("expected ConnectionFailed for non-timeout timeouter, got %#v", err)
	}
}
