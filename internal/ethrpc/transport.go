package ethrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"

	"github.com/you/eth-multirpc/internal/provider"
	"github.com/you/eth-multirpc/internal/rpcerr"
)

// Adapter is the single-call boundary contract (spec §4.2, §6): invoke one
// provider with one JSON-RPC method call and come back with either the raw
// JSON result payload or a taxonomized error. Implementations must be safe
// to call concurrently from the same logical query without shared mutable
// state — parallelCall invokes the same Adapter once per provider,
// concurrently, for every query.
type Adapter interface {
	Call(ctx context.Context, p provider.ID, url, method string, params any, sizeEstimate int) (json.RawMessage, rpcerr.Error)
}

type jsonRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type jsonRPCResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int64  `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// httpAdapter is the production Adapter: JSON-RPC 2.0 over HTTPS POST via
// resty, classifying every failure into the rpcerr taxonomy.
type httpAdapter struct {
	http *resty.Client
}

// newHTTPAdapter builds an Adapter with the given per-call timeout.
func newHTTPAdapter(timeout time.Duration) *httpAdapter {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("content-type", "application/json")
	return &httpAdapter{http: client}
}

func (a *httpAdapter) Call(ctx context.Context, p provider.ID, url, method string, params any, sizeEstimate int) (json.RawMessage, rpcerr.Error) {
	log.Debug("dispatching rpc call", "provider", p, "method", method)

	body := jsonRPCRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params}
	resp, err := a.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(url)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, rpcerr.TransportError{
			Kind:   rpcerr.HTTPStatus,
			Detail: fmt.Sprintf("%s: HTTP %d", p, resp.StatusCode()),
		}
	}
	if sizeEstimate > 0 && resp.Size() > int64(sizeEstimate) {
		return nil, rpcerr.TransportError{
			Kind:   rpcerr.ResponseTooLarge,
			Detail: fmt.Sprintf("%s: response %d bytes exceeds estimate %d", p, resp.Size(), sizeEstimate),
		}
	}

	var parsed jsonRPCResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, rpcerr.TransportError{Kind: rpcerr.Decode, Detail: fmt.Sprintf("%s: %v", p, err)}
	}
	if parsed.Error != nil {
		return nil, rpcerr.JSONRPCError{Code: parsed.Error.Code, Message: parsed.Error.Message}
	}
	if parsed.Result == nil {
		return nil, rpcerr.TransportError{Kind: rpcerr.Decode, Detail: fmt.Sprintf("%s: empty result", p)}
	}
	return parsed.Result, nil
}

func classifyTransportError(err error) rpcerr.Error {
	switch {
	case isTimeout(err):
		return rpcerr.TransportError{Kind: rpcerr.Timeout, Detail: err.Error()}
	default:
		return rpcerr.TransportError{Kind: rpcerr.ConnectionFailed, Detail: err.Error()}
	}
}

type timeouter interface {
	Timeout() bool
}

func isTimeout(err error) bool {
	t, ok := err.(timeouter)
	return ok && t.Timeout()
}
