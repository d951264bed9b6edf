// Package server provides the HTTP surface over internal/ethrpc's seven bound
// operations plus a health aggregate.
//
// Flow: Run() loads config.Settings, builds one ethrpc.Client, registers
// routes (below), wraps with request-ID logging and CORS, then
// ListenAndServe. Handlers parse query/path, call the client, and write JSON
// via writeOK/writeReduceErr/writeRPCErr. Every route except
// /api/health/live and /api/health/ready answers with the eduEnvelope shape
// (Data or Error, never both); those two write a plain-text body.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/you/eth-multirpc/config"
	"github.com/you/eth-multirpc/internal/clients/beacon"
	"github.com/you/eth-multirpc/internal/clients/relay"
	"github.com/you/eth-multirpc/internal/ethrpc"
	"github.com/you/eth-multirpc/internal/multicall"
	"github.com/you/eth-multirpc/internal/pkg"
	"github.com/you/eth-multirpc/internal/rpcerr"
)

// eduError and eduEnvelope wrap every API response so the frontend sees a
// consistent shape: either Data or Error, never both.
type eduError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

type eduEnvelope struct {
	Error *eduError `json:"error,omitempty"`
	Data  any       `json:"data,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, kind, message, hint string) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(eduEnvelope{Error: &eduError{Kind: kind, Message: message, Hint: hint}})
}

func writeOK(w http.ResponseWriter, payload any) {
	w.Header().Set("content-type", "application/json")
	_ = json.NewEncoder(w).Encode(eduEnvelope{Data: payload}) // ok to ignore Encode error; status already sent
}

// writeReduceErr reports a multicall.Error[T] terminal verdict: providers
// that agreed on failure get a 502 (the upstream itself is the problem);
// providers that disagreed get a 409 (the aggregation, not any one upstream,
// failed) carrying the dissenting ballot size as a hint.
func writeReduceErr[T any](w http.ResponseWriter, err *multicall.Error[T]) {
	if agreed, ok := err.AsConsistent(); ok {
		writeErr(w, http.StatusBadGateway, "PROVIDERS_AGREE_ERROR", agreed.Error(), "")
		return
	}
	residual, _ := err.AsInconsistent()
	writeErr(w, http.StatusConflict, "PROVIDERS_DISAGREE", err.Error(), strconv.Itoa(residual.Len())+" conflicting outcomes")
}

func writeRPCErr(w http.ResponseWriter, err rpcerr.Error) {
	if pe, ok := err.(rpcerr.ProviderError); ok && pe.Kind == rpcerr.ProviderNotFound {
		writeErr(w, http.StatusServiceUnavailable, "NO_PROVIDERS", err.Error(), "no providers are configured")
		return
	}
	writeErr(w, http.StatusBadGateway, "RPC_ERROR", err.Error(), "")
}

// parseBlockSpec turns a path/query block identifier into an ethrpc.BlockSpec:
// a 0x-prefixed value is a specific block number, anything else (including
// "", which defaults to "latest") is a named tag.
func parseBlockSpec(s string) ethrpc.BlockSpec {
	if s == "" {
		return ethrpc.BlockTag("latest")
	}
	if strings.HasPrefix(s, "0x") {
		if n, err := config.ParseHexUint64(s); err == nil {
			return ethrpc.BlockNumber(n)
		}
	}
	return ethrpc.BlockTag(s)
}

// parsePercentiles parses a comma-separated list of floats, defaulting to
// [25, 75] on any parse failure or empty input.
func parsePercentiles(s string) []float64 {
	if s == "" {
		return []float64{25, 75}
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return []float64{25, 75}
		}
		out = append(out, n)
	}
	return out
}

type rawTxRequest struct {
	RawTx string `json:"rawTx"`
}

func readRawTx(r *http.Request) (string, bool) {
	var body rawTxRequest
	if json.NewDecoder(r.Body).Decode(&body) != nil || body.RawTx == "" {
		return "", false
	}
	return body.RawTx, true
}

// api bundles the ethrpc.Client every handler uses; the handlers are methods
// on *api, registered on the mux as method values (a.handleLogs, ...).
type api struct {
	client *ethrpc.Client
}

func (a *api) handleLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := map[string]any{
		"fromBlock": parseBlockSpec(q.Get("fromBlock")).String(),
		"toBlock":   parseBlockSpec(q.Get("toBlock")).String(),
	}
	if addr := q.Get("address"); addr != "" {
		filter["address"] = addr
	}
	if topics := q.Get("topics"); topics != "" {
		filter["topics"] = strings.Split(topics, ",")
	}
	logs, err := a.client.GetLogs(r.Context(), filter)
	if err != nil {
		writeReduceErr(w, err)
		return
	}
	writeOK(w, logs)
}

func (a *api) handleBlock(w http.ResponseWriter, r *http.Request) {
	tag := strings.TrimPrefix(r.URL.Path, "/api/block/")
	block, err := a.client.GetBlockByNumber(r.Context(), parseBlockSpec(tag))
	if err != nil {
		writeReduceErr(w, err)
		return
	}
	writeOK(w, block)
}

func (a *api) handleReceipt(w http.ResponseWriter, r *http.Request) {
	txHash := strings.TrimPrefix(r.URL.Path, "/api/receipt/")
	if txHash == "" {
		writeErr(w, http.StatusBadRequest, "BAD_REQUEST", "missing transaction hash", "invoke /api/receipt/{hash}")
		return
	}
	receipt, err := a.client.GetTransactionReceipt(r.Context(), txHash)
	if err != nil {
		writeReduceErr(w, err)
		return
	}
	writeOK(w, receipt)
}

func (a *api) handleFees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	blockCount := uint64(4)
	if s := q.Get("blockCount"); s != "" {
		if n, err := strconv.ParseUint(s, 10, 64); err == nil && n > 0 {
			blockCount = n
		}
	}
	fees, err := a.client.FeeHistory(r.Context(), blockCount, parseBlockSpec(q.Get("newestBlock")), parsePercentiles(q.Get("percentiles")))
	if err != nil {
		writeReduceErr(w, err)
		return
	}
	writeOK(w, fees)
}

func (a *api) handleSendRaw(w http.ResponseWriter, r *http.Request) {
	rawTx, ok := readRawTx(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "BAD_REQUEST", "missing rawTx", `body must be {"rawTx": "0x..."}`)
		return
	}
	hash, err := a.client.SendRawTransaction(r.Context(), rawTx)
	if err != nil {
		writeRPCErr(w, err)
		return
	}
	writeOK(w, map[string]string{"transactionHash": string(hash)})
}

func (a *api) handleSendRawMulti(w http.ResponseWriter, r *http.Request) {
	rawTx, ok := readRawTx(r)
	if !ok {
		writeErr(w, http.StatusBadRequest, "BAD_REQUEST", "missing rawTx", `body must be {"rawTx": "0x..."}`)
		return
	}
	hash, err := a.client.MultiSendRawTransaction(r.Context(), rawTx)
	if err != nil {
		writeReduceErr(w, err)
		return
	}
	writeOK(w, map[string]string{"transactionHash": string(hash)})
}

func (a *api) handleNonce(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimPrefix(r.URL.Path, "/api/nonce/")
	if address == "" {
		writeErr(w, http.StatusBadRequest, "BAD_REQUEST", "missing address", "invoke /api/nonce/{address}")
		return
	}
	results := a.client.GetTransactionCount(r.Context(), address, parseBlockSpec(r.URL.Query().Get("block")))
	entries := results.Entries()
	byProvider := make(map[string]any, len(entries))
	for _, e := range entries {
		if e.Outcome.IsOK() {
			byProvider[e.ID.String()] = e.Outcome.Value
		} else {
			byProvider[e.ID.String()] = map[string]string{"error": e.Outcome.Err.Error()}
		}
	}
	writeOK(w, byProvider)
}

func (a *api) handleHealth(w http.ResponseWriter, r *http.Request) {
	statuses := append(a.client.Health(), beacon.CheckHealth(), relay.CheckHealth())
	writeOK(w, pkg.BuildOverall(statuses))
}

func (a *api) handleHealthLiveness(w http.ResponseWriter, r *http.Request) {
	pkg.WriteLiveness(w, r)
}

func (a *api) handleHealthReadiness(w http.ResponseWriter, r *http.Request) {
	anyProviderHealthy := false
	for _, s := range a.client.Health() {
		if s.Healthy {
			anyProviderHealthy = true
			break
		}
	}
	if anyProviderHealthy && beacon.CheckHealth().Healthy {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	w.Write([]byte("NOT_READY"))
}

// corsMiddleware sets CORS headers and handles OPTIONS. Single origin from env so
// the frontend (e.g. localhost:3000) can call the backend (e.g. :8080).
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := config.EnvOr("GOAPI_ORIGIN", "http://localhost:3000")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogMiddleware mints a correlation ID per request and logs method,
// path, and ID at request start, so a provider-disagreement incident can be
// traced back to the request that surfaced it.
func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		log.Info("request", "id", requestID, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and blocks. Load config, build the ethrpc
// client, register routes, apply logging and CORS middleware, then
// ListenAndServe.
func Run() error {
	config.LoadEnvFile(".env.local")

	settings, err := config.Load()
	if err != nil {
		return err
	}
	client, rpcErr := ethrpc.NewClient(ethrpc.Config{
		Providers:            settings.Providers,
		ChainID:              settings.ChainID,
		ResponseSizeOverride: settings.ResponseSizeOverride,
		CallTimeout:          settings.CallTimeout,
	}, nil)
	if rpcErr != nil {
		return rpcErr
	}
	a := &api{client: client}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/logs", a.handleLogs)
	mux.HandleFunc("/api/block/", a.handleBlock)
	mux.HandleFunc("/api/receipt/", a.handleReceipt)
	mux.HandleFunc("/api/fees", a.handleFees)
	mux.HandleFunc("/api/send-raw", a.handleSendRaw)
	mux.HandleFunc("/api/send-raw/multi", a.handleSendRawMulti)
	mux.HandleFunc("/api/nonce/", a.handleNonce)
	mux.HandleFunc("/api/health", a.handleHealth)
	mux.HandleFunc("/api/health/live", a.handleHealthLiveness)
	mux.HandleFunc("/api/health/ready", a.handleHealthReadiness)

	addr := config.EnvOr("GOAPI_ADDR", ":"+config.EnvOr("PORT", "8080"))
	log.Info("server listening", "addr", addr, "chainID", settings.ChainID, "providers", len(settings.Providers))
	return http.ListenAndServe(addr, requestLogMiddleware(corsMiddleware(mux)))
}
