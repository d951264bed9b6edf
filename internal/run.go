// Package backend is the root of the eth-multirpc backend.
//
// Flow: Run() is the single entry from cmd/eth-multirpc. It delegates to
// server.Run(), which (1) loads config.Settings (provider catalog, chain ID),
// (2) builds one ethrpc.Client, (3) registers all /api/* routes, (4) wraps
// with request-ID logging and CORS, then (5) blocks on http.ListenAndServe.
package backend

import "github.com/you/eth-multirpc/internal/server"

// Run starts the HTTP server and blocks until it exits.
func Run() error {
	return server.Run()
}
