// Command eth-multirpc is the HTTP server entrypoint.
//
// Flow: main() -> backend.Run() -> server.Run() (load config, build the
// ethrpc.Client, register HTTP routes, then block on ListenAndServe). All
// implementation lives under internal/; this file only delegates to
// backend.Run() and exits on error.
package main

import (
	"github.com/charmbracelet/log"

	backend "github.com/you/eth-multirpc/internal"
)

func main() {
	if err := backend.Run(); err != nil {
		log.Fatal(err)
	}
}
