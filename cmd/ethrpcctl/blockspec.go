package main

import (
	"strings"

	"github.com/you/eth-multirpc/config"
	"github.com/you/eth-multirpc/internal/ethrpc"
)

// parseBlockSpec mirrors internal/server's flag parsing: a 0x-prefixed value
// is a specific block number, anything else (including "") is a named tag
// defaulting to "latest".
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
