package main

import (
	"github.com/you/eth-multirpc/config"
	"github.com/you/eth-multirpc/internal/ethrpc"
)

// buildClient loads Settings and constructs an ethrpc.Client with the
// production HTTP adapter, the same way internal/server.Run does.
func buildClient() (*ethrpc.Client, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	client, rpcErr := ethrpc.NewClient(ethrpc.Config{
		Providers:            settings.Providers,
		ChainID:              settings.ChainID,
		ResponseSizeOverride: settings.ResponseSizeOverride,
		CallTimeout:          settings.CallTimeout,
	}, nil)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return client, nil
}
