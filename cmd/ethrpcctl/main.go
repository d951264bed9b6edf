// Command ethrpcctl is a thin CLI over internal/ethrpc.Client: one subcommand
// per bound operation. It is the CLI surface the core engine itself
// deliberately does not have — everything here is config.Load plus a call
// into ethrpc and a formatted report of either the agreed value or the
// terminal multicall.Error.
package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ethrpcctl",
	Short: "Query multiple Ethereum JSON-RPC providers and reduce their answers",
	Long:  "ethrpcctl dispatches one JSON-RPC call across every PROVIDER_URL_<LABEL> endpoint and reports either the reduced value or the disagreement.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
