package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var blockCmd = &cobra.Command{
	Use:   "block [tag-or-number]",
	Short: "Fetch eth_getBlockByNumber and require unanimous agreement",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag := "latest"
		if len(args) == 1 {
			tag = args[0]
		}
		client, err := buildClient()
		if err != nil {
			return err
		}
		block, reduceErr := client.GetBlockByNumber(cmd.Context(), parseBlockSpec(tag))
		if reduceErr != nil {
			return reportReduceErr(reduceErr)
		}
		fmt.Printf("number=%s hash=%s parent=%s txs=%d\n", block.Number, block.Hash, block.ParentHash, len(block.Transactions))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(blockCmd)
}
