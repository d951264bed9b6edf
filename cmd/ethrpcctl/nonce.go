package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var nonceBlock string

var nonceCmd = &cobra.Command{
	Use:   "nonce <address>",
	Short: "Fetch eth_getTransactionCount from every provider and print the raw ballot",
	Long:  "A nonce disagreement across providers is the caller's decision to make, not this client's, so the count is never reduced to a single value.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := buildClient()
		if err != nil {
			return err
		}
		results := client.GetTransactionCount(cmd.Context(), args[0], parseBlockSpec(nonceBlock))
		for _, e := range results.Entries() {
			if e.Outcome.IsOK() {
				fmt.Printf("%s: %s\n", e.ID, e.Outcome.Value)
			} else {
				fmt.Printf("%s: error: %s\n", e.ID, e.Outcome.Err)
			}
		}
		return nil
	},
}

func init() {
	nonceCmd.Flags().StringVar(&nonceBlock, "block", "latest", "block (tag or 0x-hex)")
	rootCmd.AddCommand(nonceCmd)
}
