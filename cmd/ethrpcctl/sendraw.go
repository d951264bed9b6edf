package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sendRawMulti bool

var sendRawCmd = &cobra.Command{
	Use:   "send-raw <raw-tx-hex>",
	Short: "Broadcast eth_sendRawTransaction",
	Long:  "By default dispatches sequentially and stops at the first provider that accepts the transaction. With --multi, dispatches to every provider and requires unanimous agreement on the returned hash.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := buildClient()
		if err != nil {
			return err
		}
		if sendRawMulti {
			hash, reduceErr := client.MultiSendRawTransaction(cmd.Context(), args[0])
			if reduceErr != nil {
				return reportReduceErr(reduceErr)
			}
			fmt.Println(string(hash))
			return nil
		}
		hash, rpcErr := client.SendRawTransaction(cmd.Context(), args[0])
		if rpcErr != nil {
			return rpcErr
		}
		fmt.Println(string(hash))
		return nil
	},
}

func init() {
	sendRawCmd.Flags().BoolVar(&sendRawMulti, "multi", false, "require unanimous provider agreement instead of stopping at the first success")
	rootCmd.AddCommand(sendRawCmd)
}
