package main

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/you/eth-multirpc/config"
)

var receiptCmd = &cobra.Command{
	Use:   "receipt <tx-hash>",
	Short: "Fetch eth_getTransactionReceipt and require unanimous agreement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := buildClient()
		if err != nil {
			return err
		}
		receipt, reduceErr := client.GetTransactionReceipt(cmd.Context(), args[0])
		if reduceErr != nil {
			return reportReduceErr(reduceErr)
		}
		if receipt.TransactionHash == "" {
			return errors.New("transaction not found")
		}
		fmt.Printf("status=%s block=%s gasUsed=%s logs=%d fee=%s\n", receipt.Status, receipt.BlockNumber, receipt.GasUsed, len(receipt.Logs), feePaid(receipt.GasUsed, receipt.EffectiveGasPrice))
		return nil
	},
}

// feePaid multiplies gasUsed by effectiveGasPrice in big.Int arithmetic,
// since wei amounts routinely exceed what fits in a uint64. Falls back to
// "unknown" if either hex quantity fails to parse.
func feePaid(gasUsedHex, effectiveGasPriceHex string) string {
	gasUsed, ok := config.ParseHexBigInt(gasUsedHex)
	if !ok {
		return "unknown"
	}
	price, ok := config.ParseHexBigInt(effectiveGasPriceHex)
	if !ok {
		return "unknown"
	}
	return new(big.Int).Mul(gasUsed, price).String()
}

func init() {
	rootCmd.AddCommand(receiptCmd)
}
