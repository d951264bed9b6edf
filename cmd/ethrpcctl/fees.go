package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	feesBlockCount  uint64
	feesNewestBlock string
	feesPercentiles string

	feesCmd = &cobra.Command{
		Use:   "fees",
		Short: "Fetch eth_feeHistory and resolve disagreement by strict majority on OldestBlock",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient()
			if err != nil {
				return err
			}
			fees, reduceErr := client.FeeHistory(cmd.Context(), feesBlockCount, parseBlockSpec(feesNewestBlock), parsePercentiles(feesPercentiles))
			if reduceErr != nil {
				return reportReduceErr(reduceErr)
			}
			fmt.Printf("oldestBlock=%s baseFeePerGas=%v\n", fees.OldestBlock, fees.BaseFeePerGas)
			return nil
		},
	}
)

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

func init() {
	feesCmd.Flags().Uint64Var(&feesBlockCount, "block-count", 4, "number of blocks to include")
	feesCmd.Flags().StringVar(&feesNewestBlock, "newest-block", "latest", "newest block (tag or 0x-hex)")
	feesCmd.Flags().StringVar(&feesPercentiles, "percentiles", "25,75", "comma-separated reward percentiles")
	rootCmd.AddCommand(feesCmd)
}
