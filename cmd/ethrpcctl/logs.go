package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	logsFromBlock string
	logsToBlock   string
	logsAddress   string
	logsTopics    string

	logsCmd = &cobra.Command{
		Use:   "logs",
		Short: "Fetch eth_getLogs and require unanimous agreement",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient()
			if err != nil {
				return err
			}
			filter := map[string]any{
				"fromBlock": orDefault(logsFromBlock, "earliest"),
				"toBlock":   orDefault(logsToBlock, "latest"),
			}
			if logsAddress != "" {
				filter["address"] = logsAddress
			}
			if logsTopics != "" {
				filter["topics"] = strings.Split(logsTopics, ",")
			}
			result, reduceErr := client.GetLogs(cmd.Context(), filter)
			if reduceErr != nil {
				return reportReduceErr(reduceErr)
			}
			fmt.Printf("%d log(s)\n", len(result))
			for _, l := range result {
				fmt.Printf("  block=%s tx=%s address=%s\n", l.BlockNumber, l.TransactionHash, l.Address)
			}
			return nil
		},
	}
)

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func init() {
	logsCmd.Flags().StringVar(&logsFromBlock, "from-block", "", "start block (tag or 0x-hex), default earliest")
	logsCmd.Flags().StringVar(&logsToBlock, "to-block", "", "end block (tag or 0x-hex), default latest")
	logsCmd.Flags().StringVar(&logsAddress, "address", "", "contract address filter")
	logsCmd.Flags().StringVar(&logsTopics, "topics", "", "comma-separated topic filter")
	rootCmd.AddCommand(logsCmd)
}
