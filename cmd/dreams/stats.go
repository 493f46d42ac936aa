package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate statistics over the journal",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		return printJSON(cmd.OutOrStdout(), a.svc.Statistics(cmd.Context()))
	}),
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Temporal patterns: active weekday and hour, sleep/clarity correlation, emotion evolution",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		return printJSON(cmd.OutOrStdout(), a.svc.Insights(cmd.Context()))
	}),
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Most frequent meaningful words across all dreams",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		n, _ := cmd.Flags().GetInt("limit")
		if n <= 0 {
			return fmt.Errorf("--limit must be positive")
		}
		for _, k := range a.svc.Keywords(cmd.Context(), n) {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %d\n", k.Word, k.Count)
		}
		return nil
	}),
}

func initStatsCmds() {
	keywordsCmd.Flags().IntP("limit", "n", 10, "Number of keywords")
	rootCmd.AddCommand(statsCmd, insightsCmd, keywordsCmd)
}
