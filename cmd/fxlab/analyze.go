package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantfold/fxlab/internal/analytics"
	"github.com/quantfold/fxlab/internal/logger"
)

var analyzeFile string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a trade history file",
	Long:  "Load closed trades from a JSON file and print performance, risk, and optimization analytics",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "JSON file with an array of closed trades (required)")
	analyzeCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	data, err := os.ReadFile(analyzeFile)
	if err != nil {
		return fmt.Errorf("reading trades: %w", err)
	}
	var trades []analytics.Trade
	if err := json.Unmarshal(data, &trades); err != nil {
		return fmt.Errorf("parsing trades: %w", err)
	}
	if len(trades) == 0 {
		return fmt.Errorf("no trades in %s", analyzeFile)
	}

	a, err := buildApp(log)
	if err != nil {
		return err
	}
	if err := a.LoadTrades(context.Background(), trades); err != nil {
		return err
	}

	overall, _ := a.Analytics.OverallMetrics()
	risk, _ := a.Analytics.RiskMetrics()
	suggestions, _ := a.Analytics.OptimizationSuggestions()

	fmt.Println("=== fxlab analytics ===")
	fmt.Printf("Trades:    %d (%d won / %d lost)\n",
		overall.TotalTrades, overall.WinningTrades, overall.LosingTrades)
	fmt.Printf("Win rate:  %.2f%%\n", overall.WinRate)
	fmt.Printf("Total PnL: %.2f\n", overall.TotalPnL)
	fmt.Printf("Sharpe:    %.2f   Sortino: %.2f\n", overall.SharpeRatio, overall.SortinoRatio)
	fmt.Printf("Max drawdown: %.2f\n", overall.MaxDrawdown)
	if risk != nil {
		fmt.Printf("VaR 95%%:  %.2f   CVaR 95%%: %.2f\n", risk.VaR95, risk.CVaR95)
	}
	if suggestions != nil {
		if len(suggestions.Warnings) > 0 {
			fmt.Println()
			fmt.Println("Warnings:")
			for _, warning := range suggestions.Warnings {
				fmt.Printf("  - %s\n", warning)
			}
		}
		if len(suggestions.Suggestions) > 0 {
			fmt.Println()
			fmt.Println("Suggestions:")
			for _, item := range suggestions.Suggestions {
				fmt.Printf("  - %s\n", item)
			}
		}
	}

	return nil
}
