package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/quantfold/fxlab/internal/logger"
)

var (
	backtestSymbol    string
	backtestTimeframe string
	backtestFrom      string
	backtestTo        string
	backtestProvider  string
	backtestOutput    string
	backtestArchive   bool
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a backtest for a symbol",
	Long:  "Replay historical candles against the configured signal source and show performance statistics",
	RunE:  runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestSymbol, "symbol", "", "Symbol to backtest (required)")
	backtestCmd.Flags().StringVar(&backtestTimeframe, "timeframe", "", "Candle timeframe (1m, 5m, 15m, 1h, 4h, 1d)")
	backtestCmd.Flags().StringVar(&backtestFrom, "from", "", "Start date YYYY-MM-DD (required)")
	backtestCmd.Flags().StringVar(&backtestTo, "to", "", "End date YYYY-MM-DD (required)")
	backtestCmd.Flags().StringVar(&backtestProvider, "provider", "", "Market data provider (yahoo, binance)")
	backtestCmd.Flags().StringVarP(&backtestOutput, "output", "o", "", "Write the full JSON report to a file")
	backtestCmd.Flags().BoolVar(&backtestArchive, "archive", false, "Archive the report to the configured backend")

	backtestCmd.MarkFlagRequired("symbol")
	backtestCmd.MarkFlagRequired("from")
	backtestCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	fromDate, err := time.Parse("2006-01-02", backtestFrom)
	if err != nil {
		return fmt.Errorf("invalid from date format (expected YYYY-MM-DD): %w", err)
	}
	toDate, err := time.Parse("2006-01-02", backtestTo)
	if err != nil {
		return fmt.Errorf("invalid to date format (expected YYYY-MM-DD): %w", err)
	}
	if !fromDate.Before(toDate) {
		return fmt.Errorf("end date must be after start date")
	}

	a, err := buildApp(log)
	if err != nil {
		return err
	}
	if !backtestArchive {
		// Run without persisting a report.
		a.Reports = nil
	}

	cfg, err := a.BacktestConfig(backtestSymbol, backtestTimeframe, fromDate, toDate)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, path, err := a.RunBacktest(ctx, backtestProvider, uuid.NewString(), cfg)
	if err != nil {
		return err
	}

	s := report.Summary
	fmt.Println("=== fxlab backtest ===")
	fmt.Printf("Symbol:    %s (%s)\n", cfg.Symbol, cfg.Timeframe)
	fmt.Printf("Period:    %s to %s\n", fromDate.Format("2006-01-02"), toDate.Format("2006-01-02"))
	fmt.Println()
	fmt.Printf("Trades:    %d (%d won / %d lost)\n", s.TotalTrades, s.WinningTrades, s.LosingTrades)
	fmt.Printf("Win rate:  %.2f%%\n", s.WinRate)
	fmt.Printf("Total PnL: %.2f\n", s.TotalPnL)
	if s.ProfitFactor != nil {
		fmt.Printf("Profit factor: %.2f\n", *s.ProfitFactor)
	}
	fmt.Printf("Max drawdown:  %.2f\n", s.MaxDrawdown)
	if path != "" {
		fmt.Printf("Report archived: %s\n", path)
	}

	if backtestOutput != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(backtestOutput, data, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Printf("Report written: %s\n", backtestOutput)
	}

	return nil
}
