package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantfold/fxlab/internal/app"
	"github.com/quantfold/fxlab/internal/config"
	"go.uber.org/zap"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "fxlab",
	Short: "fxlab - forex backtesting and performance analytics",
	Long: `fxlab replays historical forex candles against technical or LLM-backed
signal sources, simulates position management, and analyzes the resulting
trade history.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

// buildApp loads config and assembles the service for a command run.
func buildApp(log *zap.Logger) (*app.App, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return app.New(cfg, log)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
