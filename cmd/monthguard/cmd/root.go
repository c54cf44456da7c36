package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/monthguard/config"
	"github.com/rustyeddy/monthguard/market"
)

var rootCmd = &cobra.Command{
	Use:   "monthguard",
	Short: "Monthly risk-guarded trading simulator with Monte Carlo stress testing",
	Long: `Monthguard replays OHLC bars through an EMA triad strategy whose trading is
gated by a monthly guard: each calendar month stops trading once it reaches
its profit target or its drawdown ceiling. Position size is throttled by the
drawdown budget left in the month.

It provides tools for:
  - Backtesting a configuration over a CSV of bars
  - Monte Carlo resampling of the resulting trade ledger
  - Walk-forward, sensitivity and parameter sweep studies
  - Recording runs to a SQLite journal and CSV files`,
	SilenceUsage: true,
}

var (
	cfgPath string
	envPath string
	verbose bool

	log *zap.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (YAML or JSON); defaults are used when empty")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", ".env", "dotenv file with MONTHGUARD_* overrides")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "development logging at debug level")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			log, err = zap.NewDevelopment()
		} else {
			log, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	}
}

// loadConfig reads --config over the defaults and applies the environment.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(cfgPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(envPath); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadBars(path string) (market.Bars, error) {
	bars, err := market.LoadCSV(path)
	if err != nil {
		return nil, fmt.Errorf("load bars: %w", err)
	}
	log.Info("bars loaded", zap.String("path", path), zap.Int("bars", len(bars)))
	return bars, nil
}

// signalContext is cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
