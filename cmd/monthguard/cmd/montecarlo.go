package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/monthguard/backtest"
)

var montecarloCmd = &cobra.Command{
	Use:     "montecarlo",
	Aliases: []string{"mc"},
	Short:   "Stress test the simulated ledger by reshuffling months and trades",
	Long: `Montecarlo simulates the bars once, then replays the trade ledger over many
paths with shuffled month order and shuffled trades within each month. Each
path starts from the benchmark balance and applies the monthly guard again.

Reported: survival rate per drawdown threshold, terminal equity and max
drawdown percentiles, and the worst path.

Example:
  monthguard montecarlo --bars data/gold_daily.csv --paths 10000 --workers 8`,
	RunE: runMonteCarlo,
}

var (
	mcBarsPath     string
	mcPaths        int
	mcWorkers      int
	mcSeed         uint64
	mcStartBalance float64
	mcThresholds   []float64
)

func init() {
	rootCmd.AddCommand(montecarloCmd)

	montecarloCmd.Flags().StringVarP(&mcBarsPath, "bars", "b", "", "path to bars CSV (required)")
	montecarloCmd.Flags().IntVar(&mcPaths, "paths", 0, "number of paths (0 keeps the config value)")
	montecarloCmd.Flags().IntVar(&mcWorkers, "workers", 0, "parallel workers (0 keeps the config value)")
	montecarloCmd.Flags().Uint64Var(&mcSeed, "seed", 0, "resampling seed (0 keeps the config value)")
	montecarloCmd.Flags().Float64Var(&mcStartBalance, "start-balance", 0, "benchmark balance each path starts from")
	montecarloCmd.Flags().Float64SliceVar(&mcThresholds, "thresholds", nil, "survival drawdown thresholds in percent")

	montecarloCmd.MarkFlagRequired("bars")
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if mcPaths > 0 {
		cfg.MonteCarlo.Paths = mcPaths
	}
	if mcWorkers > 0 {
		cfg.MonteCarlo.Workers = mcWorkers
	}
	if mcSeed != 0 {
		cfg.MonteCarlo.Seed = mcSeed
	}
	if mcStartBalance > 0 {
		cfg.MonteCarlo.StartBalance = mcStartBalance
	}
	if len(mcThresholds) > 0 {
		cfg.MonteCarlo.SurvivalThresholds = mcThresholds
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	bars, err := loadBars(mcBarsPath)
	if err != nil {
		return err
	}

	runner := &backtest.Runner{
		Config:     cfg,
		MonteCarlo: true,
		Kind:       "montecarlo",
		Dataset:    filepath.Base(mcBarsPath),
		Logger:     log,
	}
	closeJournal, err := attachJournal(runner, cfg.Journal)
	if err != nil {
		return err
	}
	defer closeJournal()

	ctx, cancel := signalContext()
	defer cancel()

	rep, err := runner.Run(ctx, bars)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s: %d trades over %d months\n\n", rep.RunID, rep.Summary.Trades, rep.Summary.Months)
	backtest.PrintMonteCarlo(os.Stdout, rep.MonteCarlo)
	return nil
}
