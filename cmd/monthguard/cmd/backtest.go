package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/monthguard/backtest"
	"github.com/rustyeddy/monthguard/config"
	"github.com/rustyeddy/monthguard/journal"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Simulate a configuration over a CSV of bars",
	Long: `Backtest runs the monthly guarded simulation over historical bars and prints
the run summary. The run is recorded to the configured journal.

The bars CSV needs date,open,high,low,close columns (volume optional).

Examples:
  monthguard backtest --bars data/gold_daily.csv
  monthguard backtest --bars data/gold_daily.csv --montecarlo --paths 5000
  monthguard backtest --bars data/gold_daily.csv --stress-spike 0.3`,
	RunE: runBacktest,
}

var (
	btBarsPath    string
	btMonteCarlo  bool
	btPaths       int
	btSeed        uint64
	btStressSpike float64
	btJournalType string
	btLabel       string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btBarsPath, "bars", "b", "", "path to bars CSV (required)")
	backtestCmd.Flags().BoolVarP(&btMonteCarlo, "montecarlo", "m", false, "resample the ledger after the run")
	backtestCmd.Flags().IntVar(&btPaths, "paths", 0, "Monte Carlo paths (0 keeps the config value)")
	backtestCmd.Flags().Uint64Var(&btSeed, "seed", 0, "seed for outcomes and resampling (0 keeps the config value)")
	backtestCmd.Flags().Float64Var(&btStressSpike, "stress-spike", 0, "enable stress mode with this spike magnitude")
	backtestCmd.Flags().StringVar(&btJournalType, "journal", "", "override journal type (none, csv, sqlite)")
	backtestCmd.Flags().StringVar(&btLabel, "label", "", "label stored with the run")

	backtestCmd.MarkFlagRequired("bars")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if btPaths > 0 {
		cfg.MonteCarlo.Paths = btPaths
	}
	if btSeed != 0 {
		cfg.Outcome.Seed = btSeed
		cfg.MonteCarlo.Seed = btSeed
	}
	if btStressSpike > 0 {
		cfg.Outcome.StressMode = true
		cfg.Outcome.StressSpikeMagnitude = btStressSpike
	}
	if btJournalType != "" {
		cfg.Journal.Type = btJournalType
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	bars, err := loadBars(btBarsPath)
	if err != nil {
		return err
	}

	runner := &backtest.Runner{
		Config:     cfg,
		MonteCarlo: btMonteCarlo,
		Label:      btLabel,
		Dataset:    filepath.Base(btBarsPath),
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
	backtest.PrintReport(os.Stdout, rep)
	return nil
}

// attachJournal opens the configured journal and wires it to r. The
// returned func closes whatever was opened.
func attachJournal(r *backtest.Runner, jc config.JournalConfig) (func(), error) {
	switch jc.Type {
	case "sqlite":
		db, err := journal.NewSQLite(jc.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		r.Journal = db
		r.Store = db
		return func() { _ = db.Close() }, nil
	case "csv":
		j, err := journal.NewCSV(jc.TradesFile, jc.EquityFile)
		if err != nil {
			return nil, fmt.Errorf("open csv journal: %w", err)
		}
		r.Journal = j
		return func() { _ = j.Close() }, nil
	default:
		return func() {}, nil
	}
}
