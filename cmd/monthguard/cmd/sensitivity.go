package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/monthguard/backtest"
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity",
	Short: "Check how much results move under small parameter changes",
	Long: `Sensitivity evaluates neighbours of the configuration and reports the mean
and standard deviation of their average monthly returns. The configuration
is called stable when the deviation is below 15% of the mean.

Modes:
  ema   - shift the fast EMA by s and the medium EMA by 2s, s in -2..2
  risk  - set base risk to 1.0, 1.25, 1.5 and 1.75 percent

Example:
  monthguard sensitivity --bars data/gold_daily.csv --mode ema`,
	RunE: runSensitivity,
}

var (
	snBarsPath string
	snMode     string
	snWorkers  int
)

func init() {
	rootCmd.AddCommand(sensitivityCmd)

	sensitivityCmd.Flags().StringVarP(&snBarsPath, "bars", "b", "", "path to bars CSV (required)")
	sensitivityCmd.Flags().StringVar(&snMode, "mode", "ema", "perturbation: ema or risk")
	sensitivityCmd.Flags().IntVar(&snWorkers, "workers", 0, "parallel simulations (0 = NumCPU)")

	sensitivityCmd.MarkFlagRequired("bars")
}

func runSensitivity(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var variants []backtest.Variant
	switch snMode {
	case "ema":
		variants = backtest.EMAShiftVariants(cfg.Engine(), backtest.DefaultEMAShifts)
	case "risk":
		variants = backtest.RiskVariants(cfg.Engine(), backtest.DefaultRiskLevels)
	default:
		return fmt.Errorf("unknown mode %q (want ema or risk)", snMode)
	}

	bars, err := loadBars(snBarsPath)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	rep, err := backtest.Sensitivity(ctx, variants, bars, backtest.Options{Workers: snWorkers, Logger: log})
	if err != nil {
		return err
	}
	backtest.PrintSensitivity(os.Stdout, rep)
	return nil
}
