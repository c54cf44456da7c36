package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/monthguard/backtest"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Evaluate a parameter grid and rank the combinations",
	Long: `Sweep simulates every combination of the given parameter values in parallel
and ranks them by average monthly return. Parameters not listed keep their
configured value. A grid file uses the same option names as the config.

Examples:
  monthguard sweep --bars data/gold_daily.csv --fast 3,5,8 --medium 13,21 --risk 1,1.5
  monthguard sweep --bars data/gold_daily.csv --grid grid.yaml --top 10`,
	RunE: runSweep,
}

var (
	swBarsPath string
	swGridPath string
	swTop      int
	swWorkers  int
	swGrid     backtest.Grid
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	f := sweepCmd.Flags()
	f.StringVarP(&swBarsPath, "bars", "b", "", "path to bars CSV (required)")
	f.StringVar(&swGridPath, "grid", "", "YAML grid file")
	f.IntVar(&swTop, "top", 20, "show the best N combinations (0 = all)")
	f.IntVar(&swWorkers, "workers", 0, "parallel simulations (0 = NumCPU)")
	f.IntSliceVar(&swGrid.Fast, "fast", nil, "fast EMA spans")
	f.IntSliceVar(&swGrid.Medium, "medium", nil, "medium EMA spans")
	f.IntSliceVar(&swGrid.Slow, "slow", nil, "slow EMA spans")
	f.Float64SliceVar(&swGrid.RSIMax, "rsi-max", nil, "RSI upper bounds")
	f.Float64SliceVar(&swGrid.RSIMin, "rsi-min", nil, "RSI lower bounds")
	f.Float64SliceVar(&swGrid.SLATR, "sl-atr", nil, "stop loss ATR multipliers")
	f.Float64SliceVar(&swGrid.TPATR, "tp-atr", nil, "take profit ATR multipliers")
	f.Float64SliceVar(&swGrid.BaseRisk, "risk", nil, "base risk percents")

	sweepCmd.MarkFlagRequired("bars")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	grid := swGrid
	if swGridPath != "" {
		data, err := os.ReadFile(swGridPath)
		if err != nil {
			return fmt.Errorf("read grid: %w", err)
		}
		if err := yaml.Unmarshal(data, &grid); err != nil {
			return fmt.Errorf("parse grid: %w", err)
		}
	}

	bars, err := loadBars(swBarsPath)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := backtest.Sweep(ctx, cfg.Engine(), grid, bars, backtest.Options{Workers: swWorkers, Logger: log})
	if err != nil {
		return err
	}
	fmt.Printf("%d combinations evaluated\n\n", len(results))
	if swTop > 0 && len(results) > swTop {
		results = results[:swTop]
	}
	backtest.PrintVariants(os.Stdout, results)
	return nil
}
