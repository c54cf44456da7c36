package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/monthguard/backtest"
)

var walkforwardCmd = &cobra.Command{
	Use:   "walkforward",
	Short: "Run the configuration over separate date windows",
	Long: `Walkforward simulates each window independently; indicators warm up again
inside every window.

Either split the data at a date into in-sample and out-of-sample windows,
or list windows as label:start:end (dates YYYY-MM-DD, either may be empty).

Examples:
  monthguard walkforward --bars data/gold_daily.csv --split 2023-01-01
  monthguard walkforward --bars data/gold_daily.csv -w 2021:2021-01-01:2022-01-01 -w 2022:2022-01-01:2023-01-01`,
	RunE: runWalkForward,
}

var (
	wfBarsPath string
	wfSplit    string
	wfWindows  []string
)

func init() {
	rootCmd.AddCommand(walkforwardCmd)

	walkforwardCmd.Flags().StringVarP(&wfBarsPath, "bars", "b", "", "path to bars CSV (required)")
	walkforwardCmd.Flags().StringVar(&wfSplit, "split", "", "split date (YYYY-MM-DD) between in-sample and out-of-sample")
	walkforwardCmd.Flags().StringArrayVarP(&wfWindows, "window", "w", nil, "window as label:start:end (repeatable)")

	walkforwardCmd.MarkFlagRequired("bars")
	walkforwardCmd.MarkFlagsMutuallyExclusive("split", "window")
	walkforwardCmd.MarkFlagsOneRequired("split", "window")
}

func runWalkForward(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var windows []backtest.Window
	if wfSplit != "" {
		split, err := time.Parse(time.DateOnly, wfSplit)
		if err != nil {
			return fmt.Errorf("split: %w", err)
		}
		windows = backtest.SplitWindows(split)
	}
	for _, s := range wfWindows {
		w, err := backtest.ParseWindow(s)
		if err != nil {
			return err
		}
		windows = append(windows, w)
	}

	bars, err := loadBars(wfBarsPath)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := backtest.WalkForward(ctx, cfg.Engine(), bars, windows, backtest.Options{Logger: log})
	if err != nil {
		return err
	}
	backtest.PrintWindows(os.Stdout, results)
	return nil
}
