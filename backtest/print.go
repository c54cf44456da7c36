package backtest

import (
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/monthguard/montecarlo"
)

const rule = "--------------------------------------------------"

func PrintReport(w io.Writer, rep *Report) {
	s := rep.Summary
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", rep.RunID)
	if rep.Label != "" {
		fmt.Fprintf(w, "Label:         %s\n", rep.Label)
	}
	if rep.Dataset != "" {
		fmt.Fprintf(w, "Dataset:       %s\n", rep.Dataset)
	}
	fmt.Fprintf(w, "Start:         %s\n", rep.Start.Format(time.RFC3339))
	fmt.Fprintf(w, "End:           %s\n", rep.End.Format(time.RFC3339))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Trades:        %d\n", s.Trades)
	fmt.Fprintf(w, "Wins:          %d\n", s.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", s.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", s.WinRate*100)
	if s.ProfitFactor > 0 {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", s.ProfitFactor)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Start Balance: %.2f\n", rep.Result.InitialBalance)
	fmt.Fprintf(w, "End Balance:   %.2f\n", rep.Result.FinalBalance)
	fmt.Fprintf(w, "Net P/L:       %.2f\n", s.NetPL)
	fmt.Fprintf(w, "Return:        %.2f%%\n", s.ReturnPct)
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", s.MaxDrawdownPct)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Monthly")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Months:        %d (%d locked)\n", s.Months, s.LockedMonths)
	fmt.Fprintf(w, "Avg Return:    %.2f%%\n", s.AvgMonthlyReturnPct)
	fmt.Fprintf(w, "Success Rate:  %.2f%% (%d months)\n", s.SuccessRatePct, s.SuccessMonths)
	fmt.Fprintf(w, "Sharpe:        %.2f\n", s.Sharpe)

	if rep.MonteCarlo != nil {
		fmt.Fprintln(w)
		PrintMonteCarlo(w, rep.MonteCarlo)
	}
	fmt.Fprintln(w)
}

func PrintMonteCarlo(w io.Writer, mc *montecarlo.Report) {
	fmt.Fprintln(w, "Monte Carlo")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Paths:         %d (start %.2f)\n", mc.TotalPaths, mc.StartBalance)
	for _, s := range mc.Survival {
		fmt.Fprintf(w, "Survival <=%g%%: %.2f%%\n", s.ThresholdPct, s.Rate*100)
	}
	fmt.Fprintf(w, "Equity:        min %.2f  p5 %.2f  median %.2f  p95 %.2f  max %.2f\n",
		mc.Equity.Min, mc.Equity.P5, mc.Equity.Median, mc.Equity.P95, mc.Equity.Max)
	fmt.Fprintf(w, "Drawdown %%:    min %.2f  p5 %.2f  median %.2f  p95 %.2f  max %.2f\n",
		mc.Drawdown.Min, mc.Drawdown.P5, mc.Drawdown.Median, mc.Drawdown.P95, mc.Drawdown.Max)
	fmt.Fprintf(w, "Worst Path:    #%d drawdown %.2f%% terminal %.2f\n", mc.WorstPath, mc.WorstDrawdown, mc.WorstTerminal)
	if mc.RuinedPaths > 0 {
		fmt.Fprintf(w, "Ruined:        %d\n", mc.RuinedPaths)
	}
}

func PrintWindows(w io.Writer, results []WindowResult) {
	fmt.Fprintf(w, "%-16s %6s %7s %10s %10s %10s\n", "window", "bars", "trades", "avg mo %", "return %", "max dd %")
	for _, r := range results {
		s := r.Summary
		fmt.Fprintf(w, "%-16s %6d %7d %10.2f %10.2f %10.2f\n",
			r.Label, r.Bars, s.Trades, s.AvgMonthlyReturnPct, s.ReturnPct, s.MaxDrawdownPct)
	}
}

func PrintVariants(w io.Writer, results []VariantResult) {
	fmt.Fprintf(w, "%-48s %7s %10s %10s %8s\n", "variant", "trades", "avg mo %", "max dd %", "sharpe")
	for _, r := range results {
		s := r.Summary
		fmt.Fprintf(w, "%-48s %7d %10.2f %10.2f %8.2f\n",
			r.Name, s.Trades, s.AvgMonthlyReturnPct, s.MaxDrawdownPct, s.Sharpe)
	}
}

func PrintSensitivity(w io.Writer, rep *SensitivityReport) {
	PrintVariants(w, rep.Variants)
	verdict := "UNSTABLE"
	if rep.Stable {
		verdict = "STABLE"
	}
	fmt.Fprintf(w, "\nmean %.2f%%  std %.2f%%  %s\n", rep.Mean, rep.Std, verdict)
}
