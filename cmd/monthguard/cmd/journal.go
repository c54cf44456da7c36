package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/monthguard/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query recorded runs",
	Long: `Query runs, months, Monte Carlo reports and trades from the SQLite journal.

Subcommands:
  runs                      - List the most recent runs
  run <run-id>              - Show a run with its months and Monte Carlo report
  trades <run-id>           - List the trades of a run
  trade <run-id> <trade-id> - Show a single trade

Examples:
  monthguard journal runs --limit 10
  monthguard journal run 01HV7W7Q7ZK2J6B1M0N9X4Y3T2
  monthguard journal trades 01HV7W7Q7ZK2J6B1M0N9X4Y3T2`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List the most recent runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalRunCmd = &cobra.Command{
	Use:   "run <run-id>",
	Short: "Show a run with its months and Monte Carlo report",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalRun,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades <run-id>",
	Short: "List the trades of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrades,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <run-id> <trade-id>",
	Short: "Show a single trade",
	Args:  cobra.ExactArgs(2),
	RunE:  runJournalTrade,
}

var (
	journalDBPath string
	journalLimit  int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalRunCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalTradeCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./monthguard.db", "path to SQLite journal DB")
	journalRunsCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "number of runs to list")
}

func openJournal() (*journal.SQLite, error) {
	if _, err := os.Stat(journalDBPath); err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns(context.Background(), journalLimit)
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tCREATED\tKIND\tLABEL\tTRADES\tRETURN%\tAVG MONTH%\tMAX DD%")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.2f\t%.2f\t%.2f\n",
			r.RunID, r.Created.Format("2006-01-02 15:04"), r.Kind, r.Label,
			r.Trades, r.ReturnPct, r.AvgMonthlyReturnPct, r.MaxDDPct)
	}
	return tw.Flush()
}

func runJournalRun(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	ctx := context.Background()
	runID := args[0]
	r, err := j.GetRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	fmt.Printf("Run:       %s (%s)\n", r.RunID, r.Kind)
	if r.Label != "" {
		fmt.Printf("Label:     %s\n", r.Label)
	}
	fmt.Printf("Dataset:   %s\n", r.Dataset)
	fmt.Printf("Period:    %s to %s\n", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	fmt.Printf("Balance:   %.2f -> %.2f (%.2f%%)\n", r.StartBalance, r.EndBalance, r.ReturnPct)
	fmt.Printf("Trades:    %d (%d wins, %d losses, %.1f%% win rate)\n", r.Trades, r.Wins, r.Losses, r.WinRate)
	fmt.Printf("Max DD:    %.2f%%  Sharpe: %.2f  PF: %.2f\n", r.MaxDDPct, r.Sharpe, r.ProfitFactor)

	months, err := j.ListMonthsByRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("query months: %w", err)
	}
	if len(months) > 0 {
		fmt.Println()
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "MONTH\tSTART\tEND\tRETURN%\tTRADES\tLOCK")
		for _, m := range months {
			fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%d\t%s\n",
				m.Month, m.StartBalance, m.EndBalance, m.Return*100, m.Trades, m.LockReason)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	mc, err := j.GetMonteCarlo(ctx, runID)
	if err != nil {
		// runs without a Monte Carlo report are common
		return nil
	}
	fmt.Printf("\nMonte Carlo: %d paths from %.2f, %d ruined\n", mc.Paths, mc.StartBalance, mc.Ruined)
	fmt.Printf("  Equity   p5 %.2f  median %.2f  p95 %.2f\n", mc.EquityP5, mc.EquityMedian, mc.EquityP95)
	fmt.Printf("  Drawdown p5 %.2f%%  median %.2f%%  p95 %.2f%%\n", mc.DrawdownP5, mc.DrawdownMedian, mc.DrawdownP95)
	for _, s := range mc.Survival {
		fmt.Printf("  Survival below %.1f%% drawdown: %.1f%%\n", s.ThresholdPct, s.Rate*100)
	}
	return nil
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListTradesByRun(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TRADE\tTIME\tDIR\tUNITS\tWIN\tPNL\tBALANCE")
	for _, t := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%t\t%.2f\t%.2f\n",
			t.TradeID, t.Time.Format("2006-01-02 15:04"), t.Direction, t.Units, t.Win, t.PnL, t.BalanceAfter)
	}
	return tw.Flush()
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	t, err := j.GetTrade(context.Background(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}
	fmt.Printf("Trade:     %s (run %s)\n", t.TradeID, t.RunID)
	fmt.Printf("Time:      %s (%s)\n", t.Time.Format("2006-01-02 15:04:05"), t.Month)
	fmt.Printf("Direction: %s\n", t.Direction)
	fmt.Printf("Risk:      %.4f%% of balance, %.2f units\n", t.RiskFraction*100, t.Units)
	fmt.Printf("Stop:      %.5f  Target: %.5f\n", t.StopDistance, t.TargetDistance)
	fmt.Printf("P(win):    %.3f  Win: %t\n", t.WinProbability, t.Win)
	fmt.Printf("PnL:       %.2f (friction %.2f)\n", t.PnL, t.Friction)
	fmt.Printf("Balance:   %.2f -> %.2f\n", t.BalanceBefore, t.BalanceAfter)
	return nil
}
