// Package backtest drives whole runs: a single simulation with optional
// Monte Carlo and journaling, walk-forward windows, sensitivity checks and
// parameter sweeps.
package backtest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/monthguard/config"
	"github.com/rustyeddy/monthguard/journal"
	"github.com/rustyeddy/monthguard/market"
	"github.com/rustyeddy/monthguard/montecarlo"
	"github.com/rustyeddy/monthguard/pkg/id"
	"github.com/rustyeddy/monthguard/sim"
)

// DefaultSuccessPct is the monthly return, in percent, a month needs to
// count as a success in summaries.
const DefaultSuccessPct = 15.0

// RunStore persists run level records. *journal.SQLite implements it.
type RunStore interface {
	RecordRun(ctx context.Context, r journal.RunRecord) error
	RecordMonth(ctx context.Context, m journal.MonthRecord) error
	RecordMonteCarlo(ctx context.Context, mc journal.MonteCarloRecord) error
}

// Runner runs one configured simulation end to end.
type Runner struct {
	Config *config.Config

	// Journal receives every trade and equity point. Optional.
	Journal journal.Journal
	// Store receives the run summary, months and Monte Carlo report. Optional.
	Store RunStore

	// MonteCarlo resamples the ledger after the simulation.
	MonteCarlo bool
	Kind       string
	Label      string
	Dataset    string
	SuccessPct float64

	Logger *zap.Logger
}

// Report is what a Runner produces.
type Report struct {
	RunID   string
	Kind    string
	Label   string
	Dataset string
	Start   time.Time
	End     time.Time

	Result     *sim.Result
	Summary    sim.Summary
	MonteCarlo *montecarlo.Report
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Runner) successPct() float64 {
	if r.SuccessPct == 0 {
		return DefaultSuccessPct
	}
	return r.SuccessPct
}

// Run simulates bars, optionally resamples the ledger and records the run.
func (r *Runner) Run(ctx context.Context, bars market.Bars) (*Report, error) {
	if r.Config == nil {
		return nil, fmt.Errorf("backtest: Config is required")
	}
	if err := r.Config.Validate(); err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}
	if err := bars.Validate(); err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}

	log := r.logger()
	rep := &Report{
		RunID:   id.New(),
		Kind:    r.Kind,
		Label:   r.Label,
		Dataset: r.Dataset,
	}
	if rep.Kind == "" {
		rep.Kind = "backtest"
	}
	rep.Start, rep.End = bars.Span()
	log = log.With(zap.String("run_id", rep.RunID), zap.String("kind", rep.Kind))

	engine := sim.NewEngine(r.Config.Engine(), sim.WithLogger(log))
	res, err := engine.Run(ctx, bars)
	if err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}
	rep.Result = res
	rep.Summary = res.Summary(r.successPct())

	if r.Journal != nil {
		if err := recordStream(r.Journal, rep.RunID, res); err != nil {
			return nil, fmt.Errorf("backtest: journal: %w", err)
		}
	}

	if r.MonteCarlo {
		mc, err := montecarlo.NewResampler(r.Config.MonteCarloConfig(), montecarlo.WithLogger(log)).
			Run(ctx, res.Ledger.Grouped())
		if err != nil {
			return nil, fmt.Errorf("backtest: montecarlo: %w", err)
		}
		rep.MonteCarlo = mc
	}

	if r.Store != nil {
		if err := r.store(ctx, rep); err != nil {
			return nil, fmt.Errorf("backtest: %w", err)
		}
	}

	log.Info("run complete",
		zap.Int("trades", rep.Summary.Trades),
		zap.Float64("return_pct", rep.Summary.ReturnPct),
		zap.Float64("avg_monthly_return_pct", rep.Summary.AvgMonthlyReturnPct),
		zap.Float64("max_dd_pct", rep.Summary.MaxDrawdownPct))
	return rep, nil
}

func (r *Runner) store(ctx context.Context, rep *Report) error {
	cfgJSON, err := json.Marshal(r.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := r.Store.RecordRun(ctx, runRecord(rep, cfgJSON)); err != nil {
		return err
	}
	for _, m := range rep.Result.Months {
		if err := r.Store.RecordMonth(ctx, monthRecord(rep.RunID, m)); err != nil {
			return fmt.Errorf("record month %s: %w", m.Month, err)
		}
	}
	if rep.MonteCarlo != nil {
		if err := r.Store.RecordMonteCarlo(ctx, monteCarloRecord(rep.RunID, rep.MonteCarlo)); err != nil {
			return err
		}
	}
	return nil
}

func recordStream(j journal.Journal, runID string, res *sim.Result) error {
	for _, t := range res.Ledger.Trades() {
		if err := j.RecordTrade(tradeRecord(runID, t)); err != nil {
			return err
		}
	}
	for _, p := range res.Equity {
		if err := j.RecordEquity(equitySnapshot(runID, p)); err != nil {
			return err
		}
	}
	return nil
}
