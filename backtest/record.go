package backtest

import (
	"time"

	"github.com/rustyeddy/monthguard/journal"
	"github.com/rustyeddy/monthguard/montecarlo"
	"github.com/rustyeddy/monthguard/risk"
	"github.com/rustyeddy/monthguard/sim"
)

func tradeRecord(runID string, t sim.Trade) journal.TradeRecord {
	return journal.TradeRecord{
		RunID:          runID,
		TradeID:        t.ID,
		Time:           t.Time,
		Month:          string(t.Month),
		Direction:      t.Direction.String(),
		RiskFraction:   t.RiskFraction,
		StopDistance:   t.StopDistance,
		TargetDistance: t.TargetDistance,
		Units:          t.Units,
		WinProbability: t.WinProbability,
		Win:            t.Win,
		Friction:       t.Friction,
		PnL:            t.PnL,
		BalanceBefore:  t.BalanceBefore,
		BalanceAfter:   t.BalanceAfter,
	}
}

func equitySnapshot(runID string, p sim.EquityPoint) journal.EquitySnapshot {
	return journal.EquitySnapshot{
		RunID:   runID,
		Time:    p.Time,
		Month:   string(p.Month),
		Balance: p.Balance,
		Locked:  p.Locked,
	}
}

func monthRecord(runID string, m risk.MonthReturn) journal.MonthRecord {
	return journal.MonthRecord{
		RunID:        runID,
		Month:        string(m.Month),
		StartBalance: m.StartBalance,
		EndBalance:   m.EndBalance,
		Return:       m.Return,
		Trades:       m.Trades,
		LockReason:   string(m.LockReason),
	}
}

func runRecord(rep *Report, cfg []byte) journal.RunRecord {
	s := rep.Summary
	return journal.RunRecord{
		RunID:               rep.RunID,
		Created:             time.Now().UTC(),
		Kind:                rep.Kind,
		Label:               rep.Label,
		Dataset:             rep.Dataset,
		Config:              cfg,
		Start:               rep.Start,
		End:                 rep.End,
		Trades:              s.Trades,
		Wins:                s.Wins,
		Losses:              s.Losses,
		StartBalance:        rep.Result.InitialBalance,
		EndBalance:          rep.Result.FinalBalance,
		NetPL:               s.NetPL,
		ReturnPct:           s.ReturnPct,
		WinRate:             s.WinRate,
		ProfitFactor:        s.ProfitFactor,
		MaxDDPct:            s.MaxDrawdownPct,
		AvgMonthlyReturnPct: s.AvgMonthlyReturnPct,
		Sharpe:              s.Sharpe,
	}
}

func monteCarloRecord(runID string, r *montecarlo.Report) journal.MonteCarloRecord {
	rec := journal.MonteCarloRecord{
		RunID:          runID,
		Paths:          r.TotalPaths,
		StartBalance:   r.StartBalance,
		EquityMin:      r.Equity.Min,
		EquityP5:       r.Equity.P5,
		EquityMedian:   r.Equity.Median,
		EquityP95:      r.Equity.P95,
		EquityMax:      r.Equity.Max,
		DrawdownMin:    r.Drawdown.Min,
		DrawdownP5:     r.Drawdown.P5,
		DrawdownMedian: r.Drawdown.Median,
		DrawdownP95:    r.Drawdown.P95,
		DrawdownMax:    r.Drawdown.Max,
		Ruined:         r.RuinedPaths,
		WorstPath:      r.WorstPath,
		WorstDrawdown:  r.WorstDrawdown,
		WorstTerminal:  r.WorstTerminal,
	}
	for _, s := range r.Survival {
		rec.Survival = append(rec.Survival, journal.SurvivalRecord{ThresholdPct: s.ThresholdPct, Rate: s.Rate})
	}
	return rec
}
