package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const tradeColumns = `run_id, trade_id, time, month, direction, risk_fraction, stop_distance,
	target_distance, units, win_probability, win, friction, pnl, balance_before, balance_after`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (TradeRecord, error) {
	var rec TradeRecord
	err := s.Scan(
		&rec.RunID,
		&rec.TradeID,
		&rec.Time,
		&rec.Month,
		&rec.Direction,
		&rec.RiskFraction,
		&rec.StopDistance,
		&rec.TargetDistance,
		&rec.Units,
		&rec.WinProbability,
		&rec.Win,
		&rec.Friction,
		&rec.PnL,
		&rec.BalanceBefore,
		&rec.BalanceAfter,
	)
	return rec, err
}

func (j *SQLite) queryTrades(ctx context.Context, query string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTrade returns a single trade of a run.
func (j *SQLite) GetTrade(ctx context.Context, runID, tradeID string) (TradeRecord, error) {
	row := j.db.QueryRowContext(ctx,
		`SELECT `+tradeColumns+` FROM trades WHERE run_id = ? AND trade_id = ?`, runID, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesByRun returns the trades of a run in execution order.
func (j *SQLite) ListTradesByRun(ctx context.Context, runID string) ([]TradeRecord, error) {
	return j.queryTrades(ctx,
		`SELECT `+tradeColumns+` FROM trades WHERE run_id = ? ORDER BY time ASC, trade_id ASC`, runID)
}

// ListTradesBetween returns trades of every run with time in [start, end).
func (j *SQLite) ListTradesBetween(ctx context.Context, start, end time.Time) ([]TradeRecord, error) {
	return j.queryTrades(ctx,
		`SELECT `+tradeColumns+` FROM trades WHERE time >= ? AND time < ? ORDER BY time ASC, trade_id ASC`,
		start, end)
}

func (j *SQLite) ListEquityByRun(ctx context.Context, runID string) ([]EquitySnapshot, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, time, month, balance, locked
		FROM equity
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(&e.RunID, &e.Time, &e.Month, &e.Balance, &e.Locked); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) ListMonthsByRun(ctx context.Context, runID string) ([]MonthRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, month, start_balance, end_balance, ret, trades, lock_reason
		FROM months
		WHERE run_id = ?
		ORDER BY month ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthRecord
	for rows.Next() {
		var m MonthRecord
		if err := rows.Scan(&m.RunID, &m.Month, &m.StartBalance, &m.EndBalance,
			&m.Return, &m.Trades, &m.LockReason); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const runColumns = `run_id, created, kind, label, dataset, config, start_time, end_time, trades,
	wins, losses, start_balance, end_balance, net_pl, return_pct, win_rate, profit_factor,
	max_dd_pct, avg_monthly_return_pct, sharpe`

func scanRun(s scanner) (RunRecord, error) {
	var (
		r   RunRecord
		cfg string
	)
	err := s.Scan(&r.RunID, &r.Created, &r.Kind, &r.Label, &r.Dataset, &cfg, &r.Start, &r.End,
		&r.Trades, &r.Wins, &r.Losses, &r.StartBalance, &r.EndBalance, &r.NetPL, &r.ReturnPct,
		&r.WinRate, &r.ProfitFactor, &r.MaxDDPct, &r.AvgMonthlyReturnPct, &r.Sharpe)
	r.Config = []byte(cfg)
	return r, err
}

func (j *SQLite) GetRun(ctx context.Context, runID string) (RunRecord, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return r, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (j *SQLite) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created DESC, run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) GetMonteCarlo(ctx context.Context, runID string) (MonteCarloRecord, error) {
	var mc MonteCarloRecord
	err := j.db.QueryRowContext(ctx, `
		SELECT run_id, paths, start_balance, equity_min, equity_p5, equity_median, equity_p95,
		       equity_max, dd_min, dd_p5, dd_median, dd_p95, dd_max, ruined, worst_path,
		       worst_drawdown, worst_terminal
		FROM montecarlo
		WHERE run_id = ?`, runID).Scan(
		&mc.RunID, &mc.Paths, &mc.StartBalance,
		&mc.EquityMin, &mc.EquityP5, &mc.EquityMedian, &mc.EquityP95, &mc.EquityMax,
		&mc.DrawdownMin, &mc.DrawdownP5, &mc.DrawdownMedian, &mc.DrawdownP95, &mc.DrawdownMax,
		&mc.Ruined, &mc.WorstPath, &mc.WorstDrawdown, &mc.WorstTerminal,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MonteCarloRecord{}, fmt.Errorf("montecarlo report for run %q not found", runID)
		}
		return MonteCarloRecord{}, err
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT threshold_pct, rate FROM survival WHERE run_id = ? ORDER BY threshold_pct ASC`, runID)
	if err != nil {
		return MonteCarloRecord{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var s SurvivalRecord
		if err := rows.Scan(&s.ThresholdPct, &s.Rate); err != nil {
			return MonteCarloRecord{}, err
		}
		mc.Survival = append(mc.Survival, s)
	}
	return mc, rows.Err()
}
