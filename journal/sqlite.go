package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite stores runs in a single database file. Create the database once
// and share it; writes are serialized on one connection.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(run_id, trade_id, time, month, direction, risk_fraction, stop_distance, target_distance,
		 units, win_probability, win, friction, pnl, balance_before, balance_after)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.TradeID, t.Time, t.Month, t.Direction, t.RiskFraction, t.StopDistance,
		t.TargetDistance, t.Units, t.WinProbability, t.Win, t.Friction, t.PnL,
		t.BalanceBefore, t.BalanceAfter,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (run_id, time, month, balance, locked)
		VALUES (?, ?, ?, ?, ?)`,
		e.RunID, e.Time, e.Month, e.Balance, e.Locked,
	)
	return err
}

func (j *SQLite) RecordRun(ctx context.Context, r RunRecord) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, created, kind, label, dataset, config, start_time, end_time, trades, wins, losses,
		 start_balance, end_balance, net_pl, return_pct, win_rate, profit_factor, max_dd_pct,
		 avg_monthly_return_pct, sharpe)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Kind, r.Label, r.Dataset, string(r.Config), r.Start, r.End,
		r.Trades, r.Wins, r.Losses, r.StartBalance, r.EndBalance, r.NetPL, r.ReturnPct,
		r.WinRate, r.ProfitFactor, r.MaxDDPct, r.AvgMonthlyReturnPct, r.Sharpe,
	)
	if err != nil {
		return fmt.Errorf("journal: record run %s: %w", r.RunID, err)
	}
	return nil
}

func (j *SQLite) RecordMonth(ctx context.Context, m MonthRecord) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO months (run_id, month, start_balance, end_balance, ret, trades, lock_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.RunID, m.Month, m.StartBalance, m.EndBalance, m.Return, m.Trades, m.LockReason,
	)
	return err
}

// RecordMonteCarlo writes the report and its survival rows in one
// transaction.
func (j *SQLite) RecordMonteCarlo(ctx context.Context, mc MonteCarloRecord) (err error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO montecarlo
		(run_id, paths, start_balance, equity_min, equity_p5, equity_median, equity_p95, equity_max,
		 dd_min, dd_p5, dd_median, dd_p95, dd_max, ruined, worst_path, worst_drawdown, worst_terminal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		mc.RunID, mc.Paths, mc.StartBalance,
		mc.EquityMin, mc.EquityP5, mc.EquityMedian, mc.EquityP95, mc.EquityMax,
		mc.DrawdownMin, mc.DrawdownP5, mc.DrawdownMedian, mc.DrawdownP95, mc.DrawdownMax,
		mc.Ruined, mc.WorstPath, mc.WorstDrawdown, mc.WorstTerminal,
	)
	if err != nil {
		return fmt.Errorf("journal: record montecarlo %s: %w", mc.RunID, err)
	}

	for _, s := range mc.Survival {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO survival (run_id, threshold_pct, rate) VALUES (?, ?, ?)`,
			mc.RunID, s.ThresholdPct, s.Rate); err != nil {
			return fmt.Errorf("journal: record survival %s: %w", mc.RunID, err)
		}
	}
	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
