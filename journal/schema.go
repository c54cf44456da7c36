package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	kind TEXT NOT NULL,
	label TEXT NOT NULL,
	dataset TEXT NOT NULL,
	config TEXT NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	start_balance REAL NOT NULL,
	end_balance REAL NOT NULL,
	net_pl REAL NOT NULL,
	return_pct REAL NOT NULL,
	win_rate REAL NOT NULL,
	profit_factor REAL NOT NULL,
	max_dd_pct REAL NOT NULL,
	avg_monthly_return_pct REAL NOT NULL,
	sharpe REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	run_id TEXT NOT NULL,
	trade_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	month TEXT NOT NULL,
	direction TEXT NOT NULL,
	risk_fraction REAL NOT NULL,
	stop_distance REAL NOT NULL,
	target_distance REAL NOT NULL,
	units REAL NOT NULL,
	win_probability REAL NOT NULL,
	win INTEGER NOT NULL,
	friction REAL NOT NULL,
	pnl REAL NOT NULL,
	balance_before REAL NOT NULL,
	balance_after REAL NOT NULL,
	PRIMARY KEY (run_id, trade_id)
);

CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(time);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	month TEXT NOT NULL,
	balance REAL NOT NULL,
	locked INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_run_time ON equity(run_id, time);

CREATE TABLE IF NOT EXISTS months (
	run_id TEXT NOT NULL,
	month TEXT NOT NULL,
	start_balance REAL NOT NULL,
	end_balance REAL NOT NULL,
	ret REAL NOT NULL,
	trades INTEGER NOT NULL,
	lock_reason TEXT NOT NULL,
	PRIMARY KEY (run_id, month)
);

CREATE TABLE IF NOT EXISTS montecarlo (
	run_id TEXT PRIMARY KEY,
	paths INTEGER NOT NULL,
	start_balance REAL NOT NULL,
	equity_min REAL NOT NULL,
	equity_p5 REAL NOT NULL,
	equity_median REAL NOT NULL,
	equity_p95 REAL NOT NULL,
	equity_max REAL NOT NULL,
	dd_min REAL NOT NULL,
	dd_p5 REAL NOT NULL,
	dd_median REAL NOT NULL,
	dd_p95 REAL NOT NULL,
	dd_max REAL NOT NULL,
	ruined INTEGER NOT NULL,
	worst_path INTEGER NOT NULL,
	worst_drawdown REAL NOT NULL,
	worst_terminal REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS survival (
	run_id TEXT NOT NULL,
	threshold_pct REAL NOT NULL,
	rate REAL NOT NULL,
	PRIMARY KEY (run_id, threshold_pct)
);
`
