// Package journal persists simulation runs: trades, the equity curve, month
// summaries and Monte Carlo reports.
package journal

import "time"

type TradeRecord struct {
	RunID     string
	TradeID   string
	Time      time.Time
	Month     string
	Direction string

	RiskFraction   float64
	StopDistance   float64
	TargetDistance float64
	Units          float64
	WinProbability float64
	Win            bool
	Friction       float64
	PnL            float64
	BalanceBefore  float64
	BalanceAfter   float64
}

type EquitySnapshot struct {
	RunID   string
	Time    time.Time
	Month   string
	Balance float64
	Locked  bool
}

// Journal receives the trade and equity stream of a run.
type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}
