package sim

import (
	"time"

	"github.com/rustyeddy/monthguard/risk"
	"github.com/rustyeddy/monthguard/strategies"
)

// Trade is one resolved simulated trade.
type Trade struct {
	ID        string
	Time      time.Time
	Month     risk.MonthKey
	Direction strategies.Signal

	RiskFraction   float64
	StopDistance   float64
	TargetDistance float64
	Units          float64

	WinProbability float64
	Win            bool
	Friction       float64
	PnL            float64

	BalanceBefore float64
	BalanceAfter  float64
}

// MonthTrades is the PnL sequence of one month in execution order.
type MonthTrades struct {
	Month risk.MonthKey
	PnL   []float64
}

// Ledger keeps trades in time order and grouped by month. Months are kept
// in the order they were first seen, including months without trades.
type Ledger struct {
	trades  []Trade
	months  []risk.MonthKey
	byMonth map[risk.MonthKey][]int
}

func NewLedger() *Ledger {
	return &Ledger{byMonth: make(map[risk.MonthKey][]int)}
}

// OpenMonth registers key if it has not been seen yet.
func (l *Ledger) OpenMonth(key risk.MonthKey) {
	if _, ok := l.byMonth[key]; ok {
		return
	}
	l.months = append(l.months, key)
	l.byMonth[key] = nil
}

func (l *Ledger) Append(t Trade) {
	l.OpenMonth(t.Month)
	l.byMonth[t.Month] = append(l.byMonth[t.Month], len(l.trades))
	l.trades = append(l.trades, t)
}

func (l *Ledger) Len() int {
	return len(l.trades)
}

// Trades returns a copy of all trades in execution order.
func (l *Ledger) Trades() []Trade {
	out := make([]Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

func (l *Ledger) Months() []risk.MonthKey {
	out := make([]risk.MonthKey, len(l.months))
	copy(out, l.months)
	return out
}

// Month returns a copy of the trades executed in key.
func (l *Ledger) Month(key risk.MonthKey) []Trade {
	idx := l.byMonth[key]
	out := make([]Trade, len(idx))
	for i, j := range idx {
		out[i] = l.trades[j]
	}
	return out
}

// Grouped returns a deep copy of the per month PnL sequences.
func (l *Ledger) Grouped() []MonthTrades {
	out := make([]MonthTrades, len(l.months))
	for i, key := range l.months {
		idx := l.byMonth[key]
		pnl := make([]float64, len(idx))
		for k, j := range idx {
			pnl[k] = l.trades[j].PnL
		}
		out[i] = MonthTrades{Month: key, PnL: pnl}
	}
	return out
}
