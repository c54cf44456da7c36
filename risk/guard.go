package risk

import (
	"fmt"
	"time"
)

// MonthKey identifies a calendar month, e.g. "2024-03". Keys sort in time
// order and never collide across years.
type MonthKey string

// MonthOf returns the month key of t's calendar date in t's own location.
func MonthOf(t time.Time) MonthKey {
	return MonthKey(t.Format("2006-01"))
}

// LockReason records why a month stopped trading.
type LockReason string

const (
	NotLocked     LockReason = ""
	ProfitTarget  LockReason = "PROFIT_TARGET"
	DrawdownLimit LockReason = "DRAWDOWN_LIMIT"
)

// GuardConfig holds the monthly exit rules, both in percent.
type GuardConfig struct {
	ProfitTargetPct  float64 `json:"monthly_profit_target_pct" yaml:"monthly_profit_target_pct"`
	DrawdownLimitPct float64 `json:"monthly_drawdown_limit_pct" yaml:"monthly_drawdown_limit_pct"`
}

func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		ProfitTargetPct:  20.0,
		DrawdownLimitPct: 1.95,
	}
}

func (c GuardConfig) Validate() error {
	if c.ProfitTargetPct <= 0 {
		return fmt.Errorf("monthly_profit_target_pct must be positive")
	}
	if c.DrawdownLimitPct <= 0 || c.DrawdownLimitPct > 100 {
		return fmt.Errorf("monthly_drawdown_limit_pct must be in (0, 100]")
	}
	return nil
}

// MonthReturn summarizes one completed (or flushed) month.
type MonthReturn struct {
	Month        MonthKey
	StartBalance float64
	EndBalance   float64
	// Return is the fractional change, (end - start) / start.
	Return     float64
	Trades     int
	LockReason LockReason
}

// Locked reports whether the month hit one of its exit rules.
func (m MonthReturn) Locked() bool {
	return m.LockReason != NotLocked
}

// Guard is the per-month state machine. A month starts ACTIVE and moves to
// LOCKED once the profit target or the drawdown ceiling is reached; LOCKED
// lasts until the next month is rolled in.
type Guard struct {
	cfg GuardConfig

	started bool
	month   MonthKey
	start   float64
	high    float64
	active  bool
	reason  LockReason
	trades  int

	// values from the last Check
	ddPct  float64
	retPct float64
}

func NewGuard(cfg GuardConfig) *Guard {
	return &Guard{cfg: cfg}
}

// Roll moves the guard to month key. When key differs from the tracked month
// the finished month is returned with ok=true and the guard resets to ACTIVE
// with balance as the new start and high water mark.
func (g *Guard) Roll(key MonthKey, balance float64) (done MonthReturn, ok bool) {
	if g.started && key == g.month {
		return MonthReturn{}, false
	}
	if g.started {
		done, ok = g.summary(balance), true
	}
	g.Reset(key, balance)
	return done, ok
}

// Reset starts month key unconditionally.
func (g *Guard) Reset(key MonthKey, balance float64) {
	g.started = true
	g.month = key
	g.start = balance
	g.high = balance
	g.active = true
	g.reason = NotLocked
	g.trades = 0
	g.ddPct = 0
	g.retPct = 0
}

// Flush returns the summary of the month in progress, if any.
func (g *Guard) Flush(balance float64) (MonthReturn, bool) {
	if !g.started {
		return MonthReturn{}, false
	}
	return g.summary(balance), true
}

// Check evaluates the exit rules against balance and reports whether
// trading may continue. A LOCKED guard is not evaluated again.
func (g *Guard) Check(balance float64) bool {
	if !g.active {
		return false
	}
	if balance > g.high {
		g.high = balance
	}
	g.ddPct = DrawdownPct(g.high, balance)
	g.retPct = ReturnPct(g.start, balance)

	switch {
	case g.retPct >= g.cfg.ProfitTargetPct:
		g.lock(ProfitTarget)
	case g.ddPct >= g.cfg.DrawdownLimitPct:
		g.lock(DrawdownLimit)
	}
	return g.active
}

// RecordTrade counts a trade against the current month.
func (g *Guard) RecordTrade() {
	g.trades++
}

func (g *Guard) Active() bool {
	return g.active
}

func (g *Guard) Month() MonthKey {
	return g.month
}

func (g *Guard) LockReason() LockReason {
	return g.reason
}

// LocalDrawdownPct is the monthly drawdown seen by the last Check.
func (g *Guard) LocalDrawdownPct() float64 {
	return g.ddPct
}

// MonthReturnPct is the month-to-date return seen by the last Check.
func (g *Guard) MonthReturnPct() float64 {
	return g.retPct
}

// Headroom is the drawdown budget left before the ceiling.
func (g *Guard) Headroom() float64 {
	return g.cfg.DrawdownLimitPct - g.ddPct
}

func (g *Guard) lock(r LockReason) {
	g.active = false
	g.reason = r
}

func (g *Guard) summary(balance float64) MonthReturn {
	ret := 0.0
	if g.start != 0 {
		ret = (balance - g.start) / g.start
	}
	return MonthReturn{
		Month:        g.month,
		StartBalance: g.start,
		EndBalance:   balance,
		Return:       ret,
		Trades:       g.trades,
		LockReason:   g.reason,
	}
}
