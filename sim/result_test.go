package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/monthguard/risk"
)

func TestResultReturns(t *testing.T) {
	t.Parallel()

	r := &Result{Months: []risk.MonthReturn{{Return: 0.1}, {Return: -0.02}}}
	assert.Equal(t, []float64{0.1, -0.02}, r.Returns())
	assert.Empty(t, (&Result{}).Returns())
}

func TestResultSummary(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	l.Append(Trade{Month: "2024-01", PnL: 300})
	l.Append(Trade{Month: "2024-01", PnL: -100})
	l.Append(Trade{Month: "2024-02", PnL: -100})
	l.Append(Trade{Month: "2024-03", PnL: 200})

	r := &Result{
		InitialBalance: 1000,
		FinalBalance:   1300,
		Ledger:         l,
		Months: []risk.MonthReturn{
			{Month: "2024-01", Return: 0.20, LockReason: risk.ProfitTarget},
			{Month: "2024-02", Return: -0.10},
			{Month: "2024-03", Return: 0.20},
		},
		Equity: []EquityPoint{
			{Balance: 1300}, {Balance: 1200}, {Balance: 1100}, {Balance: 1300},
		},
	}

	s := r.Summary(15)
	assert.Equal(t, 4, s.Trades)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 2, s.Losses)
	assert.InDelta(t, 0.5, s.WinRate, 1e-12)
	assert.InDelta(t, 300.0, s.NetPL, 1e-9)
	assert.InDelta(t, 30.0, s.ReturnPct, 1e-9)
	assert.InDelta(t, 2.5, s.ProfitFactor, 1e-12)
	assert.Equal(t, 3, s.Months)
	assert.Equal(t, 1, s.LockedMonths)
	assert.Equal(t, 2, s.SuccessMonths)
	assert.InDelta(t, 200.0/3, s.SuccessRatePct, 1e-9)
	assert.InDelta(t, 10.0, s.AvgMonthlyReturnPct, 1e-9)
	// population std of {20, -10, 20} is sqrt(200)
	assert.InDelta(t, 10/(14.142135623730951+SharpeEpsilon), s.Sharpe, 1e-9)
	assert.InDelta(t, 200.0/1300*100, s.MaxDrawdownPct, 1e-9)
}

func TestResultSummaryEmpty(t *testing.T) {
	t.Parallel()

	s := (&Result{InitialBalance: 1000, FinalBalance: 1000, Ledger: NewLedger()}).Summary(15)
	assert.Zero(t, s.Trades)
	assert.Zero(t, s.WinRate)
	assert.Zero(t, s.ProfitFactor)
	assert.Zero(t, s.Sharpe)
	assert.Zero(t, s.MaxDrawdownPct)
}
