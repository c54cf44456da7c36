package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/monthguard/market"
	"github.com/rustyeddy/monthguard/risk"
)

func TestRunEmptyAndShortInput(t *testing.T) {
	t.Parallel()

	cfg := smallConfig()
	warm := cfg.Indicators.EffectiveWarmUp()

	for name, bars := range map[string]market.Bars{
		"nil":     nil,
		"short":   dailyBars(warm-1, 1),
		"warm-up": dailyBars(warm, 1),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			res, err := NewEngine(cfg, WithSignal(alwaysLong{})).Run(context.Background(), bars)
			require.NoError(t, err)
			assert.Zero(t, res.Ledger.Len())
			assert.Empty(t, res.Months)
			assert.Empty(t, res.Equity)
			assert.Equal(t, cfg.InitialBalance, res.FinalBalance)
		})
	}
}

func TestRunStopsTradingAfterLock(t *testing.T) {
	t.Parallel()

	// 60 days cover all of January and February 2024.
	bars := dailyBars(60, 1)
	model := &scriptedModel{pnl: []float64{-1000}}
	e := NewEngine(smallConfig(), WithSignal(alwaysLong{}), WithModel(model))

	res, err := e.Run(context.Background(), bars)
	require.NoError(t, err)

	// Two losses of 1000 take the month to a 2% drawdown, which crosses the
	// 1.95% ceiling on the next check; nothing trades until February.
	require.Len(t, res.Months, 2)
	assert.Equal(t, risk.MonthKey("2024-01"), res.Months[0].Month)
	assert.Equal(t, 2, res.Months[0].Trades)
	assert.Equal(t, risk.DrawdownLimit, res.Months[0].LockReason)
	assert.InDelta(t, -0.02, res.Months[0].Return, 1e-12)

	assert.Equal(t, risk.MonthKey("2024-02"), res.Months[1].Month)
	assert.Equal(t, 2, res.Months[1].Trades)
	assert.Equal(t, risk.DrawdownLimit, res.Months[1].LockReason)
	assert.InDelta(t, -2000.0/98000.0, res.Months[1].Return, 1e-12)

	assert.Equal(t, 4, res.Ledger.Len())
	assert.Equal(t, 4, model.calls)
	assert.InDelta(t, 96000.0, res.FinalBalance, 1e-9)

	jan := res.Ledger.Month("2024-01")
	require.Len(t, jan, 2)
	for _, tr := range jan {
		assert.LessOrEqual(t, tr.Time.Day(), 7)
	}
}

func TestRunProfitTargetLocks(t *testing.T) {
	t.Parallel()

	cfg := smallConfig()
	cfg.Guard.ProfitTargetPct = 5
	model := &scriptedModel{pnl: []float64{3000}}

	res, err := NewEngine(cfg, WithSignal(alwaysLong{}), WithModel(model)).
		Run(context.Background(), dailyBars(31, 1))
	require.NoError(t, err)

	require.Len(t, res.Months, 1)
	assert.Equal(t, risk.ProfitTarget, res.Months[0].LockReason)
	assert.Equal(t, 2, res.Months[0].Trades)
	assert.InDelta(t, 106000.0, res.FinalBalance, 1e-9)
}

func TestRunZeroStopDistanceSkipsTrade(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{pnl: []float64{1}}
	res, err := NewEngine(smallConfig(), WithSignal(alwaysLong{}), WithModel(model)).
		Run(context.Background(), dailyBars(40, 0))
	require.NoError(t, err)

	assert.Zero(t, res.Ledger.Len())
	assert.Zero(t, model.calls)
	assert.Equal(t, res.Bars, res.Skipped)
	assert.Equal(t, res.InitialBalance, res.FinalBalance)
}

func TestRunEquityPointPerBar(t *testing.T) {
	t.Parallel()

	cfg := smallConfig()
	bars := dailyBars(45, 1)

	res, err := NewEngine(cfg, WithSignal(alwaysLong{}), WithRand(fixedRand(0))).
		Run(context.Background(), bars)
	require.NoError(t, err)

	warm := cfg.Indicators.EffectiveWarmUp()
	assert.Equal(t, len(bars)-warm, res.Bars)
	require.Len(t, res.Equity, len(bars)-warm)
	assert.Equal(t, bars[warm].Time, res.Equity[0].Time)
	assert.Equal(t, res.FinalBalance, res.Equity[len(res.Equity)-1].Balance)
	assert.Equal(t, []risk.MonthKey{"2024-01", "2024-02"}, res.Ledger.Months())
}

func TestRunTradesMatchBalances(t *testing.T) {
	t.Parallel()

	res, err := NewEngine(smallConfig()).Run(context.Background(), wavyBars(400))
	require.NoError(t, err)
	require.NotZero(t, res.Ledger.Len())

	balance := res.InitialBalance
	for _, tr := range res.Ledger.Trades() {
		assert.Equal(t, balance, tr.BalanceBefore)
		assert.InDelta(t, tr.BalanceBefore+tr.PnL, tr.BalanceAfter, 1e-9)
		assert.Greater(t, tr.StopDistance, 0.0)
		assert.InDelta(t, tr.StopDistance*5, tr.TargetDistance, 1e-9)
		assert.LessOrEqual(t, tr.RiskFraction, 0.015+1e-12)
		assert.NotEmpty(t, tr.ID)
		balance = tr.BalanceAfter
	}
	assert.InDelta(t, balance, res.FinalBalance, 1e-9)

	var sum float64
	for _, m := range res.Months {
		sum += float64(m.Trades)
	}
	assert.Equal(t, float64(res.Ledger.Len()), sum)
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	bars := wavyBars(400)
	a, err := NewEngine(smallConfig()).Run(context.Background(), bars)
	require.NoError(t, err)
	b, err := NewEngine(smallConfig()).Run(context.Background(), bars)
	require.NoError(t, err)

	assert.Equal(t, a.Ledger.Trades(), b.Ledger.Trades())
	assert.Equal(t, a.Months, b.Months)
	assert.Equal(t, a.FinalBalance, b.FinalBalance)
}

func TestRunHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewEngine(smallConfig()).Run(ctx, wavyBars(200))
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.InitialBalance = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Outcome.BaseWinProb = 1.5
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Guard.DrawdownLimitPct = 0
	assert.Error(t, cfg.Validate())
}
