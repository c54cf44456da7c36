package montecarlo

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/monthguard/risk"
	"github.com/rustyeddy/monthguard/sim"
)

func testConfig(paths int) Config {
	cfg := DefaultConfig()
	cfg.Paths = paths
	cfg.Workers = 4
	return cfg
}

func month(key string, pnl ...float64) sim.MonthTrades {
	return sim.MonthTrades{Month: risk.MonthKey(key), PnL: pnl}
}

// randomLedger builds twelve months of mixed trades.
func randomLedger() []sim.MonthTrades {
	r := rand.New(rand.NewPCG(3, 4))
	months := make([]sim.MonthTrades, 12)
	for i := range months {
		pnl := make([]float64, 3+r.IntN(6))
		for j := range pnl {
			if r.Float64() < 0.8 {
				pnl[j] = 80 + 40*r.Float64()
			} else {
				pnl[j] = -60 - 60*r.Float64()
			}
		}
		months[i] = sim.MonthTrades{Month: risk.MonthKey(fmt.Sprintf("2024-%02d", i+1)), PnL: pnl}
	}
	return months
}

func run(t *testing.T, cfg Config, months []sim.MonthTrades) *Report {
	t.Helper()
	rep, err := NewResampler(cfg).Run(context.Background(), months)
	require.NoError(t, err)
	return rep
}

func TestZeroPnLKeepsBenchmark(t *testing.T) {
	t.Parallel()

	rep := run(t, testConfig(50), []sim.MonthTrades{
		month("2024-01", 0, 0, 0),
		month("2024-02"),
		month("2024-03", 0),
	})

	assert.Equal(t, 50, rep.TotalPaths)
	for i := range rep.Terminals {
		assert.Equal(t, 10000.0, rep.Terminals[i])
		assert.Zero(t, rep.Drawdowns[i])
	}
	for _, s := range rep.Survival {
		assert.Equal(t, 1.0, s.Rate)
	}
	assert.Equal(t, 0, rep.WorstPath)
}

func TestEmptyLedger(t *testing.T) {
	t.Parallel()

	rep := run(t, testConfig(10), nil)
	assert.Equal(t, Stats{10000, 10000, 10000, 10000, 10000}, rep.Equity)
	assert.Equal(t, Stats{}, rep.Drawdown)
}

func TestSteadyGainsCompound(t *testing.T) {
	t.Parallel()

	months := make([]sim.MonthTrades, 12)
	for i := range months {
		months[i] = month(fmt.Sprintf("2023-%02d", i+1), 200)
	}

	rep := run(t, testConfig(100), months)

	want := 10000 * math.Pow(1.02, 12)
	assert.InDelta(t, want, rep.Equity.Min, 1e-6)
	assert.InDelta(t, want, rep.Equity.Max, 1e-6)
	assert.Zero(t, rep.Drawdown.Max)
	rate, ok := rep.SurvivalRate(2)
	require.True(t, ok)
	assert.Equal(t, 1.0, rate)
}

func TestRuinEndsPath(t *testing.T) {
	t.Parallel()

	rep := run(t, testConfig(20), []sim.MonthTrades{
		month("2024-01", -20000, 500),
		month("2024-02", 500),
	})

	for i := range rep.Terminals {
		// Whatever the order, the big loss ruins the path: after at most one
		// +500 month the balance cannot cover -20000 scaled by balance/10000.
		assert.Zero(t, rep.Terminals[i])
		assert.Equal(t, 100.0, rep.Drawdowns[i])
	}
	assert.Equal(t, 20, rep.RuinedPaths)
	for _, s := range rep.Survival {
		assert.Zero(t, s.Rate)
	}
}

func TestGuardStopsMonth(t *testing.T) {
	t.Parallel()

	// The first loss is a 3% drawdown; the guard locks the month before the
	// remaining trades.
	rep := run(t, testConfig(30), []sim.MonthTrades{month("2024-01", -300, -300, -300)})

	for i := range rep.Terminals {
		assert.InDelta(t, 9700.0, rep.Terminals[i], 1e-9)
		assert.InDelta(t, 3.0, rep.Drawdowns[i], 1e-9)
	}
	assert.Equal(t, []Survival{{2, 0}, {4, 1}, {10, 1}}, rep.Survival)
}

func TestScaleCap(t *testing.T) {
	t.Parallel()

	cfg := testConfig(5)
	cfg.ReferenceBalance = 1000
	cfg.ScaleCap = 2

	rep := run(t, cfg, []sim.MonthTrades{month("2024-01", 100)})
	assert.InDelta(t, 10200.0, rep.Equity.Median, 1e-9)
}

func TestReferenceBalanceScales(t *testing.T) {
	t.Parallel()

	cfg := testConfig(5)
	cfg.ReferenceBalance = 100000

	// 1000 recorded at 100k is 1% of the balance.
	rep := run(t, cfg, []sim.MonthTrades{month("2024-01", 1000)})
	assert.InDelta(t, 10100.0, rep.Equity.Median, 1e-9)
}

func TestDeterministicAcrossWorkers(t *testing.T) {
	t.Parallel()

	months := randomLedger()

	cfg := testConfig(200)
	cfg.Workers = 1
	one := run(t, cfg, months)
	cfg.Workers = 8
	many := run(t, cfg, months)

	assert.Equal(t, one, many)

	cfg.Seed = 7
	other := run(t, cfg, months)
	assert.NotEqual(t, one.Terminals, other.Terminals)
}

func TestSurvivalMonotonic(t *testing.T) {
	t.Parallel()

	cfg := testConfig(300)
	cfg.SurvivalThresholds = []float64{10, 0.5, 2, 1, 4}
	rep := run(t, cfg, randomLedger())

	require.Len(t, rep.Survival, 5)
	for i := 1; i < len(rep.Survival); i++ {
		assert.Less(t, rep.Survival[i-1].ThresholdPct, rep.Survival[i].ThresholdPct)
		assert.LessOrEqual(t, rep.Survival[i-1].Rate, rep.Survival[i].Rate)
	}
	for _, s := range rep.Survival {
		assert.GreaterOrEqual(t, s.Rate, 0.0)
		assert.LessOrEqual(t, s.Rate, 1.0)
	}
}

func TestWorstPath(t *testing.T) {
	t.Parallel()

	rep := run(t, testConfig(100), randomLedger())

	require.GreaterOrEqual(t, rep.WorstPath, 0)
	assert.Equal(t, rep.Drawdown.Max, rep.WorstDrawdown)
	assert.Equal(t, rep.Terminals[rep.WorstPath], rep.WorstTerminal)
	for i := 0; i < rep.WorstPath; i++ {
		assert.Less(t, rep.Drawdowns[i], rep.WorstDrawdown)
	}
}

func TestLedgerNotMutated(t *testing.T) {
	t.Parallel()

	months := randomLedger()
	want := randomLedger()

	run(t, testConfig(50), months)
	assert.Equal(t, want, months)
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := NewResampler(testConfig(100)).Run(ctx, randomLedger())
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, rep)
}

func TestRunInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig(0)
	_, err := NewResampler(cfg).Run(context.Background(), nil)
	assert.Error(t, err)
}
