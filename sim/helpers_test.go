package sim

import (
	"math/rand/v2"
	"time"

	"github.com/rustyeddy/monthguard/indicators"
	"github.com/rustyeddy/monthguard/market"
	"github.com/rustyeddy/monthguard/strategies"
)

var jan1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// dailyBars returns n daily bars starting on jan1 with a constant range.
func dailyBars(n int, rng float64) market.Bars {
	bars := make(market.Bars, n)
	for i := range bars {
		c := 100 + float64(i)*0.1
		bars[i] = market.Bar{
			Time:  jan1.AddDate(0, 0, i),
			Open:  c - 0.05,
			High:  c + rng/2,
			Low:   c - rng/2,
			Close: c,
		}
	}
	return bars
}

// wavyBars is a seeded random walk whose drift flips every 40 bars. It
// produces both long and short triad signals.
func wavyBars(n int) market.Bars {
	r := rand.New(rand.NewPCG(1, 2))
	bars := make(market.Bars, n)
	price := 100.0
	for i := range bars {
		drift := 0.2
		if (i/40)%2 == 1 {
			drift = -0.2
		}
		open := price
		price += drift + 0.5*r.NormFloat64()
		bars[i] = market.Bar{
			Time:  jan1.Add(time.Duration(i) * 6 * time.Hour),
			Open:  open,
			High:  max(open, price) + 0.3,
			Low:   min(open, price) - 0.3,
			Close: price,
		}
	}
	return bars
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Indicators = indicators.Config{Fast: 2, Medium: 3, Slow: 4, RSIPeriod: 2, ATRPeriod: 2, WarmUp: 5}
	return cfg
}

type alwaysLong struct{}

func (alwaysLong) Name() string { return "always-long" }

func (alwaysLong) Signal(indicators.Snapshot) strategies.Signal { return strategies.Long }

// scriptedModel returns the scripted pnl values in order, cycling.
type scriptedModel struct {
	pnl   []float64
	calls int
}

func (m *scriptedModel) Resolve(_ OutcomeInput, _ float64) Outcome {
	p := m.pnl[m.calls%len(m.pnl)]
	m.calls++
	return Outcome{PnL: p, Win: p > 0, WinProbability: 0.5}
}

// fixedRand always draws the same value.
type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

func (fixedRand) Shuffle(int, func(i, j int)) {}
