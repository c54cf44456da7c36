package backtest

import (
	"math/rand/v2"
	"time"

	"github.com/rustyeddy/monthguard/config"
	"github.com/rustyeddy/monthguard/indicators"
	"github.com/rustyeddy/monthguard/market"
)

var start = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

// walk is a seeded 6 hour random walk whose drift flips every 60 bars.
func walk(n int, seed uint64) market.Bars {
	r := rand.New(rand.NewPCG(seed, 99))
	bars := make(market.Bars, n)
	price := 100.0
	for i := range bars {
		drift := 0.15
		if (i/60)%2 == 1 {
			drift = -0.15
		}
		open := price
		price += drift + 0.5*r.NormFloat64()
		bars[i] = market.Bar{
			Time:  start.Add(time.Duration(i) * 6 * time.Hour),
			Open:  open,
			High:  max(open, price) + 0.25,
			Low:   min(open, price) - 0.25,
			Close: price,
		}
	}
	return bars
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Indicators = indicators.Config{Fast: 3, Medium: 8, Slow: 20, RSIPeriod: 5, ATRPeriod: 5, WarmUp: 20}
	cfg.MonteCarlo.Paths = 100
	cfg.MonteCarlo.Workers = 2
	cfg.Journal = config.JournalConfig{}
	return cfg
}
