package indicators

import (
	"testing"
	"time"

	"github.com/rustyeddy/monthguard/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closes(vals ...float64) market.Bars {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make(market.Bars, len(vals))
	for i, v := range vals {
		bars[i] = market.Bar{Time: base.AddDate(0, 0, i), Open: v, High: v + 1, Low: v - 1, Close: v}
	}
	return bars
}

func TestEMAStreaming(t *testing.T) {
	t.Parallel()

	bars := closes(102, 105, 106, 108)

	t.Run("adjusted weights", func(t *testing.T) {
		ema := NewEMA(3)
		assert.Equal(t, "EMA(3)", ema.Name())
		assert.Equal(t, 3, ema.Warmup())
		assert.Equal(t, 0.0, ema.Value())

		ema.Update(bars[0])
		assert.False(t, ema.Ready())
		assert.InDelta(t, 102.0, ema.Value(), 1e-9)

		// alpha = 0.5: (105 + 0.5*102) / (1 + 0.5)
		ema.Update(bars[1])
		assert.InDelta(t, 104.0, ema.Value(), 1e-9)

		ema.Update(bars[2])
		assert.True(t, ema.Ready())
		assert.InDelta(t, 184.0/1.75, ema.Value(), 1e-9)
	})

	t.Run("converges to the plain recurrence", func(t *testing.T) {
		ema := NewEMA(3)
		var plain float64
		for i := 0; i < 200; i++ {
			b := market.Bar{Close: float64(100 + i%7)}
			ema.Update(b)
			if i == 0 {
				plain = b.Close
			} else {
				plain = 0.5*b.Close + 0.5*plain
			}
		}
		assert.InDelta(t, plain, ema.Value(), 1e-9)
	})

	t.Run("reset", func(t *testing.T) {
		ema := NewEMA(2)
		ema.Update(bars[0])
		ema.Update(bars[1])
		assert.True(t, ema.Ready())

		ema.Reset()
		assert.False(t, ema.Ready())
		assert.Equal(t, 0.0, ema.Value())
	})
}

func TestRSIStreaming(t *testing.T) {
	t.Parallel()

	t.Run("mixed deltas", func(t *testing.T) {
		rsi := NewRSI(3)
		assert.Equal(t, "RSI(3)", rsi.Name())

		bars := closes(100, 102, 101, 104)
		rsi.Update(bars[0])
		rsi.Update(bars[1])
		assert.False(t, rsi.Ready())
		assert.Equal(t, 0.0, rsi.Value())

		// window [0, +2, -1]: rs = 2
		rsi.Update(bars[2])
		require.True(t, rsi.Ready())
		assert.InDelta(t, 100-100.0/3, rsi.Value(), 1e-6)

		// window [+2, -1, +3]: rs = 5
		rsi.Update(bars[3])
		assert.InDelta(t, 100-100.0/6, rsi.Value(), 1e-6)
	})

	t.Run("no losses stays finite", func(t *testing.T) {
		rsi := NewRSI(3)
		for _, b := range closes(1, 2, 3, 4, 5) {
			rsi.Update(b)
		}
		assert.InDelta(t, 100.0, rsi.Value(), 1e-6)
		assert.LessOrEqual(t, rsi.Value(), 100.0)
	})

	t.Run("no gains", func(t *testing.T) {
		rsi := NewRSI(3)
		for _, b := range closes(5, 4, 3, 2) {
			rsi.Update(b)
		}
		assert.InDelta(t, 0.0, rsi.Value(), 1e-9)
	})

	t.Run("reset", func(t *testing.T) {
		rsi := NewRSI(2)
		for _, b := range closes(1, 2, 3) {
			rsi.Update(b)
		}
		rsi.Reset()
		assert.False(t, rsi.Ready())
	})
}

func TestRangeATRStreaming(t *testing.T) {
	t.Parallel()

	bars := market.Bars{
		{High: 11, Low: 9},
		{High: 12, Low: 8},
		{High: 13, Low: 7},
		{High: 14, Low: 6},
	}

	atr := NewRangeATR(3)
	assert.Equal(t, "ATR(3)", atr.Name())
	assert.Equal(t, 3, atr.Warmup())

	atr.Update(bars[0])
	atr.Update(bars[1])
	assert.False(t, atr.Ready())

	atr.Update(bars[2])
	require.True(t, atr.Ready())
	assert.InDelta(t, 4.0, atr.Value(), 1e-12)

	atr.Update(bars[3])
	assert.InDelta(t, 6.0, atr.Value(), 1e-12)

	atr.Reset()
	assert.False(t, atr.Ready())
	assert.Equal(t, 0.0, atr.Value())
}

func TestIndicatorInterface(t *testing.T) {
	t.Parallel()

	var _ Indicator = &EMA{}
	var _ Indicator = &RSI{}
	var _ Indicator = &RangeATR{}

	bars := closes(10, 11, 12, 11, 13, 14)
	for _, ind := range []Indicator{NewEMA(3), NewRSI(3), NewRangeATR(3)} {
		assert.False(t, ind.Ready(), "%s should not be ready initially", ind.Name())
		for _, b := range bars {
			ind.Update(b)
		}
		assert.True(t, ind.Ready(), "%s should be ready after warmup", ind.Name())
		assert.Greater(t, ind.Value(), 0.0, "%s should have a positive value", ind.Name())
		ind.Reset()
		assert.False(t, ind.Ready(), "%s should not be ready after reset", ind.Name())
	}
}

func TestComputeIsCausal(t *testing.T) {
	t.Parallel()

	cfg := Config{Fast: 2, Medium: 3, Slow: 4, RSIPeriod: 3, ATRPeriod: 3}
	bars := closes(10, 11, 12, 11, 13, 14, 12, 15)

	full := Compute(bars, cfg)
	require.Len(t, full, len(bars))

	for n := 1; n <= len(bars); n++ {
		prefix := Compute(bars[:n], cfg)
		assert.Equal(t, full[:n], prefix, "prefix %d", n)
	}

	assert.False(t, full[2].Ready)
	assert.True(t, full[3].Ready)
}

func TestComputeEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Compute(nil, DefaultConfig()))
}

func TestConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 100, cfg.EffectiveWarmUp())

	cfg.WarmUp = 0
	assert.Equal(t, 50, cfg.EffectiveWarmUp())

	cfg.Slow = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.WarmUp = -1
	assert.Error(t, cfg.Validate())
}
