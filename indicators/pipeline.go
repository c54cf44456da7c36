package indicators

import (
	"fmt"

	"github.com/rustyeddy/monthguard/market"
)

// Config selects the indicator spans.
type Config struct {
	Fast      int `json:"ema_fast" yaml:"ema_fast"`
	Medium    int `json:"ema_medium" yaml:"ema_medium"`
	Slow      int `json:"ema_slow" yaml:"ema_slow"`
	RSIPeriod int `json:"rsi_period" yaml:"rsi_period"`
	ATRPeriod int `json:"atr_period" yaml:"atr_period"`

	// WarmUp is the first bar index the simulation acts on. It is raised to
	// the longest indicator span when configured lower.
	WarmUp int `json:"warm_up" yaml:"warm_up"`
}

// DefaultConfig returns the 5/13/50 triad with 14 bar RSI and ATR.
func DefaultConfig() Config {
	return Config{
		Fast:      5,
		Medium:    13,
		Slow:      50,
		RSIPeriod: 14,
		ATRPeriod: 14,
		WarmUp:    100,
	}
}

func (c Config) Validate() error {
	if c.Fast <= 0 || c.Medium <= 0 || c.Slow <= 0 {
		return fmt.Errorf("ema spans must be positive")
	}
	if c.RSIPeriod <= 0 {
		return fmt.Errorf("rsi_period must be positive")
	}
	if c.ATRPeriod <= 0 {
		return fmt.Errorf("atr_period must be positive")
	}
	if c.WarmUp < 0 {
		return fmt.Errorf("warm_up must not be negative")
	}
	return nil
}

// EffectiveWarmUp is the index of the first bar the simulation may act on.
// Snapshot WarmUp-1 is the first one a signal reads, and it is always ready.
func (c Config) EffectiveWarmUp() int {
	return max(c.WarmUp, c.Fast, c.Medium, c.Slow, c.RSIPeriod, c.ATRPeriod)
}

// Snapshot holds the indicator values after a bar closed.
type Snapshot struct {
	EMAFast   float64
	EMAMedium float64
	EMASlow   float64
	RSI       float64
	ATR       float64

	// Ready is false until every indicator has warmed up.
	Ready bool
}

// Compute derives one snapshot per bar. Snapshot i depends only on bars[0..i].
func Compute(bars market.Bars, cfg Config) []Snapshot {
	fast := NewEMA(cfg.Fast)
	medium := NewEMA(cfg.Medium)
	slow := NewEMA(cfg.Slow)
	rsi := NewRSI(cfg.RSIPeriod)
	atr := NewRangeATR(cfg.ATRPeriod)

	all := []Indicator{fast, medium, slow, rsi, atr}

	out := make([]Snapshot, len(bars))
	for i, b := range bars {
		ready := true
		for _, ind := range all {
			ind.Update(b)
			ready = ready && ind.Ready()
		}
		out[i] = Snapshot{
			EMAFast:   fast.Value(),
			EMAMedium: medium.Value(),
			EMASlow:   slow.Value(),
			RSI:       rsi.Value(),
			ATR:       atr.Value(),
			Ready:     ready,
		}
	}
	return out
}
