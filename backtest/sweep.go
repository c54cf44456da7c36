package backtest

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rustyeddy/monthguard/market"
	"github.com/rustyeddy/monthguard/sim"
)

// Grid lists the values to sweep per parameter. An empty dimension keeps
// the base value.
type Grid struct {
	Fast     []int     `json:"ema_fast" yaml:"ema_fast"`
	Medium   []int     `json:"ema_medium" yaml:"ema_medium"`
	Slow     []int     `json:"ema_slow" yaml:"ema_slow"`
	RSIMax   []float64 `json:"rsi_max" yaml:"rsi_max"`
	RSIMin   []float64 `json:"rsi_min" yaml:"rsi_min"`
	SLATR    []float64 `json:"sl_atr_multiplier" yaml:"sl_atr_multiplier"`
	TPATR    []float64 `json:"tp_atr_multiplier" yaml:"tp_atr_multiplier"`
	BaseRisk []float64 `json:"base_risk_pct" yaml:"base_risk_pct"`
}

func orInt(xs []int, def int) []int {
	if len(xs) == 0 {
		return []int{def}
	}
	return xs
}

func orFloat(xs []float64, def float64) []float64 {
	if len(xs) == 0 {
		return []float64{def}
	}
	return xs
}

// Variants expands the Cartesian product over base. Combinations whose
// spans are not strictly increasing (fast < medium < slow) or that fail
// validation are dropped.
func (g Grid) Variants(base sim.Config) []Variant {
	var out []Variant
	for _, fast := range orInt(g.Fast, base.Indicators.Fast) {
		for _, medium := range orInt(g.Medium, base.Indicators.Medium) {
			for _, slow := range orInt(g.Slow, base.Indicators.Slow) {
				if !(fast < medium && medium < slow) {
					continue
				}
				for _, rsiMax := range orFloat(g.RSIMax, base.Signal.RSIMax) {
					for _, rsiMin := range orFloat(g.RSIMin, base.Signal.RSIMin) {
						for _, sl := range orFloat(g.SLATR, base.Sizing.SLATRMultiplier) {
							for _, tp := range orFloat(g.TPATR, base.Sizing.TPATRMultiplier) {
								for _, risk := range orFloat(g.BaseRisk, base.Sizing.BaseRiskPct) {
									cfg := base
									cfg.Indicators.Fast = fast
									cfg.Indicators.Medium = medium
									cfg.Indicators.Slow = slow
									cfg.Signal.RSIMax = rsiMax
									cfg.Signal.RSIMin = rsiMin
									cfg.Sizing.SLATRMultiplier = sl
									cfg.Sizing.TPATRMultiplier = tp
									cfg.Sizing.BaseRiskPct = risk
									if cfg.Validate() != nil {
										continue
									}
									out = append(out, Variant{Name: variantName(cfg), Config: cfg})
								}
							}
						}
					}
				}
			}
		}
	}
	return out
}

func variantName(c sim.Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ema=%d/%d/%d", c.Indicators.Fast, c.Indicators.Medium, c.Indicators.Slow)
	fmt.Fprintf(&b, " rsi=%g/%g", c.Signal.RSIMin, c.Signal.RSIMax)
	fmt.Fprintf(&b, " sl=%g tp=%g risk=%g", c.Sizing.SLATRMultiplier, c.Sizing.TPATRMultiplier, c.Sizing.BaseRiskPct)
	return b.String()
}

// Sweep evaluates every grid combination in parallel and ranks them by
// average monthly return, best first. Ties keep grid order.
func Sweep(ctx context.Context, base sim.Config, grid Grid, bars market.Bars, opts Options) ([]VariantResult, error) {
	variants := grid.Variants(base)
	if len(variants) == 0 {
		return nil, fmt.Errorf("backtest: sweep grid has no valid combination")
	}
	results, err := evaluate(ctx, variants, bars, opts)
	if err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}
	slices.SortStableFunc(results, func(a, b VariantResult) int {
		switch {
		case a.Summary.AvgMonthlyReturnPct > b.Summary.AvgMonthlyReturnPct:
			return -1
		case a.Summary.AvgMonthlyReturnPct < b.Summary.AvgMonthlyReturnPct:
			return 1
		}
		return 0
	})
	return results, nil
}
