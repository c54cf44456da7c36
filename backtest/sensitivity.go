package backtest

import (
	"context"
	"fmt"
	"math"

	"github.com/rustyeddy/monthguard/market"
	"github.com/rustyeddy/monthguard/sim"
)

// StabilityRatio is the largest std/mean of average monthly returns across
// variants for which a configuration is called stable.
const StabilityRatio = 0.15

var (
	DefaultEMAShifts       = []int{-2, -1, 0, 1, 2}
	DefaultRiskLevels = []float64{1.0, 1.25, 1.5, 1.75}
)

// EMAShiftVariants shifts the fast span by s and the medium span by 2s for
// every s. Shifts that make a span non-positive are skipped.
func EMAShiftVariants(base sim.Config, shifts []int) []Variant {
	var out []Variant
	for _, s := range shifts {
		cfg := base
		cfg.Indicators.Fast += s
		cfg.Indicators.Medium += 2 * s
		if cfg.Indicators.Fast <= 0 || cfg.Indicators.Medium <= 0 {
			continue
		}
		out = append(out, Variant{
			Name:   fmt.Sprintf("ema %d/%d/%d", cfg.Indicators.Fast, cfg.Indicators.Medium, cfg.Indicators.Slow),
			Config: cfg,
		})
	}
	return out
}

// RiskVariants sets the base risk to each level, in percent.
func RiskVariants(base sim.Config, levels []float64) []Variant {
	out := make([]Variant, 0, len(levels))
	for _, r := range levels {
		cfg := base
		cfg.Sizing.BaseRiskPct = r
		out = append(out, Variant{
			Name:   fmt.Sprintf("risk %.3g%%", cfg.Sizing.BaseRiskPct),
			Config: cfg,
		})
	}
	return out
}

type SensitivityReport struct {
	Variants []VariantResult
	// Mean and Std are over the variants' average monthly returns.
	Mean   float64
	Std    float64
	Stable bool
}

// Sensitivity evaluates variants and judges how much the average monthly
// return moves between them.
func Sensitivity(ctx context.Context, variants []Variant, bars market.Bars, opts Options) (*SensitivityReport, error) {
	if len(variants) == 0 {
		return nil, fmt.Errorf("backtest: no variants")
	}
	results, err := evaluate(ctx, variants, bars, opts)
	if err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}

	rep := &SensitivityReport{Variants: results}
	for _, r := range results {
		rep.Mean += r.Summary.AvgMonthlyReturnPct
	}
	rep.Mean /= float64(len(results))
	for _, r := range results {
		d := r.Summary.AvgMonthlyReturnPct - rep.Mean
		rep.Std += d * d
	}
	rep.Std = math.Sqrt(rep.Std / float64(len(results)))
	rep.Stable = rep.Mean > 0 && rep.Std < StabilityRatio*rep.Mean
	return rep, nil
}
