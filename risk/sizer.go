package risk

import (
	"fmt"
	"math"
)

// SizerConfig controls headroom throttled position sizing.
type SizerConfig struct {
	// BaseRiskPct is the percent of balance a trade risks when the month
	// has plenty of drawdown budget left.
	BaseRiskPct float64 `json:"base_risk_pct" yaml:"base_risk_pct"`

	// ThrottleFactor caps a single trade at this share of the remaining
	// monthly drawdown headroom.
	ThrottleFactor float64 `json:"throttle_factor" yaml:"throttle_factor"`

	SLATRMultiplier float64 `json:"sl_atr_multiplier" yaml:"sl_atr_multiplier"`
	TPATRMultiplier float64 `json:"tp_atr_multiplier" yaml:"tp_atr_multiplier"`

	// LosingMonthRiskScale multiplies BaseRiskPct while the month is under
	// water. 1 disables it.
	LosingMonthRiskScale float64 `json:"losing_month_risk_scale" yaml:"losing_month_risk_scale"`
}

func DefaultSizerConfig() SizerConfig {
	return SizerConfig{
		BaseRiskPct:          1.5,
		ThrottleFactor:       0.45,
		SLATRMultiplier:      1.0,
		TPATRMultiplier:      5.0,
		LosingMonthRiskScale: 1.0,
	}
}

func (c SizerConfig) Validate() error {
	if c.BaseRiskPct <= 0 || c.BaseRiskPct > 100 {
		return fmt.Errorf("base_risk_pct must be in (0, 100]")
	}
	if c.ThrottleFactor <= 0 {
		return fmt.Errorf("throttle_factor must be positive")
	}
	if c.SLATRMultiplier <= 0 {
		return fmt.Errorf("sl_atr_multiplier must be positive")
	}
	if c.TPATRMultiplier <= 0 {
		return fmt.Errorf("tp_atr_multiplier must be positive")
	}
	if c.LosingMonthRiskScale <= 0 || c.LosingMonthRiskScale > 1 {
		return fmt.Errorf("losing_month_risk_scale must be in (0, 1]")
	}
	return nil
}

// Plan is a sized trade before its outcome is known.
type Plan struct {
	RiskFraction   float64
	StopDistance   float64
	TargetDistance float64
	Units          float64
}

// RR is the reward to risk multiple of the plan.
func (p Plan) RR() float64 {
	if p.StopDistance == 0 {
		return 0
	}
	return p.TargetDistance / p.StopDistance
}

// RiskAmount is the balance lost if the stop is hit, before friction.
func (p Plan) RiskAmount() float64 {
	return p.Units * p.StopDistance
}

type Sizer struct {
	SizerConfig
}

func NewSizer(cfg SizerConfig) *Sizer {
	return &Sizer{SizerConfig: cfg}
}

// Size converts the guard's headroom into a trade plan. It returns false
// when the stop distance is not a positive number or no headroom is left;
// the caller drops the signal.
func (s *Sizer) Size(balance, atr, headroom, monthReturnPct float64) (Plan, bool) {
	stop := atr * s.SLATRMultiplier
	if !(stop > 0) || !finite(stop) {
		return Plan{}, false
	}
	if !(headroom > 0) || !(balance > 0) {
		return Plan{}, false
	}

	base := s.BaseRiskPct
	if monthReturnPct < 0 {
		base *= s.LosingMonthRiskScale
	}
	fraction := math.Min(base, headroom*s.ThrottleFactor) / 100

	return Plan{
		RiskFraction:   fraction,
		StopDistance:   stop,
		TargetDistance: stop * s.TPATRMultiplier,
		Units:          balance * fraction / stop,
	}, true
}
