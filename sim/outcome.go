package sim

import (
	"fmt"
	"math"

	"github.com/rustyeddy/monthguard/market"
	"github.com/rustyeddy/monthguard/risk"
	"github.com/rustyeddy/monthguard/strategies"
)

// OutcomeConfig parameterizes the stochastic trade resolution.
type OutcomeConfig struct {
	BaseWinProb         float64 `json:"base_win_prob" yaml:"base_win_prob"`
	ImpulseWinProb      float64 `json:"impulse_win_prob" yaml:"impulse_win_prob"`
	ImpulseConditioning bool    `json:"impulse_conditioning" yaml:"impulse_conditioning"`
	// BreakoutThreshold is the fraction of ATR a bar body must exceed to
	// count as an impulse bar.
	BreakoutThreshold float64 `json:"breakout_threshold" yaml:"breakout_threshold"`

	FrictionPerUnit      float64 `json:"friction_per_unit" yaml:"friction_per_unit"`
	StressMode           bool    `json:"stress_mode" yaml:"stress_mode"`
	StressSpikeMagnitude float64 `json:"stress_spike_magnitude" yaml:"stress_spike_magnitude"`
	StressWinPenalty     float64 `json:"stress_win_penalty" yaml:"stress_win_penalty"`

	Seed uint64 `json:"seed" yaml:"seed"`
}

func DefaultOutcomeConfig() OutcomeConfig {
	return OutcomeConfig{
		BaseWinProb:         0.82,
		ImpulseWinProb:      0.92,
		ImpulseConditioning: true,
		BreakoutThreshold:   0.2,
		FrictionPerUnit:     0.05,
		StressWinPenalty:    0.05,
		Seed:                42,
	}
}

func (c OutcomeConfig) Validate() error {
	if c.BaseWinProb < 0 || c.BaseWinProb > 1 {
		return fmt.Errorf("base_win_prob must be in [0, 1]")
	}
	if c.ImpulseWinProb < 0 || c.ImpulseWinProb > 1 {
		return fmt.Errorf("impulse_win_prob must be in [0, 1]")
	}
	if c.BreakoutThreshold < 0 {
		return fmt.Errorf("breakout_threshold must not be negative")
	}
	if c.FrictionPerUnit < 0 {
		return fmt.Errorf("friction_per_unit must not be negative")
	}
	if c.StressSpikeMagnitude < 0 {
		return fmt.Errorf("stress_spike_magnitude must not be negative")
	}
	if c.StressWinPenalty < 0 {
		return fmt.Errorf("stress_win_penalty must not be negative")
	}
	return nil
}

// OutcomeInput is what a model may look at when resolving a trade.
type OutcomeInput struct {
	// Bar is the decision bar. Its body is known only after the fact, which
	// is exactly the information the impulse model conditions on.
	Bar    market.Bar
	ATR    float64
	Signal strategies.Signal
	Plan   risk.Plan
}

type Outcome struct {
	WinProbability float64
	Win            bool
	Friction       float64
	PnL            float64
}

// OutcomeModel turns a sized trade and one uniform draw in [0,1) into a
// realized profit or loss. Implementations must be pure functions of their
// arguments so a seeded run replays exactly.
type OutcomeModel interface {
	Resolve(in OutcomeInput, u float64) Outcome
}

// ImpulseModel wins with a higher probability on bars whose body is large
// relative to ATR and charges a per unit friction on every trade.
type ImpulseModel struct {
	cfg OutcomeConfig
}

func NewImpulseModel(cfg OutcomeConfig) *ImpulseModel {
	return &ImpulseModel{cfg: cfg}
}

// WinProbability is the chance the trade described by in reaches its target.
func (m *ImpulseModel) WinProbability(in OutcomeInput) float64 {
	p := m.cfg.BaseWinProb
	if m.cfg.ImpulseConditioning && in.Bar.Body() > in.ATR*m.cfg.BreakoutThreshold {
		p = m.cfg.ImpulseWinProb
	}
	if m.cfg.StressMode {
		p -= m.cfg.StressSpikeMagnitude * m.cfg.StressWinPenalty
	}
	return math.Max(0, math.Min(1, p))
}

func (m *ImpulseModel) frictionPerUnit() float64 {
	f := m.cfg.FrictionPerUnit
	if m.cfg.StressMode {
		f += m.cfg.StressSpikeMagnitude
	}
	return f
}

func (m *ImpulseModel) Resolve(in OutcomeInput, u float64) Outcome {
	p := m.WinProbability(in)
	win := u < p

	gross := -in.Plan.StopDistance * in.Plan.Units
	if win {
		gross = in.Plan.TargetDistance * in.Plan.Units
	}
	friction := in.Plan.Units * m.frictionPerUnit()

	return Outcome{
		WinProbability: p,
		Win:            win,
		Friction:       friction,
		PnL:            gross - friction,
	}
}
