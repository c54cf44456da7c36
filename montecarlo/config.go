package montecarlo

import (
	"fmt"

	"github.com/rustyeddy/monthguard/risk"
)

// Config controls a resampling run.
type Config struct {
	Paths int `json:"paths" yaml:"paths"`
	// StartBalance is the benchmark every path starts from.
	StartBalance float64 `json:"start_balance" yaml:"start_balance"`
	// ReferenceBalance is the balance the ledger pnl was recorded at. Each
	// pnl is scaled by balance/ReferenceBalance. Zero means StartBalance.
	ReferenceBalance   float64   `json:"reference_balance" yaml:"reference_balance"`
	ScaleCap           float64   `json:"scale_cap" yaml:"scale_cap"`
	RuinFloor          float64   `json:"ruin_floor" yaml:"ruin_floor"`
	SurvivalThresholds []float64 `json:"survival_thresholds" yaml:"survival_thresholds"`
	// Workers bounds the goroutines replaying paths. Zero means NumCPU.
	Workers int    `json:"workers" yaml:"workers"`
	Seed    uint64 `json:"seed" yaml:"seed"`

	// Guard is shared with the simulation and not configured here.
	Guard risk.GuardConfig `json:"-" yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		Paths:              1000,
		StartBalance:       10000,
		ScaleCap:           1e6,
		RuinFloor:          1.0,
		SurvivalThresholds: []float64{2, 4, 10},
		Seed:               42,
		Guard:              risk.DefaultGuardConfig(),
	}
}

func (c Config) Validate() error {
	if c.Paths <= 0 {
		return fmt.Errorf("paths must be positive")
	}
	if !(c.StartBalance > 0) {
		return fmt.Errorf("start_balance must be positive")
	}
	if c.ReferenceBalance < 0 {
		return fmt.Errorf("reference_balance must not be negative")
	}
	if !(c.ScaleCap > 0) {
		return fmt.Errorf("scale_cap must be positive")
	}
	if c.RuinFloor < 0 {
		return fmt.Errorf("ruin_floor must not be negative")
	}
	for _, th := range c.SurvivalThresholds {
		if th < 0 || th > 100 {
			return fmt.Errorf("survival threshold %v must be in [0, 100]", th)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return c.Guard.Validate()
}

func (c Config) reference() float64 {
	if c.ReferenceBalance > 0 {
		return c.ReferenceBalance
	}
	return c.StartBalance
}
