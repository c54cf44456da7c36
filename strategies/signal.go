// Package strategies maps indicator snapshots to directional signals.
package strategies

import (
	"fmt"

	"github.com/rustyeddy/monthguard/indicators"
)

// Signal is the direction a strategy wants for the next bar.
type Signal int8

const (
	None  Signal = 0
	Long  Signal = +1
	Short Signal = -1
)

func (s Signal) String() string {
	switch s {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return "none"
	}
}

// Generator decides a signal from the snapshot of the bar that precedes
// the decision bar.
type Generator interface {
	Name() string
	Signal(prev indicators.Snapshot) Signal
}

// TriadConfig bounds the RSI filter of the EMA triad.
type TriadConfig struct {
	RSIMax float64 `json:"rsi_max" yaml:"rsi_max"`
	RSIMin float64 `json:"rsi_min" yaml:"rsi_min"`
}

func DefaultTriadConfig() TriadConfig {
	return TriadConfig{RSIMax: 75, RSIMin: 25}
}

func (c TriadConfig) Validate() error {
	if c.RSIMax <= 0 || c.RSIMax > 100 {
		return fmt.Errorf("rsi_max must be in (0, 100]")
	}
	if c.RSIMin < 0 || c.RSIMin >= 100 {
		return fmt.Errorf("rsi_min must be in [0, 100)")
	}
	return nil
}

// Triad goes long when fast > medium > slow with RSI below RSIMax and short
// on the mirrored stack with RSI above RSIMin. Equal EMAs never signal.
type Triad struct {
	TriadConfig
}

func NewTriad(cfg TriadConfig) *Triad {
	return &Triad{TriadConfig: cfg}
}

func (t *Triad) Name() string {
	return "ema-triad"
}

func (t *Triad) Signal(prev indicators.Snapshot) Signal {
	if !prev.Ready {
		return None
	}
	f, m, s := prev.EMAFast, prev.EMAMedium, prev.EMASlow
	switch {
	case f > m && m > s && prev.RSI < t.RSIMax:
		return Long
	case f < m && m < s && prev.RSI > t.RSIMin:
		return Short
	}
	return None
}
