// Package indicators derives the causal technical indicators the simulation
// reads: an EMA triad, RSI and a range based ATR.
package indicators

import "github.com/rustyeddy/monthguard/market"

// Indicator computes a single streaming value from bars.
// It is deterministic and only ever looks at bars it has been given.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)" or "RSI(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready() is true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next closed bar.
	Update(b market.Bar)

	// Ready reports whether Value() is meaningful.
	Ready() bool

	// Value returns the current indicator value. Callers check Ready() first.
	Value() float64
}
