package indicators

import (
	"fmt"

	"github.com/rustyeddy/monthguard/market"
)

// EMA is a streaming exponential moving average of closes with smoothing
// factor 2/(span+1).
//
// The average is bias adjusted: numerator and denominator of the weighted
// mean both decay by (1-alpha), so the first close seeds the value and early
// values are not dragged toward zero. Ready() reports true once span closes
// have been seen.
type EMA struct {
	span  int
	decay float64

	num   float64
	den   float64
	count int
}

// NewEMA creates an EMA with the given span.
func NewEMA(span int) *EMA {
	alpha := 2.0 / float64(span+1)
	return &EMA{
		span:  span,
		decay: 1 - alpha,
	}
}

func (e *EMA) Name() string {
	return fmt.Sprintf("EMA(%d)", e.span)
}

func (e *EMA) Warmup() int {
	return e.span
}

func (e *EMA) Reset() {
	e.num = 0
	e.den = 0
	e.count = 0
}

func (e *EMA) Update(b market.Bar) {
	e.num = b.Close + e.decay*e.num
	e.den = 1 + e.decay*e.den
	e.count++
}

func (e *EMA) Ready() bool {
	return e.count >= e.span
}

// Value returns the adjusted average. It is defined from the first update
// even though Ready() waits for the full span.
func (e *EMA) Value() float64 {
	if e.count == 0 {
		return 0
	}
	return e.num / e.den
}
