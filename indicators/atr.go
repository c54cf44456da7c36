package indicators

import (
	"fmt"

	"github.com/rustyeddy/monthguard/market"
)

// RangeATR is a simplified average true range: the rolling mean of each
// bar's own high-low range. Gaps between bars are ignored.
type RangeATR struct {
	period int

	ranges []float64
	next   int
	filled int
}

// NewRangeATR creates a RangeATR over the given number of bars.
func NewRangeATR(period int) *RangeATR {
	return &RangeATR{
		period: period,
		ranges: make([]float64, period),
	}
}

func (a *RangeATR) Name() string {
	return fmt.Sprintf("ATR(%d)", a.period)
}

func (a *RangeATR) Warmup() int {
	return a.period
}

func (a *RangeATR) Reset() {
	for i := range a.ranges {
		a.ranges[i] = 0
	}
	a.next = 0
	a.filled = 0
}

func (a *RangeATR) Update(b market.Bar) {
	a.ranges[a.next] = b.Range()
	a.next = (a.next + 1) % a.period
	if a.filled < a.period {
		a.filled++
	}
}

func (a *RangeATR) Ready() bool {
	return a.filled >= a.period
}

func (a *RangeATR) Value() float64 {
	if !a.Ready() {
		return 0
	}
	sum := 0.0
	for _, r := range a.ranges {
		sum += r
	}
	return sum / float64(a.period)
}
