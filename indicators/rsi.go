package indicators

import (
	"fmt"

	"github.com/rustyeddy/monthguard/market"
)

// RSIEpsilon keeps the relative strength finite when the window has no
// losing closes.
const RSIEpsilon = 1e-9

// RSI is a streaming relative strength index over simple rolling means of
// gains and losses.
//
// The first bar contributes a zero delta, so the indicator is ready after
// period bars.
type RSI struct {
	period int

	deltas []float64
	next   int
	filled int

	prevClose float64
	havePrev  bool
}

// NewRSI creates an RSI over the given number of close deltas.
func NewRSI(period int) *RSI {
	return &RSI{
		period: period,
		deltas: make([]float64, period),
	}
}

func (r *RSI) Name() string {
	return fmt.Sprintf("RSI(%d)", r.period)
}

func (r *RSI) Warmup() int {
	return r.period
}

func (r *RSI) Reset() {
	for i := range r.deltas {
		r.deltas[i] = 0
	}
	r.next = 0
	r.filled = 0
	r.prevClose = 0
	r.havePrev = false
}

func (r *RSI) Update(b market.Bar) {
	d := 0.0
	if r.havePrev {
		d = b.Close - r.prevClose
	}
	r.prevClose = b.Close
	r.havePrev = true

	r.deltas[r.next] = d
	r.next = (r.next + 1) % r.period
	if r.filled < r.period {
		r.filled++
	}
}

func (r *RSI) Ready() bool {
	return r.filled >= r.period
}

func (r *RSI) Value() float64 {
	if !r.Ready() {
		return 0
	}
	var gain, loss float64
	for _, d := range r.deltas {
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	p := float64(r.period)
	rs := (gain / p) / (loss/p + RSIEpsilon)
	return 100 - 100/(1+rs)
}
