package market

import (
	"fmt"
	"time"
)

// Bar is a single daily OHLC candle. Bars are immutable once loaded.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Range is the bar's own high-low span.
func (b Bar) Range() float64 {
	return b.High - b.Low
}

// Body is the absolute open-close move of the bar.
func (b Bar) Body() float64 {
	if b.Close > b.Open {
		return b.Close - b.Open
	}
	return b.Open - b.Close
}

// Bars is a time ordered bar sequence for a single instrument.
type Bars []Bar

// Validate checks that timestamps are strictly increasing.
func (bs Bars) Validate() error {
	for i := 1; i < len(bs); i++ {
		prev, cur := bs[i-1].Time, bs[i].Time
		if cur.Equal(prev) {
			return fmt.Errorf("duplicate bar at index %d (%s)", i, cur.Format(time.DateOnly))
		}
		if cur.Before(prev) {
			return fmt.Errorf("bar %d (%s) is before bar %d (%s)",
				i, cur.Format(time.DateOnly), i-1, prev.Format(time.DateOnly))
		}
	}
	return nil
}

// Between returns the bars with start <= Time < end. A zero start or end
// leaves that side open. The result shares the backing array.
func (bs Bars) Between(start, end time.Time) Bars {
	lo, hi := 0, len(bs)
	if !start.IsZero() {
		for lo < len(bs) && bs[lo].Time.Before(start) {
			lo++
		}
	}
	if !end.IsZero() {
		hi = lo
		for hi < len(bs) && bs[hi].Time.Before(end) {
			hi++
		}
	}
	return bs[lo:hi]
}

// Span returns the first and last timestamps, zero when empty.
func (bs Bars) Span() (start, end time.Time) {
	if len(bs) == 0 {
		return
	}
	return bs[0].Time, bs[len(bs)-1].Time
}
