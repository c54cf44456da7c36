package risk

import "math"

// WorstDrawdownPct is the sentinel used whenever a drawdown cannot be
// computed from finite, positive inputs.
const WorstDrawdownPct = 100.0

// DrawdownPct returns the percentage decline of balance from high, clamped
// to [0, 100]. A non-positive or non-finite high water mark is the worst case.
func DrawdownPct(high, balance float64) float64 {
	if !(high > 0) || math.IsInf(high, 0) {
		return WorstDrawdownPct
	}
	dd := (high - balance) / high * 100
	if math.IsNaN(dd) || math.IsInf(dd, 0) {
		return WorstDrawdownPct
	}
	return clamp(dd, 0, WorstDrawdownPct)
}

// ReturnPct returns the percentage change of balance from start. A start
// balance that is not positive, or a non-finite balance, reports -100.
func ReturnPct(start, balance float64) float64 {
	if !(start > 0) || math.IsInf(start, 0) || math.IsNaN(balance) || math.IsInf(balance, 0) {
		return -100
	}
	return (balance - start) / start * 100
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
