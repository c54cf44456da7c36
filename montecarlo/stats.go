package montecarlo

import (
	"math"
	"slices"
)

// Stats is a five point summary of a distribution.
type Stats struct {
	Min    float64
	P5     float64
	Median float64
	P95    float64
	Max    float64
}

// Summarize computes Stats over xs. xs is not modified.
func Summarize(xs []float64) Stats {
	if len(xs) == 0 {
		return Stats{}
	}
	s := slices.Clone(xs)
	slices.Sort(s)
	return Stats{
		Min:    s[0],
		P5:     percentile(s, 5),
		Median: percentile(s, 50),
		P95:    percentile(s, 95),
		Max:    s[len(s)-1],
	}
}

// Percentile returns the p-th percentile of xs using linear interpolation
// between closest ranks.
func Percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	s := slices.Clone(xs)
	slices.Sort(s)
	return percentile(s, p)
}

// percentile expects sorted input.
func percentile(sorted []float64, p float64) float64 {
	p = math.Max(0, math.Min(100, p))
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo))
}
