package montecarlo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile(t *testing.T) {
	t.Parallel()

	xs := []float64{4, 1, 3, 2}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{5, 1.15},
		{50, 2.5},
		{95, 3.85},
		{100, 4},
		{150, 4},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Percentile(xs, tt.p), 1e-12, "p=%v", tt.p)
	}
	assert.Equal(t, []float64{4, 1, 3, 2}, xs)
	assert.True(t, math.IsNaN(Percentile(nil, 50)))
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Stats{}, Summarize(nil))
	assert.Equal(t, Stats{7, 7, 7, 7, 7}, Summarize([]float64{7}))

	s := Summarize([]float64{5, 1, 3})
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 5.0, s.Max)
	assert.InDelta(t, 1.2, s.P5, 1e-12)
	assert.InDelta(t, 4.8, s.P95, 1e-12)
}
