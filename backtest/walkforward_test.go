package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Window
		wantErr bool
	}{
		{in: "is:2020-01-01:2023-01-01", want: Window{Label: "is", Start: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}},
		{in: "oos:2023-01-01:", want: Window{Label: "oos", Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}},
		{in: "all::", want: Window{Label: "all"}},
		{in: "nolabel", wantErr: true},
		{in: ":2020-01-01:2021-01-01", wantErr: true},
		{in: "bad:2020-13-01:", wantErr: true},
		{in: "backwards:2021-01-01:2020-01-01", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseWindow(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWalkForward(t *testing.T) {
	t.Parallel()

	cfg := testConfig().Engine()
	bars := walk(1200, 4)
	split := bars[700].Time

	results, err := WalkForward(context.Background(), cfg, bars, SplitWindows(split), Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	is, oos := results[0], results[1]
	assert.Equal(t, "in-sample", is.Label)
	assert.Equal(t, "out-of-sample", oos.Label)
	assert.Equal(t, 700, is.Bars)
	assert.Equal(t, 500, oos.Bars)

	warm := cfg.Indicators.EffectiveWarmUp()
	assert.Len(t, is.Result.Equity, 700-warm)
	assert.Len(t, oos.Result.Equity, 500-warm)
	assert.Equal(t, split, oos.Result.Equity[0].Time.Add(-time.Duration(warm)*6*time.Hour))
	assert.Equal(t, is.Result.Ledger.Len(), is.Summary.Trades)
}

func TestWalkForwardEmptyWindow(t *testing.T) {
	t.Parallel()

	far := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	results, err := WalkForward(context.Background(), testConfig().Engine(), walk(300, 5),
		[]Window{{Label: "future", Start: far}}, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Zero(t, results[0].Bars)
	assert.Zero(t, results[0].Summary.Trades)
}
