package backtest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/monthguard/market"
	"github.com/rustyeddy/monthguard/sim"
)

// Window is a labelled date range, Start inclusive and End exclusive. A zero
// bound is open.
type Window struct {
	Label string
	Start time.Time
	End   time.Time
}

type WindowResult struct {
	Window
	Bars    int
	Result  *sim.Result
	Summary sim.Summary
}

// SplitWindows returns an in-sample window before split and an
// out-of-sample window from split on.
func SplitWindows(split time.Time) []Window {
	return []Window{
		{Label: "in-sample", End: split},
		{Label: "out-of-sample", Start: split},
	}
}

// ParseWindow parses "label:start:end" with dates as 2006-01-02. Either date
// may be empty.
func ParseWindow(s string) (Window, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || parts[0] == "" {
		return Window{}, fmt.Errorf("window %q: want label:start:end", s)
	}
	w := Window{Label: parts[0]}
	var err error
	if parts[1] != "" {
		if w.Start, err = time.Parse(time.DateOnly, parts[1]); err != nil {
			return Window{}, fmt.Errorf("window %q: %w", s, err)
		}
	}
	if parts[2] != "" {
		if w.End, err = time.Parse(time.DateOnly, parts[2]); err != nil {
			return Window{}, fmt.Errorf("window %q: %w", s, err)
		}
	}
	if !w.Start.IsZero() && !w.End.IsZero() && !w.Start.Before(w.End) {
		return Window{}, fmt.Errorf("window %q: start must be before end", s)
	}
	return w, nil
}

// WalkForward runs cfg independently on each window. Indicators are
// recomputed from the window's own bars, so each window pays its own
// warm-up.
func WalkForward(ctx context.Context, cfg sim.Config, bars market.Bars, windows []Window, opts Options) ([]WindowResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}
	if err := bars.Validate(); err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}

	out := make([]WindowResult, 0, len(windows))
	for _, w := range windows {
		slice := bars.Between(w.Start, w.End)
		res, err := sim.NewEngine(cfg, sim.WithLogger(opts.logger())).Run(ctx, slice)
		if err != nil {
			return nil, fmt.Errorf("backtest: window %s: %w", w.Label, err)
		}
		out = append(out, WindowResult{
			Window:  w,
			Bars:    len(slice),
			Result:  res,
			Summary: res.Summary(opts.successPct()),
		})
	}
	return out, nil
}
