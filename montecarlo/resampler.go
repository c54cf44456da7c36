// Package montecarlo estimates the distribution of outcomes of a simulated
// ledger by replaying it in shuffled month and trade order.
package montecarlo

import (
	"context"
	"math"
	"runtime"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/monthguard/risk"
	"github.com/rustyeddy/monthguard/sim"
)

// Path is the state of one replay. The month high-water mark lives in the
// guard each shuffled month starts.
type Path struct {
	Balance     float64
	HighWater   float64
	MaxDrawdown float64
	Ruined      bool
}

// Survival is the share of paths whose max drawdown stayed at or below
// ThresholdPct.
type Survival struct {
	ThresholdPct float64
	Rate         float64
}

type Report struct {
	TotalPaths   int
	StartBalance float64

	Survival []Survival
	Equity   Stats
	Drawdown Stats

	RuinedPaths int

	// WorstPath is the index of the path with the largest drawdown; the
	// first one wins ties.
	WorstPath     int
	WorstDrawdown float64
	WorstTerminal float64

	Terminals []float64
	Drawdowns []float64
}

// SurvivalRate looks up the rate for threshold.
func (r *Report) SurvivalRate(threshold float64) (float64, bool) {
	for _, s := range r.Survival {
		if s.ThresholdPct == threshold {
			return s.Rate, true
		}
	}
	return 0, false
}

type Option func(*Resampler)

func WithLogger(l *zap.Logger) Option {
	return func(r *Resampler) {
		if l != nil {
			r.log = l
		}
	}
}

type Resampler struct {
	cfg Config
	log *zap.Logger
}

func NewResampler(cfg Config, opts ...Option) *Resampler {
	r := &Resampler{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run replays months Config.Paths times. months is only read. Path i draws
// from stream i of the configured seed, so the report does not depend on
// the number of workers.
func (r *Resampler) Run(ctx context.Context, months []sim.MonthTrades) (*Report, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	workers := r.cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	started := time.Now()
	paths := make([]Path, r.cfg.Paths)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			paths[i] = r.replay(sim.NewRand(r.cfg.Seed, uint64(i)), months)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := r.report(paths)
	r.log.Info("monte carlo complete",
		zap.Int("paths", rep.TotalPaths),
		zap.Int("workers", workers),
		zap.Int("ruined", rep.RuinedPaths),
		zap.Float64("median_terminal", rep.Equity.Median),
		zap.Float64("worst_drawdown_pct", rep.WorstDrawdown),
		zap.Duration("elapsed", time.Since(started)))
	return rep, nil
}

// replay runs one path over a shuffled copy of months.
func (r *Resampler) replay(rng sim.RandSource, months []sim.MonthTrades) Path {
	order := make([]int, len(months))
	for i := range order {
		order[i] = i
	}
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	ref := r.cfg.reference()
	p := Path{Balance: r.cfg.StartBalance, HighWater: r.cfg.StartBalance}
	guard := risk.NewGuard(r.cfg.Guard)

	for _, mi := range order {
		pnl := slices.Clone(months[mi].PnL)
		rng.Shuffle(len(pnl), func(i, j int) { pnl[i], pnl[j] = pnl[j], pnl[i] })

		guard.Reset(months[mi].Month, p.Balance)
		for _, x := range pnl {
			if !guard.Check(p.Balance) {
				break
			}
			scale := math.Min(r.cfg.ScaleCap, p.Balance/ref)
			p.Balance += x * scale
			p.HighWater = math.Max(p.HighWater, p.Balance)
			p.MaxDrawdown = math.Max(p.MaxDrawdown, risk.DrawdownPct(p.HighWater, p.Balance))

			if p.Balance <= r.cfg.RuinFloor {
				p.Balance = 0
				p.MaxDrawdown = risk.WorstDrawdownPct
				p.Ruined = true
				return p
			}
		}
	}

	if math.IsNaN(p.Balance) || math.IsInf(p.Balance, 0) {
		p.Balance = 0
		p.MaxDrawdown = risk.WorstDrawdownPct
	}
	return p
}

func (r *Resampler) report(paths []Path) *Report {
	rep := &Report{
		TotalPaths:   len(paths),
		StartBalance: r.cfg.StartBalance,
		Terminals:    make([]float64, len(paths)),
		Drawdowns:    make([]float64, len(paths)),
		WorstPath:    -1,
	}
	for i, p := range paths {
		rep.Terminals[i] = p.Balance
		rep.Drawdowns[i] = p.MaxDrawdown
		if p.Ruined {
			rep.RuinedPaths++
		}
		if rep.WorstPath < 0 || p.MaxDrawdown > rep.WorstDrawdown {
			rep.WorstPath = i
			rep.WorstDrawdown = p.MaxDrawdown
			rep.WorstTerminal = p.Balance
		}
	}

	thresholds := slices.Clone(r.cfg.SurvivalThresholds)
	slices.Sort(thresholds)
	for _, th := range thresholds {
		n := 0
		for _, dd := range rep.Drawdowns {
			if dd <= th {
				n++
			}
		}
		rep.Survival = append(rep.Survival, Survival{
			ThresholdPct: th,
			Rate:         float64(n) / float64(len(paths)),
		})
	}

	rep.Equity = Summarize(rep.Terminals)
	rep.Drawdown = Summarize(rep.Drawdowns)
	return rep
}
