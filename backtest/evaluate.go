package backtest

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/monthguard/market"
	"github.com/rustyeddy/monthguard/sim"
)

// Options tune the multi-run helpers.
type Options struct {
	// Workers bounds concurrent simulations. Zero means NumCPU.
	Workers    int
	SuccessPct float64
	Logger     *zap.Logger
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

func (o Options) successPct() float64 {
	if o.SuccessPct == 0 {
		return DefaultSuccessPct
	}
	return o.SuccessPct
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Variant is a named configuration to evaluate.
type Variant struct {
	Name   string
	Config sim.Config
}

type VariantResult struct {
	Name    string
	Config  sim.Config
	Summary sim.Summary
}

// evaluate runs every variant over bars on a bounded pool. Results keep the
// order of variants.
func evaluate(ctx context.Context, variants []Variant, bars market.Bars, opts Options) ([]VariantResult, error) {
	out := make([]VariantResult, len(variants))
	log := opts.logger()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, v := range variants {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := v.Config.Validate(); err != nil {
				return fmt.Errorf("variant %s: %w", v.Name, err)
			}
			res, err := sim.NewEngine(v.Config).Run(gctx, bars)
			if err != nil {
				return fmt.Errorf("variant %s: %w", v.Name, err)
			}
			out[i] = VariantResult{Name: v.Name, Config: v.Config, Summary: res.Summary(opts.successPct())}
			log.Debug("variant done",
				zap.String("variant", v.Name),
				zap.Int("trades", out[i].Summary.Trades),
				zap.Float64("avg_monthly_return_pct", out[i].Summary.AvgMonthlyReturnPct))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
