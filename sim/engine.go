// Package sim replays bars through the indicator pipeline, the signal
// generator, the monthly guard and the position sizer, and resolves each
// trade with a stochastic outcome model.
package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rustyeddy/monthguard/indicators"
	"github.com/rustyeddy/monthguard/market"
	"github.com/rustyeddy/monthguard/pkg/id"
	"github.com/rustyeddy/monthguard/risk"
	"github.com/rustyeddy/monthguard/strategies"
)

// Config is everything a single simulation run depends on.
type Config struct {
	InitialBalance float64
	Indicators     indicators.Config
	Signal         strategies.TriadConfig
	Guard          risk.GuardConfig
	Sizing         risk.SizerConfig
	Outcome        OutcomeConfig
}

func DefaultConfig() Config {
	return Config{
		InitialBalance: 100000,
		Indicators:     indicators.DefaultConfig(),
		Signal:         strategies.DefaultTriadConfig(),
		Guard:          risk.DefaultGuardConfig(),
		Sizing:         risk.DefaultSizerConfig(),
		Outcome:        DefaultOutcomeConfig(),
	}
}

func (c Config) Validate() error {
	if !(c.InitialBalance > 0) {
		return fmt.Errorf("initial_balance must be positive")
	}
	if err := c.Indicators.Validate(); err != nil {
		return err
	}
	if err := c.Signal.Validate(); err != nil {
		return err
	}
	if err := c.Guard.Validate(); err != nil {
		return err
	}
	if err := c.Sizing.Validate(); err != nil {
		return err
	}
	return c.Outcome.Validate()
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithModel replaces the impulse model built from Config.Outcome.
func WithModel(m OutcomeModel) Option {
	return func(e *Engine) { e.model = m }
}

// WithRand replaces the source seeded from Config.Outcome.Seed.
func WithRand(r RandSource) Option {
	return func(e *Engine) { e.rng = r }
}

func WithSignal(g strategies.Generator) Option {
	return func(e *Engine) { e.signal = g }
}

func WithIDs(g *id.Generator) Option {
	return func(e *Engine) { e.ids = g }
}

// Engine runs one simulation at a time. It is not safe for concurrent use;
// build one engine per goroutine.
type Engine struct {
	cfg    Config
	signal strategies.Generator
	sizer  *risk.Sizer
	model  OutcomeModel
	rng    RandSource
	ids    *id.Generator
	log    *zap.Logger
}

func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		signal: strategies.NewTriad(cfg.Signal),
		sizer:  risk.NewSizer(cfg.Sizing),
		model:  NewImpulseModel(cfg.Outcome),
		rng:    NewRand(cfg.Outcome.Seed, 0),
		ids:    id.NewGenerator(int64(cfg.Outcome.Seed)),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Run simulates bars from the effective warm-up onwards. Inputs too short
// to warm up produce an empty result, not an error.
func (e *Engine) Run(ctx context.Context, bars market.Bars) (*Result, error) {
	res := &Result{
		InitialBalance: e.cfg.InitialBalance,
		FinalBalance:   e.cfg.InitialBalance,
		Ledger:         NewLedger(),
	}

	warm := e.cfg.Indicators.EffectiveWarmUp()
	if len(bars) <= warm {
		e.log.Debug("not enough bars to warm up",
			zap.Int("bars", len(bars)), zap.Int("warm_up", warm))
		return res, nil
	}

	snaps := indicators.Compute(bars, e.cfg.Indicators)
	guard := risk.NewGuard(e.cfg.Guard)
	balance := e.cfg.InitialBalance

	for i := warm; i < len(bars); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bar := bars[i]
		key := risk.MonthOf(bar.Time)

		if done, ok := guard.Roll(key, balance); ok {
			res.Months = append(res.Months, done)
		}
		res.Ledger.OpenMonth(key)
		res.Bars++

		wasActive := guard.Active()
		if guard.Check(balance) {
			balance = e.step(res, guard, bar, snaps[i-1], balance)
		} else if wasActive {
			e.log.Debug("month locked",
				zap.String("month", string(key)),
				zap.String("reason", string(guard.LockReason())),
				zap.Float64("balance", balance))
		}

		res.Equity = append(res.Equity, EquityPoint{
			Time:    bar.Time,
			Month:   key,
			Balance: balance,
			Locked:  !guard.Active(),
		})
	}

	if done, ok := guard.Flush(balance); ok {
		res.Months = append(res.Months, done)
	}
	res.FinalBalance = balance

	e.log.Info("simulation complete",
		zap.Int("bars", res.Bars),
		zap.Int("trades", res.Ledger.Len()),
		zap.Int("months", len(res.Months)),
		zap.Float64("final_balance", balance))
	return res, nil
}

// step evaluates a trade on bar using the snapshot of the bar before it and
// returns the new balance.
func (e *Engine) step(res *Result, guard *risk.Guard, bar market.Bar, prev indicators.Snapshot, balance float64) float64 {
	sig := e.signal.Signal(prev)
	if sig == strategies.None {
		return balance
	}

	plan, ok := e.sizer.Size(balance, prev.ATR, guard.Headroom(), guard.MonthReturnPct())
	if !ok {
		res.Skipped++
		return balance
	}

	out := e.model.Resolve(OutcomeInput{
		Bar:    bar,
		ATR:    prev.ATR,
		Signal: sig,
		Plan:   plan,
	}, e.rng.Float64())

	t := Trade{
		ID:             e.ids.At(bar.Time),
		Time:           bar.Time,
		Month:          guard.Month(),
		Direction:      sig,
		RiskFraction:   plan.RiskFraction,
		StopDistance:   plan.StopDistance,
		TargetDistance: plan.TargetDistance,
		Units:          plan.Units,
		WinProbability: out.WinProbability,
		Win:            out.Win,
		Friction:       out.Friction,
		PnL:            out.PnL,
		BalanceBefore:  balance,
		BalanceAfter:   balance + out.PnL,
	}
	res.Ledger.Append(t)
	guard.RecordTrade()
	return t.BalanceAfter
}
