package sim

import (
	"math"
	"time"

	"github.com/rustyeddy/monthguard/risk"
)

// SharpeEpsilon keeps the monthly Sharpe ratio finite for flat returns.
const SharpeEpsilon = 1e-6

type EquityPoint struct {
	Time    time.Time
	Month   risk.MonthKey
	Balance float64
	// Locked is true when the month was locked at the end of the bar.
	Locked bool
}

// Result is the outcome of one engine run.
type Result struct {
	InitialBalance float64
	FinalBalance   float64
	Months         []risk.MonthReturn
	Equity         []EquityPoint
	Ledger         *Ledger

	// Bars is the number of bars after warm-up; Skipped counts signals the
	// sizer refused.
	Bars    int
	Skipped int
}

// Returns lists the fractional return of every month in order.
func (r *Result) Returns() []float64 {
	out := make([]float64, len(r.Months))
	for i, m := range r.Months {
		out[i] = m.Return
	}
	return out
}

// Summary condenses a run. All percentages are in percent.
type Summary struct {
	Trades  int
	Wins    int
	Losses  int
	WinRate float64

	NetPL     float64
	ReturnPct float64

	Months              int
	LockedMonths        int
	AvgMonthlyReturnPct float64
	SuccessMonths       int
	SuccessRatePct      float64

	// ProfitFactor is gross profit over gross loss, 0 when nothing was lost.
	ProfitFactor   float64
	MaxDrawdownPct float64
	Sharpe         float64
}

// Summary computes run statistics. A month counts as a success when its
// return is at least successPct percent.
func (r *Result) Summary(successPct float64) Summary {
	s := Summary{
		NetPL:     r.FinalBalance - r.InitialBalance,
		ReturnPct: risk.ReturnPct(r.InitialBalance, r.FinalBalance),
		Months:    len(r.Months),
	}

	var grossWin, grossLoss float64
	if r.Ledger != nil {
		for _, t := range r.Ledger.trades {
			s.Trades++
			if t.PnL > 0 {
				s.Wins++
				grossWin += t.PnL
			} else {
				s.Losses++
				grossLoss -= t.PnL
			}
		}
	}
	if s.Trades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Trades)
	}
	if grossLoss > 0 {
		s.ProfitFactor = grossWin / grossLoss
	}

	rets := make([]float64, len(r.Months))
	for i, m := range r.Months {
		rets[i] = m.Return * 100
		if rets[i] >= successPct {
			s.SuccessMonths++
		}
		if m.Locked() {
			s.LockedMonths++
		}
	}
	if len(rets) > 0 {
		mean, std := meanStd(rets)
		s.AvgMonthlyReturnPct = mean
		s.SuccessRatePct = 100 * float64(s.SuccessMonths) / float64(len(rets))
		s.Sharpe = mean / (std + SharpeEpsilon)
	}

	high := r.InitialBalance
	for _, p := range r.Equity {
		high = math.Max(high, p.Balance)
		s.MaxDrawdownPct = math.Max(s.MaxDrawdownPct, risk.DrawdownPct(high, p.Balance))
	}
	return s
}

// meanStd returns the mean and population standard deviation of xs.
func meanStd(xs []float64) (mean, std float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		std += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(std / float64(len(xs)))
}
