package journal

import "time"

// RunRecord mirrors the runs table.
type RunRecord struct {
	RunID   string
	Created time.Time
	// Kind is backtest, walkforward, sensitivity or sweep.
	Kind    string
	Label   string
	Dataset string
	// Config is the JSON encoded configuration of the run.
	Config []byte

	Start time.Time
	End   time.Time

	Trades int
	Wins   int
	Losses int

	StartBalance float64
	EndBalance   float64

	NetPL               float64
	ReturnPct           float64
	WinRate             float64
	ProfitFactor        float64
	MaxDDPct            float64
	AvgMonthlyReturnPct float64
	Sharpe              float64
}

// MonthRecord mirrors the months table.
type MonthRecord struct {
	RunID        string
	Month        string
	StartBalance float64
	EndBalance   float64
	Return       float64
	Trades       int
	LockReason   string
}

type SurvivalRecord struct {
	ThresholdPct float64
	Rate         float64
}

// MonteCarloRecord mirrors the montecarlo and survival tables.
type MonteCarloRecord struct {
	RunID        string
	Paths        int
	StartBalance float64

	EquityMin    float64
	EquityP5     float64
	EquityMedian float64
	EquityP95    float64
	EquityMax    float64

	DrawdownMin    float64
	DrawdownP5     float64
	DrawdownMedian float64
	DrawdownP95    float64
	DrawdownMax    float64

	Ruined        int
	WorstPath     int
	WorstDrawdown float64
	WorstTerminal float64

	Survival []SurvivalRecord
}
