package journal

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var (
	tradeHeader = []string{
		"run_id", "trade_id", "time", "month", "direction", "risk_fraction", "stop_distance",
		"target_distance", "units", "win_probability", "win", "friction", "pnl",
		"balance_before", "balance_after",
	}
	equityHeader = []string{"run_id", "time", "month", "balance", "locked"}
)

// CSVJournal writes trades and the equity curve to two CSV files. Money is
// written with two decimals, ratios and distances with six.
type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		_ = tf.Close()
		return nil, err
	}

	j := &CSVJournal{trades: csv.NewWriter(tf), equity: csv.NewWriter(ef), tf: tf, ef: ef}
	if err := j.write(j.trades, tradeHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	if err := j.write(j.equity, equityHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSVJournal) write(w *csv.Writer, rec []string) error {
	if err := w.Write(rec); err != nil {
		return fmt.Errorf("journal: write csv: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	return j.write(j.trades, []string{
		t.RunID,
		t.TradeID,
		t.Time.UTC().Format(time.RFC3339),
		t.Month,
		t.Direction,
		fixed(t.RiskFraction, 6),
		fixed(t.StopDistance, 6),
		fixed(t.TargetDistance, 6),
		fixed(t.Units, 6),
		fixed(t.WinProbability, 6),
		strconv.FormatBool(t.Win),
		money(t.Friction),
		money(t.PnL),
		money(t.BalanceBefore),
		money(t.BalanceAfter),
	})
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	return j.write(j.equity, []string{
		e.RunID,
		e.Time.UTC().Format(time.RFC3339),
		e.Month,
		money(e.Balance),
		strconv.FormatBool(e.Locked),
	})
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	j.equity.Flush()
	terr := j.trades.Error()
	eerr := j.equity.Error()

	if err := j.tf.Close(); err != nil && terr == nil {
		terr = err
	}
	if err := j.ef.Close(); err != nil && eerr == nil {
		eerr = err
	}
	if terr != nil {
		return terr
	}
	return eerr
}

func money(x float64) string {
	return fixed(x, 2)
}

// fixed renders x with exactly places decimals, rounding half away from
// zero on the decimal value rather than the binary one.
func fixed(x float64, places int32) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return decimal.NewFromFloat(x).StringFixed(places)
}
