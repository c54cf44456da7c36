package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"20060102",
}

// LoadCSV reads daily bars from a CSV file laid out as
// date,open,high,low,close[,volume]. A header row is skipped when the first
// column does not parse as a date.
func LoadCSV(path string) (Bars, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars: %w", err)
	}
	defer f.Close()

	bars, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bars, nil
}

// ReadCSV parses bars from r and validates their ordering.
func ReadCSV(r io.Reader) (Bars, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var bars Bars
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		ts, err := parseTime(row[0])
		if err != nil {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(row) < 5 {
			return nil, fmt.Errorf("line %d: need date,open,high,low,close got %d columns", line, len(row))
		}

		var v [5]float64
		for i := 1; i < len(row) && i <= 5; i++ {
			s := strings.TrimSpace(row[i])
			if s == "" && i == 5 {
				continue
			}
			v[i-1], err = strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d col %d: bad number %q", line, i+1, row[i])
			}
		}

		bars = append(bars, Bar{
			Time:   ts,
			Open:   v[0],
			High:   v[1],
			Low:    v[2],
			Close:  v[3],
			Volume: v[4],
		})
	}

	if err := bars.Validate(); err != nil {
		return nil, err
	}
	return bars, nil
}

// WriteCSV writes bars in the layout LoadCSV reads.
func WriteCSV(w io.Writer, bars Bars) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, b := range bars {
		err := cw.Write([]string{
			b.Time.Format(time.DateOnly),
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatFloat(b.Volume, 'f', -1, 64),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad time %q", s)
}
