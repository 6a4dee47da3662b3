package market

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CSVCandles serves candles from files named <SYMBOL>_<timeframe>.csv in
// Dir, e.g. BTCUSDT_1H.csv for "BTC/USDT" at "1h".
type CSVCandles struct {
	Dir string
}

func (s CSVCandles) Path(symbol, timeframe string) (string, error) {
	tf, _, err := ParseTimeframe(timeframe)
	if err != nil {
		return "", err
	}
	sym := strings.ToUpper(strings.NewReplacer("/", "", "-", "", "_", "", ":", "").Replace(symbol))
	if sym == "" {
		return "", errors.New("symbol required")
	}
	return filepath.Join(s.Dir, sym+"_"+tf+".csv"), nil
}

func (s CSVCandles) FetchCandles(ctx context.Context, symbol, timeframe string, limit int) ([]Candle, error) {
	path, err := s.Path(symbol, timeframe)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s %s: %w", symbol, timeframe, ErrNoData)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cs, err := ReadCandlesCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Last(cs, limit), nil
}

// ReadCandlesCSV parses time,open,high,low,close[,volume] rows. A header row
// is skipped. Time may be RFC3339, "2006-01-02 15:04:05", "2006-01-02" or
// unix seconds. Rows are returned sorted by time; duplicate times keep the
// last row.
func ReadCandlesCSV(r io.Reader) ([]Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	byTime := make(map[int64]Candle)
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "time") {
			continue
		}

		c, err := parseCandle(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		byTime[c.Time.Unix()] = c
	}

	out := make([]Candle, 0, len(byTime))
	for _, c := range byTime {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

func parseCandle(rec []string) (Candle, error) {
	if len(rec) < 5 {
		return Candle{}, fmt.Errorf("want at least 5 fields, got %d", len(rec))
	}
	ts, err := parseTime(rec[0])
	if err != nil {
		return Candle{}, err
	}

	vals := make([]float64, 5)
	for i := 1; i < len(rec) && i <= 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
		if err != nil {
			return Candle{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		vals[i-1] = v
	}

	c := Candle{Time: ts, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Volume: vals[4]}
	if !c.Valid() {
		return Candle{}, fmt.Errorf("inconsistent bar at %s", ts.Format(time.RFC3339))
	}
	return c, nil
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// WriteCandlesCSV writes candles with a header in the format ReadCandlesCSV
// accepts.
func WriteCandlesCSV(w io.Writer, cs []Candle) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, c := range cs {
		err := cw.Write([]string{
			c.Time.UTC().Format(time.RFC3339),
			strconv.FormatFloat(c.Open, 'f', -1, 64),
			strconv.FormatFloat(c.High, 'f', -1, 64),
			strconv.FormatFloat(c.Low, 'f', -1, 64),
			strconv.FormatFloat(c.Close, 'f', -1, 64),
			strconv.FormatFloat(c.Volume, 'f', -1, 64),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
