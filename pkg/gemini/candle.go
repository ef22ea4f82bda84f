package gemini

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Candle timeframes served by /v2/candles and the candles_* stream channels.
const (
	Timeframe1m   = "1m"
	Timeframe5m   = "5m"
	Timeframe15m  = "15m"
	Timeframe30m  = "30m"
	Timeframe1h   = "1hr"
	Timeframe6h   = "6hr"
	Timeframe1day = "1day"
)

var timeframes = map[string]time.Duration{
	Timeframe1m:   time.Minute,
	Timeframe5m:   5 * time.Minute,
	Timeframe15m:  15 * time.Minute,
	Timeframe30m:  30 * time.Minute,
	Timeframe1h:   time.Hour,
	Timeframe6h:   6 * time.Hour,
	Timeframe1day: 24 * time.Hour,
}

// TimeframeDuration returns the length of one candle of the timeframe.
func TimeframeDuration(tf string) (time.Duration, error) {
	d, ok := timeframes[tf]
	if !ok {
		return 0, fmt.Errorf("unknown candle timeframe %q", tf)
	}
	return d, nil
}

// Candle is one OHLCV bar.
type Candle struct {
	Symbol    string
	Timeframe string
	Start     int64 // open time, ms since epoch
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
}

// End is the close time of the candle in ms since epoch.
func (c Candle) End() int64 {
	d := timeframes[c.Timeframe]
	return c.Start + d.Milliseconds()
}

// ParseCandles converts rows of [time, open, high, low, close, volume]. A
// malformed row fails the whole list.
func ParseCandles(symbol, timeframe string, raw gjson.Result) ([]Candle, error) {
	if !raw.IsArray() {
		return nil, fmt.Errorf("candles: expected array, got %s", describe(raw))
	}
	rows := raw.Array()
	out := make([]Candle, 0, len(rows))
	for i, row := range rows {
		c, err := parseCandleRow(row)
		if err != nil {
			return nil, fmt.Errorf("candles[%d]: %w", i, err)
		}
		c.Symbol = symbol
		c.Timeframe = timeframe
		out = append(out, c)
	}
	return out, nil
}

func parseCandleRow(row gjson.Result) (Candle, error) {
	if !row.IsArray() {
		return Candle{}, fmt.Errorf("expected array, got %s", describe(row))
	}
	cols := row.Array()
	if len(cols) < 6 {
		return Candle{}, fmt.Errorf("expected 6 columns, got %d", len(cols))
	}
	if cols[0].Type != gjson.Number {
		return Candle{}, fmt.Errorf("time: expected number, got %s", describe(cols[0]))
	}

	var (
		c   = Candle{Start: cols[0].Int()}
		dst = []*decimal.Decimal{&c.Open, &c.High, &c.Low, &c.Close, &c.Volume}
	)
	for i, d := range dst {
		col := cols[i+1]
		var text string
		switch col.Type {
		case gjson.Number:
			text = col.Raw
		case gjson.String:
			text = col.Str
		default:
			return Candle{}, fmt.Errorf("column %d: expected number, got %s", i+1, describe(col))
		}
		v, err := decimal.NewFromString(text)
		if err != nil {
			return Candle{}, fmt.Errorf("column %d: %w", i+1, err)
		}
		*d = v
	}
	return c, nil
}
