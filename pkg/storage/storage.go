package storage

import (
	"context"
	"errors"
	"time"

	"geminirest/pkg/gemini"

	"github.com/shopspring/decimal"
)

// ErrDuplicate is returned when a record with the same natural key is
// already stored. Callers archiving overlapping ranges treat it as a skip.
var ErrDuplicate = errors.New("duplicate record skipped")

// Trade is one of the account's own executions, as archived.
type Trade struct {
	Symbol      string
	TradeID     int64
	OrderID     string
	Type        string // "Buy" or "Sell"
	Price       decimal.Decimal
	Amount      decimal.Decimal
	FeeCurrency string
	FeeAmount   decimal.Decimal
	Aggressor   bool
	Exchange    string
	Time        time.Time
}

// TradeStore persists archived trades.
type TradeStore interface {
	SaveTrade(ctx context.Context, t Trade) error
	// LatestTradeTime reports the time of the newest stored trade for symbol.
	LatestTradeTime(ctx context.Context, symbol string) (time.Time, bool, error)
}

// CandleStore persists closed candles from the market data stream.
type CandleStore interface {
	SaveCandle(ctx context.Context, c gemini.Candle) error
}

type Store interface {
	TradeStore
	CandleStore
}
