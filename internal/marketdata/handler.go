package marketdata

import (
	"context"
	"errors"
	"strings"
	"time"

	"geminirest/pkg/gemini"
	"geminirest/pkg/storage"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// MakeMessageHandler returns a WebSocket handler for candles_<tf>_updates
// messages. Every row goes to the in-memory store; closed candles are also
// written to sink when it is non-nil. Other message types are ignored.
func MakeMessageHandler(logger *zap.Logger, store *CandleStore, sink storage.CandleStore, now func() time.Time) func(msg []byte) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return func(msg []byte) {
		if !gjson.ValidBytes(msg) {
			logger.Warn("invalid message payload", zap.Int("bytes", len(msg)))
			return
		}
		parsed := gjson.ParseBytes(msg)

		timeframe, ok := candleTimeframe(parsed.Get("type").Str)
		if !ok {
			return
		}
		symbol := parsed.Get("symbol").Str
		if symbol == "" {
			logger.Warn("candle update without symbol")
			return
		}

		candles, err := gemini.ParseCandles(symbol, timeframe, parsed.Get("changes"))
		if err != nil {
			logger.Warn("failed to parse candle update", zap.String("symbol", symbol), zap.Error(err))
			return
		}

		// changes arrive newest first
		nowMs := now().UnixMilli()
		for i := len(candles) - 1; i >= 0; i-- {
			c := candles[i]
			if prev, ok := store.Upsert(c); ok {
				persist(logger, sink, prev)
			}
			if c.End() <= nowMs {
				persist(logger, sink, c)
			}
		}
	}
}

func persist(logger *zap.Logger, sink storage.CandleStore, c gemini.Candle) {
	if sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := sink.SaveCandle(ctx, c)
	if err != nil && !errors.Is(err, storage.ErrDuplicate) {
		logger.Warn("failed to save candle", zap.String("symbol", c.Symbol), zap.Int64("start", c.Start), zap.Error(err))
	}
}

// candleTimeframe extracts "1m" from "candles_1m_updates".
func candleTimeframe(msgType string) (string, bool) {
	if !strings.HasPrefix(msgType, "candles_") || !strings.HasSuffix(msgType, "_updates") {
		return "", false
	}
	tf := strings.TrimSuffix(strings.TrimPrefix(msgType, "candles_"), "_updates")
	if _, err := gemini.TimeframeDuration(tf); err != nil {
		return "", false
	}
	return tf, true
}
