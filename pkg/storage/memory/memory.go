package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"geminirest/pkg/gemini"
	"geminirest/pkg/storage"
)

type candleKey struct {
	symbol    string
	timeframe string
	start     int64
}

// MemoryStore is an in-process storage.Store, used when no database is
// configured and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	trades  map[string][]storage.Trade
	seen    map[string]map[int64]bool
	candles map[candleKey]gemini.Candle
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trades:  make(map[string][]storage.Trade),
		seen:    make(map[string]map[int64]bool),
		candles: make(map[candleKey]gemini.Candle),
	}
}

func (m *MemoryStore) SaveTrade(_ context.Context, t storage.Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids, ok := m.seen[t.Symbol]
	if !ok {
		ids = make(map[int64]bool)
		m.seen[t.Symbol] = ids
	}
	if ids[t.TradeID] {
		return fmt.Errorf("%w: symbol=%s tid=%d", storage.ErrDuplicate, t.Symbol, t.TradeID)
	}
	ids[t.TradeID] = true
	m.trades[t.Symbol] = append(m.trades[t.Symbol], t)
	return nil
}

// GetTrades returns the trades of symbol ordered by time.
func (m *MemoryStore) GetTrades(symbol string) []storage.Trade {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy to avoid race
	out := make([]storage.Trade, len(m.trades[symbol]))
	copy(out, m.trades[symbol])
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

func (m *MemoryStore) LatestTradeTime(_ context.Context, symbol string) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var latest time.Time
	found := false
	for _, t := range m.trades[symbol] {
		if !found || t.Time.After(latest) {
			latest = t.Time
			found = true
		}
	}
	return latest, found, nil
}

func (m *MemoryStore) SaveCandle(_ context.Context, c gemini.Candle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := candleKey{symbol: c.Symbol, timeframe: c.Timeframe, start: c.Start}
	if _, ok := m.candles[key]; ok {
		return fmt.Errorf("%w: symbol=%s timeframe=%s start=%d", storage.ErrDuplicate, c.Symbol, c.Timeframe, c.Start)
	}
	m.candles[key] = c
	return nil
}

// GetCandles returns the stored candles of symbol and timeframe by start time.
func (m *MemoryStore) GetCandles(symbol, timeframe string) []gemini.Candle {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []gemini.Candle
	for k, c := range m.candles {
		if k.symbol == symbol && k.timeframe == timeframe {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
