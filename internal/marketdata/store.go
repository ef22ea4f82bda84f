package marketdata

import (
	"sort"
	"sync"

	"geminirest/pkg/gemini"
)

// CandleStore keeps the most recent candles of each symbol in memory, in
// ascending start order.
type CandleStore struct {
	globalMu sync.RWMutex
	data     map[string]*symbolCandles
	limit    int
}

type symbolCandles struct {
	mu      sync.Mutex
	candles []gemini.Candle
}

// NewCandleStore keeps at most limit candles per symbol; zero keeps all.
func NewCandleStore(limit int) *CandleStore {
	return &CandleStore{
		data:  make(map[string]*symbolCandles),
		limit: limit,
	}
}

func (s *CandleStore) symbol(symbol string) *symbolCandles {
	s.globalMu.RLock()
	store, ok := s.data[symbol]
	s.globalMu.RUnlock()
	if ok {
		return store
	}

	s.globalMu.Lock()
	defer s.globalMu.Unlock()
	if store, ok = s.data[symbol]; !ok {
		store = &symbolCandles{}
		s.data[symbol] = store
	}
	return store
}

// Upsert inserts c or replaces the candle with the same start. When c opens
// a period later than the newest stored candle, that candle is complete and
// is returned as closed.
func (s *CandleStore) Upsert(c gemini.Candle) (closed gemini.Candle, ok bool) {
	store := s.symbol(c.Symbol)
	store.mu.Lock()
	defer store.mu.Unlock()

	n := len(store.candles)
	if n > 0 && store.candles[n-1].Start < c.Start {
		closed, ok = store.candles[n-1], true
	}

	i := sort.Search(n, func(i int) bool { return store.candles[i].Start >= c.Start })
	switch {
	case i < n && store.candles[i].Start == c.Start:
		store.candles[i] = c
	case i == n:
		store.candles = append(store.candles, c)
	default:
		store.candles = append(store.candles, gemini.Candle{})
		copy(store.candles[i+1:], store.candles[i:])
		store.candles[i] = c
	}

	if s.limit > 0 && len(store.candles) > s.limit {
		store.candles = append([]gemini.Candle(nil), store.candles[len(store.candles)-s.limit:]...)
	}
	return closed, ok
}

func (s *CandleStore) GetBySymbol(symbol string) []gemini.Candle {
	s.globalMu.RLock()
	store, ok := s.data[symbol]
	s.globalMu.RUnlock()
	if !ok {
		return nil
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	cp := make([]gemini.Candle, len(store.candles))
	copy(cp, store.candles)
	return cp
}

// CountAll returns the number of candles held across all symbols.
func (s *CandleStore) CountAll() int {
	s.globalMu.RLock()
	defer s.globalMu.RUnlock()

	total := 0
	for _, store := range s.data {
		store.mu.Lock()
		total += len(store.candles)
		store.mu.Unlock()
	}
	return total
}
