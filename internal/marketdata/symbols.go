package marketdata

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SymbolSource lists tradable pairs.
type SymbolSource interface {
	Symbols(ctx context.Context) ([]string, error)
}

// SymbolLoader streams the pairs to subscribe to. When Allow is non-empty
// only those pairs are emitted; symbols are upper-cased for the v2 stream.
type SymbolLoader struct {
	Source  SymbolSource
	Allow   []string
	Timeout time.Duration
	Logger  *zap.Logger
}

// LoadSymbols fetches the pair list and sends each symbol on ch, closing it
// when done.
func (l *SymbolLoader) LoadSymbols(ctx context.Context, ch chan<- string) error {
	defer close(ch)

	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	symbols, err := l.Source.Symbols(ctx)
	if err != nil {
		logger.Error("failed to load symbols", zap.Error(err))
		return err
	}

	allowed := make(map[string]bool, len(l.Allow))
	for _, s := range l.Allow {
		allowed[strings.ToUpper(s)] = true
	}

	count := 0
	for _, symbol := range symbols {
		symbol = strings.ToUpper(symbol)
		if len(allowed) > 0 && !allowed[symbol] {
			continue
		}
		select {
		case ch <- symbol:
			count++
		case <-ctx.Done():
			logger.Warn("symbol streaming interrupted", zap.Error(ctx.Err()))
			return ctx.Err()
		}
	}
	logger.Info("loaded symbols", zap.Int("count", count))
	return nil
}

// SymbolStore holds the subscribed pairs, without duplicates.
type SymbolStore struct {
	mu      sync.Mutex
	symbols []string
	seen    map[string]bool
}

func NewSymbolStore() *SymbolStore {
	return &SymbolStore{seen: make(map[string]bool)}
}

// Add reports whether symbol was new.
func (s *SymbolStore) Add(symbol string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[symbol] {
		return false
	}
	s.seen[symbol] = true
	s.symbols = append(s.symbols, symbol)
	return true
}

// Consume adds every symbol from ch and returns once ch is closed.
func (s *SymbolStore) Consume(ch <-chan string) int {
	added := 0
	for symbol := range ch {
		if s.Add(symbol) {
			added++
		}
	}
	return added
}

func (s *SymbolStore) GetAll() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out
}
