package marketdata

import (
	"context"
	"fmt"
	"time"

	"geminirest/pkg/gemini"
	"geminirest/pkg/storage"

	"go.uber.org/zap"
)

// Options configures a candle collector run.
type Options struct {
	WSURL          string
	Timeframe      string
	Symbols        []string      // restricts the listed pairs when non-empty
	LoadTimeout    time.Duration // symbol listing timeout
	StatsInterval  time.Duration
	ReconnectDelay time.Duration
	KeepCandles    int // in-memory candles per symbol
}

// Collector loads the symbol list over REST, subscribes to the candle
// channel for every symbol and keeps the store and sink up to date.
type Collector struct {
	opts    Options
	source  SymbolSource
	sink    storage.CandleStore
	logger  *zap.Logger
	symbols *SymbolStore
	candles *CandleStore
}

func NewCollector(opts Options, source SymbolSource, sink storage.CandleStore, logger *zap.Logger) (*Collector, error) {
	if _, err := gemini.TimeframeDuration(opts.Timeframe); err != nil {
		return nil, err
	}
	if opts.StatsInterval <= 0 {
		opts.StatsInterval = 30 * time.Second
	}
	if opts.KeepCandles <= 0 {
		opts.KeepCandles = 1440
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		opts:    opts,
		source:  source,
		sink:    sink,
		logger:  logger,
		symbols: NewSymbolStore(),
		candles: NewCandleStore(opts.KeepCandles),
	}, nil
}

func (c *Collector) Candles() *CandleStore { return c.candles }

func (c *Collector) Symbols() *SymbolStore { return c.symbols }

// Refresh reloads the symbol list. Newly listed pairs are picked up on the
// next (re)subscription.
func (c *Collector) Refresh(ctx context.Context) error {
	loader := &SymbolLoader{Source: c.source, Allow: c.opts.Symbols, Timeout: c.opts.LoadTimeout, Logger: c.logger}
	ch := make(chan string, 100)
	errCh := make(chan error, 1)
	go func() { errCh <- loader.LoadSymbols(ctx, ch) }()

	added := c.symbols.Consume(ch)
	if err := <-errCh; err != nil {
		return err
	}
	c.logger.Info("symbols refreshed", zap.Int("added", added), zap.Int("total", len(c.symbols.GetAll())))
	return nil
}

func (c *Collector) subscriptions() []gemini.Subscription {
	return []gemini.Subscription{{
		Name:    gemini.CandleChannel(c.opts.Timeframe),
		Symbols: c.symbols.GetAll(),
	}}
}

// Run streams candles until ctx is cancelled.
func (c *Collector) Run(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil {
		return fmt.Errorf("load symbols: %w", err)
	}
	if len(c.symbols.GetAll()) == 0 {
		return fmt.Errorf("no symbols to subscribe")
	}

	ws := gemini.NewWSClient(c.opts.WSURL, c.subscriptions, c.logger)
	if c.opts.ReconnectDelay > 0 {
		ws.SetReconnectDelay(c.opts.ReconnectDelay)
	}
	ws.SetMessageHandler(MakeMessageHandler(c.logger, c.candles, c.sink, nil))

	go func() {
		ticker := time.NewTicker(c.opts.StatsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.logger.Info("current candles in memory", zap.Int("count", c.candles.CountAll()))
			}
		}
	}()

	if err := ws.Connect(ctx); err != nil {
		return err
	}
	ws.Listen(ctx)
	return nil
}
