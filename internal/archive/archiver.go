package archive

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"geminirest/pkg/gemini"
	"geminirest/pkg/storage"

	"go.uber.org/zap"
)

// TradeSource is the slice of the private client the archiver needs.
type TradeSource interface {
	PastTrades(ctx context.Context, req gemini.PastTradesRequest) ([]gemini.Order, error)
}

// Options tune an Archiver. Zero values fall back to the defaults below.
type Options struct {
	Concurrency int
	LimitTrades int
	Timeout     time.Duration // per symbol, covers the fetch and the inserts
}

// Archiver copies the account's trade history into a TradeStore. Each run
// resumes a symbol from the newest trade already stored.
type Archiver struct {
	source TradeSource
	store  storage.TradeStore
	opts   Options
	logger *zap.Logger
}

// Result summarises one symbol of a run.
type Result struct {
	Symbol  string
	Pages   int
	Fetched int
	Saved   int
	Skipped int
	Err     error
}

func NewArchiver(source TradeSource, store storage.TradeStore, opts Options, logger *zap.Logger) *Archiver {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 5
	}
	if opts.LimitTrades <= 0 {
		opts.LimitTrades = 500
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{source: source, store: store, opts: opts, logger: logger}
}

// Run archives every symbol with at most Concurrency symbols in flight.
// Results come back in the order of symbols. A failing symbol does not stop
// the others; its error is reported in its Result.
func (a *Archiver) Run(ctx context.Context, symbols []string) []Result {
	results := make([]Result, len(symbols))
	sem := make(chan struct{}, a.opts.Concurrency)
	var wg sync.WaitGroup

	for i, symbol := range symbols {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			results[i] = Result{Symbol: symbol, Err: ctx.Err()}
			continue
		}

		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			res := a.archiveSymbol(ctx, symbol)
			if res.Err != nil {
				a.logger.Warn("finished with errors for symbol",
					zap.String("symbol", symbol), zap.Int("saved", res.Saved), zap.Error(res.Err))
			} else {
				a.logger.Info("completed successfully for symbol",
					zap.String("symbol", symbol), zap.Int("saved", res.Saved), zap.Int("skipped", res.Skipped))
			}
			results[i] = res
		}(i, symbol)
	}

	wg.Wait()
	return results
}

func (a *Archiver) archiveSymbol(ctx context.Context, symbol string) Result {
	res := Result{Symbol: symbol}
	key := strings.ToUpper(symbol)

	ctx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	req := gemini.PastTradesRequest{Symbol: strings.ToLower(symbol), LimitTrades: a.opts.LimitTrades}
	latest, found, err := a.store.LatestTradeTime(ctx, key)
	if err != nil {
		res.Err = fmt.Errorf("latest trade time: %w", err)
		return res
	}
	if found {
		// the exchange filters on whole seconds; overlap is dropped as duplicates
		req.SinceUnix = latest.Unix()
	}

	// a full page means more trades may follow; page forward from the
	// newest second seen until a short page arrives
	var failed []error
	for {
		orders, err := a.source.PastTrades(ctx, req)
		if err != nil {
			failed = append(failed, err)
			break
		}
		if err := gemini.CheckAll(toCollection(orders)); err != nil {
			failed = append(failed, err)
			break
		}
		res.Pages++
		res.Fetched += len(orders)

		newest := a.savePage(ctx, key, orders, &res, &failed)
		if len(orders) < req.LimitTrades {
			break
		}
		if newest <= req.SinceUnix {
			failed = append(failed, fmt.Errorf("page of %d trades does not advance past %d; raise limit_trades", len(orders), req.SinceUnix))
			break
		}
		req.SinceUnix = newest
	}
	res.Err = errors.Join(failed...)
	return res
}

// savePage stores one page and returns the newest trade time in unix seconds.
func (a *Archiver) savePage(ctx context.Context, key string, orders []gemini.Order, res *Result, failed *[]error) int64 {
	var newest int64
	for _, o := range orders {
		trade, err := TradeFromOrder(key, o)
		if err != nil {
			*failed = append(*failed, err)
			continue
		}
		if sec := trade.Time.Unix(); sec > newest {
			newest = sec
		}
		err = a.store.SaveTrade(ctx, trade)
		switch {
		case errors.Is(err, storage.ErrDuplicate):
			res.Skipped++
		case err != nil:
			*failed = append(*failed, fmt.Errorf("save trade %d: %w", trade.TradeID, err))
		default:
			res.Saved++
		}
	}
	return newest
}

func toCollection(orders []gemini.Order) gemini.Collection {
	c := make(gemini.Collection, len(orders))
	for i, o := range orders {
		c[i] = o.Record
	}
	return c
}

// TradeFromOrder converts a /v1/mytrades record. tid, price, amount and
// timestampms are required; the remaining fields are copied when present.
func TradeFromOrder(symbol string, o gemini.Order) (storage.Trade, error) {
	tid, ok := o.TradeID()
	if !ok {
		return storage.Trade{}, errors.New("trade without tid")
	}
	price, ok := o.Price()
	if !ok {
		return storage.Trade{}, fmt.Errorf("trade %d without price", tid)
	}
	amount, ok := o.Amount()
	if !ok {
		return storage.Trade{}, fmt.Errorf("trade %d without amount", tid)
	}
	at, ok := o.Time()
	if !ok {
		return storage.Trade{}, fmt.Errorf("trade %d without timestampms", tid)
	}

	t := storage.Trade{
		Symbol:  symbol,
		TradeID: tid,
		Price:   price,
		Amount:  amount,
		Time:    at,
	}
	t.OrderID, _ = o.OrderID()
	t.Type, _ = o.Type()
	t.FeeCurrency, _ = o.FeeCurrency()
	t.FeeAmount, _ = o.FeeAmount()
	t.Aggressor, _ = o.Aggressor()
	t.Exchange, _ = o.Exchange()
	return t, nil
}
